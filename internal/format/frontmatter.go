package format

import (
	"strings"

	"gopkg.in/yaml.v3"

	"docid/internal/docerr"
)

// FrontmatterAdapter embeds the identifier in a YAML frontmatter block
// delimited by `---` lines at the very top of the file. Files without
// frontmatter gain a minimal block on injection; files with frontmatter gain
// only the doc_id key, spliced in textually so every other line survives
// byte-for-byte.
type FrontmatterAdapter struct{}

func (a *FrontmatterAdapter) Kind() string { return "frontmatter" }

// splitFrontmatter returns the raw block body (without delimiters), the rest
// of the document, and whether a complete block was found. A lone opening
// delimiter with no closing one reports malformed=true.
func splitFrontmatter(content []byte) (block, rest string, found, malformed bool) {
	text := string(content)
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return "", text, false, false
	}
	nl := strings.IndexByte(text, '\n')
	body := text[nl+1:]

	// Walk line by line looking for the closing delimiter.
	search := body
	offset := 0
	for {
		switch {
		case strings.HasPrefix(search, "---\n"):
			return body[:offset], search[len("---\n"):], true, false
		case strings.HasPrefix(search, "---\r\n"):
			return body[:offset], search[len("---\r\n"):], true, false
		case search == "---":
			return body[:offset], "", true, false
		}
		i := strings.IndexByte(search, '\n')
		if i < 0 {
			return "", text, false, true
		}
		offset += i + 1
		search = search[i+1:]
	}
}

// Extract parses the frontmatter block and returns its doc_id value.
func (a *FrontmatterAdapter) Extract(content []byte) (string, bool) {
	block, _, found, _ := splitFrontmatter(content)
	if !found {
		return "", false
	}
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return "", false
	}
	raw, ok := fields[Key]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Inject adds the doc_id key. A file with no frontmatter gains a minimal
// block; an existing block gains one line immediately after the opening
// delimiter. An unterminated or unparseable block is a malformed container.
func (a *FrontmatterAdapter) Inject(content []byte, id string) ([]byte, error) {
	block, _, found, malformed := splitFrontmatter(content)
	if malformed {
		return nil, &docerr.MalformedContainerError{Kind: "frontmatter", Reason: "unterminated frontmatter block"}
	}

	if !found {
		header := "---\n" + Key + ": " + id + "\n---\n"
		if len(content) > 0 {
			header += "\n"
		}
		return append([]byte(header), content...), nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return nil, &docerr.MalformedContainerError{Kind: "frontmatter", Reason: err.Error()}
	}
	if raw, ok := fields[Key]; ok {
		existing, _ := raw.(string)
		if existing == id {
			return content, nil
		}
		return nil, conflictError(existing, id)
	}

	// Splice the key in right after the opening delimiter.
	text := string(content)
	nl := strings.IndexByte(text, '\n')
	out := text[:nl+1] + Key + ": " + id + "\n" + text[nl+1:]
	return []byte(out), nil
}
