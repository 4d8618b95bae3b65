package format

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"docid/internal/docerr"
)

// TopLevelKeyAdapter embeds the identifier as a top-level doc_id key in a
// structured document. YAML documents gain the key as a new first line so
// formatting and comments are preserved; JSON documents are re-marshaled
// with two-space indentation (key order is not preserved).
type TopLevelKeyAdapter struct {
	JSON bool
}

func (a *TopLevelKeyAdapter) Kind() string { return "toplevel" }

func (a *TopLevelKeyAdapter) Extract(content []byte) (string, bool) {
	if a.JSON {
		var doc map[string]any
		if err := json.Unmarshal(content, &doc); err != nil {
			return "", false
		}
		value, _ := doc[Key].(string)
		return value, value != ""
	}

	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return "", false
	}
	value, _ := doc[Key].(string)
	return value, value != ""
}

func (a *TopLevelKeyAdapter) Inject(content []byte, id string) ([]byte, error) {
	if a.JSON {
		return a.injectJSON(content, id)
	}
	return a.injectYAML(content, id)
}

func (a *TopLevelKeyAdapter) injectJSON(content []byte, id string) ([]byte, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(content)) > 0 {
		if err := json.Unmarshal(content, &doc); err != nil {
			return nil, &docerr.MalformedContainerError{Kind: "json", Reason: err.Error()}
		}
	}
	if existing, ok := doc[Key].(string); ok && existing != "" {
		if existing == id {
			return content, nil
		}
		return nil, conflictError(existing, id)
	}
	doc[Key] = id
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &docerr.MalformedContainerError{Kind: "json", Reason: err.Error()}
	}
	return append(out, '\n'), nil
}

func (a *TopLevelKeyAdapter) injectYAML(content []byte, id string) ([]byte, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return []byte(Key + ": " + id + "\n"), nil
	}

	// The document must parse as a top-level mapping before a key can be
	// added to it.
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, &docerr.MalformedContainerError{Kind: "yaml", Reason: err.Error()}
	}
	if doc == nil {
		return nil, &docerr.MalformedContainerError{Kind: "yaml", Reason: "document is not a mapping"}
	}
	if existing, ok := doc[Key].(string); ok && existing != "" {
		if existing == id {
			return content, nil
		}
		return nil, conflictError(existing, id)
	}

	// Splice the key as a new top-level line, after a document-start marker
	// if one is present, so the rest of the file is untouched.
	text := string(content)
	line := Key + ": " + id + "\n"
	if strings.HasPrefix(text, "---\n") {
		return []byte("---\n" + line + text[len("---\n"):]), nil
	}
	return []byte(line + text), nil
}
