package format

import (
	"strings"
)

// CommentAdapter embeds the identifier in a line comment near the top of the
// file, e.g. `# doc_id: DOC-SCRIPT-BUILD-001`. Only the first HeaderLines
// lines are inspected so a stray mention deep in a file is never mistaken
// for the embedded identifier.
type CommentAdapter struct {
	Token       string // comment opener, e.g. "#", "//", "--", "<!--"
	Suffix      string // comment closer for paired styles, e.g. "-->"
	HeaderLines int
}

func (a *CommentAdapter) Kind() string { return "comment" }

func (a *CommentAdapter) marker() string {
	return a.Token + " " + Key + ":"
}

// Extract scans the bounded header prefix for the doc_id comment line.
func (a *CommentAdapter) Extract(content []byte) (string, bool) {
	lines := strings.Split(string(content), "\n")
	limit := a.HeaderLines
	if limit <= 0 || limit > len(lines) {
		limit = min(len(lines), 10)
	}
	marker := a.marker()
	for _, line := range lines[:limit] {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, marker) {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(trimmed, marker))
		if a.Suffix != "" {
			value = strings.TrimSpace(strings.TrimSuffix(value, a.Suffix))
		}
		if value == "" {
			continue
		}
		return value, true
	}
	return "", false
}

// Inject places the doc_id comment as the first line, after a shebang if one
// is present. Injecting a matching identifier is a no-op; a different
// embedded identifier is a conflict.
func (a *CommentAdapter) Inject(content []byte, id string) ([]byte, error) {
	if existing, ok := a.Extract(content); ok {
		if existing == id {
			return content, nil
		}
		return nil, conflictError(existing, id)
	}

	line := a.marker() + " " + id
	if a.Suffix != "" {
		line += " " + a.Suffix
	}

	text := string(content)
	if strings.HasPrefix(text, "#!") {
		// Keep the shebang on line one.
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			return []byte(text + "\n" + line + "\n"), nil
		}
		return []byte(text[:idx+1] + line + "\n" + text[idx+1:]), nil
	}
	return []byte(line + "\n" + text), nil
}
