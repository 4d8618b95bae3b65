// Package format implements the per-file-type identifier adapters.
//
// Three closed variants cover the eligible file types: a line-comment header
// (scripts and source files), a YAML frontmatter block (markdown), and a
// top-level structured key (YAML/JSON documents). Dispatch is strictly by
// file extension.
//
// Inject is idempotent: injecting an identifier the content already carries
// is a no-op, and injecting into an existing header or frontmatter block
// adds only the doc_id key, leaving unrelated content untouched. Content
// that cannot be parsed in its expected structural form fails with
// docerr.MalformedContainerError.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Key is the canonical embedded key name.
const Key = "doc_id"

// Adapter extracts and injects an identifier for one file category.
type Adapter interface {
	// Kind names the adapter variant: "comment", "frontmatter", "toplevel".
	Kind() string

	// Extract returns the raw embedded identifier value, if any. The value
	// is returned verbatim; grammar validation is the caller's concern.
	Extract(content []byte) (string, bool)

	// Inject returns content carrying id at its canonical location.
	Inject(content []byte, id string) ([]byte, error)
}

// conflictError reports content that already carries a different identifier.
func conflictError(existing, id string) error {
	return fmt.Errorf("content already carries %s (injecting %s); reassignment must be explicit", existing, id)
}

// extensionTable maps extensions to adapter constructors. The set is closed;
// unlisted extensions are not eligible for identifiers.
func adapterFor(ext string, headerLines int) (Adapter, bool) {
	switch ext {
	case ".md", ".markdown":
		return &FrontmatterAdapter{}, true
	case ".sh", ".bash", ".zsh", ".py", ".rb", ".mk":
		return &CommentAdapter{Token: "#", HeaderLines: headerLines}, true
	case ".go", ".js", ".ts", ".jsx", ".tsx", ".c", ".h", ".rs":
		return &CommentAdapter{Token: "//", HeaderLines: headerLines}, true
	case ".sql", ".lua":
		return &CommentAdapter{Token: "--", HeaderLines: headerLines}, true
	case ".html", ".htm", ".xml":
		return &CommentAdapter{Token: "<!--", Suffix: "-->", HeaderLines: headerLines}, true
	case ".yaml", ".yml":
		return &TopLevelKeyAdapter{JSON: false}, true
	case ".json":
		return &TopLevelKeyAdapter{JSON: true}, true
	default:
		return nil, false
	}
}

// ForPath returns the adapter responsible for path, dispatching by
// extension. headerLines bounds the prefix a comment adapter inspects;
// zero selects the default of 10.
func ForPath(path string, headerLines int) (Adapter, bool) {
	if headerLines <= 0 {
		headerLines = 10
	}
	ext := strings.ToLower(filepath.Ext(path))
	return adapterFor(ext, headerLines)
}

// Eligible reports whether path maps to any adapter.
func Eligible(path string) bool {
	_, ok := ForPath(path, 0)
	return ok
}
