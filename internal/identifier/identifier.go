// Package identifier implements the doc_id grammar.
//
// An identifier has the form DOC-{CATEGORY}-{NAME}-{SEQUENCE}: the literal
// DOC prefix, an uppercase alphanumeric category, one or more hyphen-joined
// uppercase alphanumeric name segments, and a zero-padded sequence of at
// least three digits. Identifiers are immutable once minted and are never
// reused, even after deprecation.
package identifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pattern is the anchored identifier grammar.
const Pattern = `^DOC-[A-Z0-9]+-[A-Z0-9]+(-[A-Z0-9]+)*-[0-9]{3,}$`

var (
	grammar = regexp.MustCompile(Pattern)

	// scanPattern finds identifier-shaped tokens inside arbitrary content,
	// for cross-reference harvesting. Boundaries keep it from matching inside
	// longer words.
	scanPattern = regexp.MustCompile(`\bDOC-[A-Z0-9]+(?:-[A-Z0-9]+)+-[0-9]{3,}\b`)

	segmentPattern = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// Identifier is a parsed doc_id.
type Identifier struct {
	Prefix   string // category prefix, e.g. SCRIPT
	Name     string // hyphen-joined name segments, e.g. BUILD-ALL
	Sequence int
}

// Valid reports whether s matches the identifier grammar.
func Valid(s string) bool {
	return grammar.MatchString(s)
}

// Parse splits an identifier string into its parts.
func Parse(s string) (Identifier, error) {
	if !grammar.MatchString(s) {
		return Identifier{}, fmt.Errorf("identifier %q does not match grammar %s", s, Pattern)
	}
	parts := strings.Split(s, "-")
	// DOC, prefix, name..., sequence
	seq, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return Identifier{}, fmt.Errorf("identifier %q: bad sequence: %w", s, err)
	}
	return Identifier{
		Prefix:   parts[1],
		Name:     strings.Join(parts[2:len(parts)-1], "-"),
		Sequence: seq,
	}, nil
}

// Format renders an identifier. Sequences are padded to three digits; wider
// sequences print unpadded.
func Format(prefix, name string, seq int) string {
	return fmt.Sprintf("DOC-%s-%s-%03d", prefix, name, seq)
}

func (id Identifier) String() string {
	return Format(id.Prefix, id.Name, id.Sequence)
}

// NormalizeName converts an arbitrary file base name into a valid name
// segment sequence: uppercased, runs of non-alphanumerics collapsed to a
// single hyphen.
func NormalizeName(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToUpper(s) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ValidSegment reports whether s is a legal category prefix or name segment.
func ValidSegment(s string) bool {
	return segmentPattern.MatchString(s)
}

// FindAll returns every identifier-shaped token in content, in order of
// appearance, duplicates preserved.
func FindAll(content []byte) []string {
	return scanPattern.FindAllString(string(content), -1)
}
