package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	valid := []string{
		"DOC-SCRIPT-FOO-001",
		"DOC-GUIDE-X-001",
		"DOC-CONFIG-BUILD-ALL-0042",
		"DOC-A1-B2-123",
		"DOC-SCRIPT-FOO-1000",
	}
	for _, id := range valid {
		assert.True(t, Valid(id), "expected %q to be valid", id)
	}

	invalid := []string{
		"",
		"DOC-SCRIPT-FOO-01",      // sequence too short
		"DOC-script-FOO-001",     // lowercase category
		"DOC-SCRIPT-foo-001",     // lowercase name
		"DOC-SCRIPT-001",         // no name segment
		"doc-SCRIPT-FOO-001",     // lowercase prefix
		"DOC-SCRIPT-FOO-001-",    // trailing hyphen
		"XDOC-SCRIPT-FOO-001",    // wrong prefix
		"DOC-SCRIPT-FOO-001 two", // trailing garbage
	}
	for _, id := range invalid {
		assert.False(t, Valid(id), "expected %q to be invalid", id)
	}
}

func TestParse(t *testing.T) {
	t.Run("single name segment", func(t *testing.T) {
		id, err := Parse("DOC-SCRIPT-FOO-007")
		require.NoError(t, err)
		assert.Equal(t, "SCRIPT", id.Prefix)
		assert.Equal(t, "FOO", id.Name)
		assert.Equal(t, 7, id.Sequence)
	})

	t.Run("multi-segment name", func(t *testing.T) {
		id, err := Parse("DOC-GUIDE-GETTING-STARTED-012")
		require.NoError(t, err)
		assert.Equal(t, "GUIDE", id.Prefix)
		assert.Equal(t, "GETTING-STARTED", id.Name)
		assert.Equal(t, 12, id.Sequence)
	})

	t.Run("rejects bad grammar", func(t *testing.T) {
		_, err := Parse("DOC-SCRIPT-1")
		assert.Error(t, err)
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "DOC-SCRIPT-FOO-001", Format("SCRIPT", "FOO", 1))
	assert.Equal(t, "DOC-SCRIPT-FOO-042", Format("SCRIPT", "FOO", 42))
	// Wider sequences print unpadded and still satisfy the grammar.
	assert.Equal(t, "DOC-SCRIPT-FOO-1234", Format("SCRIPT", "FOO", 1234))
	assert.True(t, Valid(Format("SCRIPT", "FOO", 1234)))
}

func TestRoundTrip(t *testing.T) {
	id := Identifier{Prefix: "CONFIG", Name: "CI-PIPELINE", Sequence: 33}
	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"build_all":       "BUILD-ALL",
		"Getting Started": "GETTING-STARTED",
		"read.me":         "READ-ME",
		"--weird--":       "WEIRD",
		"härte":           "H-RTE",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestFindAll(t *testing.T) {
	content := []byte(`# doc_id: DOC-SCRIPT-FOO-001
See DOC-GUIDE-INTRO-002 and DOC-GUIDE-INTRO-002 again.
Not an id: DOC-lower-case-003, DOCX-GUIDE-Y-004.`)
	refs := FindAll(content)
	assert.Equal(t, []string{
		"DOC-SCRIPT-FOO-001",
		"DOC-GUIDE-INTRO-002",
		"DOC-GUIDE-INTRO-002",
	}, refs)
}
