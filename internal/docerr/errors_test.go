package docerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemWrapping(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, System("op", nil))
	})

	t.Run("wraps a plain error once", func(t *testing.T) {
		base := errors.New("disk full")
		err := System("persist registry", base)
		require.True(t, IsSystem(err))
		assert.ErrorIs(t, err, base)

		// Re-wrapping does not nest.
		again := System("outer", err)
		assert.Same(t, err, again)
	})

	t.Run("survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("sync: %w", System("acquire registry lock", errors.New("timeout")))
		assert.True(t, IsSystem(err))
	})

	t.Run("plain errors are not system", func(t *testing.T) {
		assert.False(t, IsSystem(errors.New("nope")))
	})
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t,
		(&UniquenessConflict{Identifier: "DOC-SCRIPT-A-001", Paths: []string{"a.sh", "b.sh"}}).Error(),
		"a.sh b.sh")
	assert.Contains(t,
		(&CategoryError{Category: "video"}).Error(),
		`unknown category "video"`)
	assert.Contains(t,
		(&ConsistencyError{Identifier: "DOC-SCRIPT-A-001", Registry: "a.sh", Inventory: "b.sh"}).Error(),
		"file moved, registry stale")
	assert.Contains(t,
		(&ConsistencyError{Identifier: "DOC-SCRIPT-A-001", Registry: "a.sh"}).Error(),
		"registry stale, file missing")
}
