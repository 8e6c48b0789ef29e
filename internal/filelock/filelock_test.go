package filelock

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireIsExclusive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := Acquire(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, lockName), first.Path())

	_, err = Acquire(dir)
	assert.True(t, errors.Is(err, ErrInstanceRunning))

	require.NoError(t, first.Unlock())

	again, err := Acquire(dir)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}
