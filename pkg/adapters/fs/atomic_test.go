package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "note.yaml")

	require.NoError(t, writeFileAtomic(target, []byte("first"), 0644))
	require.NoError(t, writeFileAtomic(target, []byte("second"), 0644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriteAtomic_FailureLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "note.yaml")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0644))

	err := writeAtomic(target, 0644, func(w io.Writer) error {
		_, _ = w.Write([]byte("half"))
		return errors.New("encoder failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "temp file %s left behind", e.Name())
	}
}
