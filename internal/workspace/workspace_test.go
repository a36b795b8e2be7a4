// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tmp")

	w, err := New(root, "docx", []byte("document bytes"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, w.ID()), w.Dir())
	assert.Equal(t, "temp.docx", filepath.Base(w.InputPath()))

	data, err := os.ReadFile(w.InputPath())
	require.NoError(t, err)
	assert.Equal(t, "document bytes", string(data))

	require.NoError(t, os.WriteFile(filepath.Join(w.Dir(), "temp.pdf"), []byte("%PDF-"), 0o644))
	require.NoError(t, w.Close())
	assert.NoDirExists(t, w.Dir())
	assert.NoError(t, w.Close(), "second Close should be a no-op")
}

func TestNew_SameTypeGetsDistinctPaths(t *testing.T) {
	root := t.TempDir()

	a, err := New(root, "docx", []byte("a"))
	require.NoError(t, err)
	defer a.Close()
	b, err := New(root, "docx", []byte("b"))
	require.NoError(t, err)
	defer b.Close()

	assert.NotEqual(t, a.InputPath(), b.InputPath())

	gotA, _ := os.ReadFile(a.InputPath())
	gotB, _ := os.ReadFile(b.InputPath())
	assert.Equal(t, "a", string(gotA))
	assert.Equal(t, "b", string(gotB))
}

func TestNew_RejectsUnsafeFileTypes(t *testing.T) {
	root := t.TempDir()
	for _, ft := range []string{"", "../../etc/passwd", "docx/..", "tar.gz", "doc x", "averyveryverylongext"} {
		t.Run(ft, func(t *testing.T) {
			_, err := New(root, ft, []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidFileType)
		})
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected requests must not leave directories behind")
}
