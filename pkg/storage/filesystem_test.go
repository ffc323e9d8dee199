package storage

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("students/a.png", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "students/a.png", name)

	path, err := store.Path(name)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	require.NoError(t, store.Delete(name))
	require.NoError(t, store.Delete(name), "deleting twice is not an error")
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../outside.png", []byte("x"))
	assert.True(t, errors.Is(err, ErrOutsideBase))
	assert.True(t, errors.Is(store.Delete("../../etc/passwd"), ErrOutsideBase))
}
