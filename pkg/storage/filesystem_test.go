package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("records/teachers.json", []byte(`[]`)))
	data, err := s.Read("records/teachers.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	require.NoError(t, s.Save("records/teachers.json", []byte(`[{"id":"t1"}]`)))
	data, err = s.Read("records/teachers.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"t1"}]`, string(data))

	require.NoError(t, s.Delete("records/teachers.json"))
	_, err = s.Read("records/teachers.json")
	assert.True(t, errors.Is(err, ErrNotExist))
	require.NoError(t, s.Delete("records/teachers.json"))
}

func TestLocalStorageStaysInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("../../escape.json", []byte(`{}`)))
	assert.Contains(t, s.Path("../../escape.json"), dir)

	_, err = s.Read("")
	assert.Error(t, err)
}
