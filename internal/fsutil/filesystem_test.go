package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_RoundTrip(t *testing.T) {
	var fs FileSystem = OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "out", "charts")

	require.NoError(t, fs.MkdirAll(dir, 0755))
	assert.True(t, fs.Exists(dir))

	path := filepath.Join(dir, "Trends.csv")
	w, err := fs.Create(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "unit_id,gas_name\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "unit_id,gas_name\n", string(data))

	f, err := fs.Open(path)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.Size())

	assert.False(t, fs.Exists(filepath.Join(dir, "missing.csv")))
}

func TestMemoryFileSystem_CreateAndRead(t *testing.T) {
	m := NewMemoryFileSystem()

	w, err := m.Create("out/Trends.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("a,b\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := m.ReadFile("out/./Trends.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	f, err := m.Open("out/Trends.csv")
	require.NoError(t, err)
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(got))
	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "Trends.csv", info.Name())
	assert.Equal(t, int64(4), info.Size())
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	m := NewMemoryFileSystem()

	_, err := m.ReadFile("nope.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = m.Open("nope.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.False(t, m.Exists("nope.csv"))
}

func TestMemoryFileSystem_DirsAndFiles(t *testing.T) {
	m := NewMemoryFileSystem()
	require.NoError(t, m.MkdirAll("out/charts", 0755))
	assert.True(t, m.Exists("out"))
	assert.True(t, m.Exists("out/charts"))

	m.WriteFile("out/b.csv", []byte("b"))
	m.WriteFile("out/a.csv", []byte("a"))
	m.WriteFile("other/c.csv", []byte("c"))

	assert.Equal(t, []string{"out/a.csv", "out/b.csv"}, m.Files("out"))
}

func TestMemoryFileSystem_WriteFileCopies(t *testing.T) {
	m := NewMemoryFileSystem()
	data := []byte("abc")
	m.WriteFile("x.csv", data)
	data[0] = 'z'

	got, err := m.ReadFile("x.csv")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
