package fsys

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal(t *testing.T) {
	tmp := t.TempDir()
	name := filepath.Join(tmp, "a.txt")
	var lfs Local

	f, err := lfs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.True(t, IsRegular(lfs, name))
	assert.False(t, IsRegular(lfs, tmp), "a directory is not a regular file")
	assert.False(t, IsRegular(lfs, filepath.Join(tmp, "missing")))

	r, err := lfs.Open(name)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	_, err = lfs.Open(filepath.Join(tmp, "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemFS_OpenMissing(t *testing.T) {
	m := NewMemFS()
	_, err := m.Open("/nope.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = m.Stat("/nope.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemFS_CreateTruncateAppend(t *testing.T) {
	m := NewMemFS()

	w, err := m.OpenFile("/f.txt", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	require.NoError(t, err)
	_, err = w.Write([]byte("one\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	a, err := m.OpenFile("/f.txt", os.O_RDWR|os.O_APPEND, 0)
	require.NoError(t, err)
	last := make([]byte, 1)
	_, err = a.ReadAt(last, 3)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), last[0])
	_, err = a.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	data, err := m.ReadFile("/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	info, err := m.Stat("/f.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size())
	assert.Equal(t, fs.FileMode(0o600), info.Mode())
	assert.True(t, IsRegular(m, "/f.txt"))

	tr, err := m.OpenFile("/f.txt", os.O_WRONLY|os.O_TRUNC, 0)
	require.NoError(t, err)
	require.NoError(t, tr.Close())
	data, err = m.ReadFile("/f.txt")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestMemFS_AccessModes(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/f.txt", "abc")

	r, err := m.Open("/f.txt")
	require.NoError(t, err)
	_, err = r.Write([]byte("x"))
	assert.Error(t, err, "read-only handle must reject writes")

	w, err := m.OpenFile("/f.txt", os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = w.Read(make([]byte, 1))
	assert.Error(t, err, "write-only handle must reject reads")

	require.NoError(t, w.Close())
	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, fs.ErrClosed)
	assert.ErrorIs(t, w.Close(), fs.ErrClosed)
}

func TestMemFS_Directories(t *testing.T) {
	m := NewMemFS()
	m.Mkdir("/data")

	_, err := m.Open("/data")
	assert.Error(t, err)
	info, err := m.Stat("/data")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.False(t, IsRegular(m, "/data"))
}

func TestMemFS_ExclusiveCreate(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/f.txt", "x")
	_, err := m.OpenFile("/f.txt", os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestMemFS_Names(t *testing.T) {
	m := NewMemFS()
	m.AddFile("b.txt", "")
	m.AddFile("/a.txt", "")
	m.AddFile("dir/../c.txt", "")
	assert.Equal(t, []string{"/a.txt", "b.txt", "c.txt"}, m.Names())
}
