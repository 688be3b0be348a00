package handle

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/locio/internal/fs"
	"github.com/hupe1980/locio/testutil"
)

func TestFileHandle_ReadOnly(t *testing.T) {
	path := testutil.WriteLineFixture(t, t.TempDir(), "lines.txt", 16)

	h, err := OpenFile(path)
	require.NoError(t, err)
	defer h.Close()

	assert.True(t, h.Exists())
	assert.False(t, h.Writable())
	assert.Equal(t, path, h.Path())

	n, err := h.Length()
	require.NoError(t, err)
	assert.Equal(t, int64(16*testutil.LineSize), n)

	_, err = h.Seek(144, io.SeekStart)
	require.NoError(t, err)
	buf := make([]byte, 32)
	require.NoError(t, ReadFull(h, buf))
	assert.Equal(t, "              5\n.               ", string(buf))

	off, err := h.Offset()
	require.NoError(t, err)
	assert.Equal(t, int64(176), off)

	_, err = h.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestFileHandle_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.bin")

	h, err := OpenFileRW(path)
	require.NoError(t, err)
	require.NoError(t, WriteUint32(h, 7))
	require.NoError(t, h.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 7}, b)
}

func TestFileHandle_NotFound(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileHandle_Closed(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "a", []byte("abc"))
	h, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	assert.False(t, h.Exists())
	_, err = h.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = h.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFileHandle_InjectedReadFault(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "a", []byte("abcdef"))
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(path, fs.Fault{FailAfterReads: 0, FailAfterWrites: -1})

	h, err := OpenFile(path, WithFileSystem(ffs))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Read(make([]byte, 2))
	assert.ErrorIs(t, err, fs.ErrInjected)
}
