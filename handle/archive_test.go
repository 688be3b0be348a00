package handle

import (
	"bytes"
	"encoding/hex"
	"io"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/locio/internal/fs"
	"github.com/hupe1980/locio/testutil"
)

// bzip2 of testutil.LineFixture(128).
const bzip2Fixture = "425a68393141592653597b4397f70001bbf800001000e040017fe03001062089aa8d1bdfeaaa9ffeaaa18530004d04a9fa954c9fea9feaa7e547a9ebcf5f97eff7ffa00001def7bdef7bd0000000000000002492492492492485dddddddfd00003a00068001998b999999be8e118b24924ecef4e155470aaae0552aaaaaed6aeeeeeeeecc5555555172b376aaaace655bb55556732addaaaab39956ed55559ccab76aaaace656555579ace67cd78dfaaaab399ec5dc914e14241ed0e5fdc"

func compress(t *testing.T, format Format, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch format {
	case FormatGzip:
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case FormatLZ4:
		w := lz4.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case FormatZstd:
		w, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case FormatBZip2:
		b, err := hex.DecodeString(bzip2Fixture)
		require.NoError(t, err)
		return b
	}
	return buf.Bytes()
}

func TestCompressedHandle(t *testing.T) {
	data := testutil.LineFixture(128)
	cases := []struct {
		name   string
		format Format
	}{
		{"lines.txt.gz", FormatGzip},
		{"lines.txt.bz2", FormatBZip2},
		{"lines.txt.lz4", FormatLZ4},
		{"lines.txt.zst", FormatZstd},
	}
	for _, tc := range cases {
		t.Run(tc.format.String(), func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), tc.name, compress(t, tc.format, data))
			require.Equal(t, tc.format, DetectFormat(nil, path))

			h, err := NewCompressedHandle(t.Context(), path, tc.format)
			require.NoError(t, err)
			defer h.Close()

			assert.Equal(t, path, h.Path())
			assert.Empty(t, h.Entry())

			n, err := h.Length()
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), n)

			buf := make([]byte, 32)
			_, err = h.Seek(4000, io.SeekStart)
			require.NoError(t, err)
			require.NoError(t, ReadFull(h, buf))
			assert.Equal(t, data[4000:4032], buf)
			assert.Zero(t, h.Reconnects())

			_, err = h.Seek(64, io.SeekStart)
			require.NoError(t, err)
			require.NoError(t, ReadFull(h, buf))
			assert.Equal(t, ".                             3\n", string(buf))
			assert.Equal(t, int64(1), h.Reconnects())

			_, err = h.Write(buf)
			assert.ErrorIs(t, err, ErrReadOnly)
		})
	}
}

func writeZip(t *testing.T, dir string, entries map[string][]byte, order ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("dir/")
	require.NoError(t, err)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return testutil.WriteFile(t, dir, "archive.zip", buf.Bytes())
}

func TestZipHandle(t *testing.T) {
	path := writeZip(t, t.TempDir(), map[string][]byte{
		"first.txt":  testutil.LineFixture(10),
		"second.txt": []byte("second"),
	}, "first.txt", "second.txt")
	require.True(t, IsZip(nil, path))

	t.Run("first entry", func(t *testing.T) {
		h, err := NewZipHandle(t.Context(), path, "")
		require.NoError(t, err)
		defer h.Close()

		assert.Equal(t, "first.txt", h.Entry())
		n, err := h.Length()
		require.NoError(t, err)
		assert.Equal(t, int64(320), n)

		_, err = h.Seek(288, io.SeekStart)
		require.NoError(t, err)
		b, err := io.ReadAll(h)
		require.NoError(t, err)
		assert.Equal(t, ".                            10\n", string(b))
	})

	t.Run("named entry", func(t *testing.T) {
		h, err := NewZipHandle(t.Context(), path, "second.txt")
		require.NoError(t, err)
		defer h.Close()

		b, err := io.ReadAll(h)
		require.NoError(t, err)
		assert.Equal(t, "second", string(b))
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := NewZipHandle(t.Context(), path, "nope.txt")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	data := []byte("plain text, not compressed")

	plain := testutil.WriteFile(t, dir, "fake.gz", data)
	assert.False(t, IsGzip(nil, plain))
	assert.Zero(t, DetectFormat(nil, plain))

	gz := testutil.WriteFile(t, dir, "real.GZ", compress(t, FormatGzip, data))
	assert.True(t, IsGzip(nil, gz))

	noExt := testutil.WriteFile(t, dir, "real", compress(t, FormatGzip, data))
	assert.False(t, IsGzip(nil, noExt))

	assert.False(t, IsZip(nil, filepath.Join(dir, "missing.zip")))
	assert.False(t, IsZstd(fs.Default, gz))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "zstd", FormatZstd.String())
	assert.Equal(t, "Format(0)", Format(0).String())
}
