package objstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/locio/handle"
	"github.com/hupe1980/locio/testutil"
)

const fixtureURI = "s3+http://localhost:31836/bucket/2MBfile.txt"

func newFixtureClient(t *testing.T) *MemoryClient {
	t.Helper()
	c := NewMemoryClient()
	c.PutObject("bucket", "2MBfile.txt", testutil.LineFixture(testutil.FixtureLines))
	c.MakeBucket("empty")
	return c
}

func TestHandle_RandomAccess(t *testing.T) {
	c := newFixtureClient(t)
	var resets []int64

	h, err := Open(t.Context(), fixtureURI, WithClientFactory(c.Factory()), WithResetHook(func(off int64) {
		resets = append(resets, off)
	}))
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Err())
	assert.True(t, h.Exists())
	assert.False(t, h.IsBucket())
	assert.False(t, h.LastModified().IsZero())
	assert.Equal(t, "bucket", h.Ref().Bucket)

	n, err := h.Length()
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), n)

	buf := make([]byte, 32)
	cases := []struct {
		offset     int64
		want       string
		reconnects int64
	}{
		{0, ".                             1\n", 0},
		{80, "              3\n.               ", 0},
		{2097056, ".                         65534\n", 1},
		{144, "              5\n.               ", 2},
	}
	for _, tc := range cases {
		_, err := h.Seek(tc.offset, io.SeekStart)
		require.NoError(t, err)
		require.NoError(t, handle.ReadFull(h, buf))
		assert.Equal(t, tc.want, string(buf), "offset %d", tc.offset)
		assert.Equal(t, tc.reconnects, h.Reconnects(), "offset %d", tc.offset)
	}
	assert.Equal(t, int64(3), c.GetObjectCalls())
	assert.Equal(t, []int64{2097056, 144}, resets)
}

func TestHandle_ForwardSeekLimitDisabled(t *testing.T) {
	c := newFixtureClient(t)

	h, err := Open(t.Context(), fixtureURI, WithClientFactory(c.Factory()), WithForwardSeekLimit(0))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Seek(80, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 32)
	require.NoError(t, handle.ReadFull(h, buf))
	assert.Equal(t, "              3\n.               ", string(buf))
	assert.Equal(t, int64(1), h.Reconnects())
	assert.Equal(t, int64(2), c.GetObjectCalls())
}

func TestHandle_ResetStream(t *testing.T) {
	c := newFixtureClient(t)
	h, err := Open(t.Context(), fixtureURI, WithClientFactory(c.Factory()))
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.ResetStream(750144))
	off, err := h.Offset()
	require.NoError(t, err)
	assert.Equal(t, int64(750144), off)

	buf := make([]byte, 32)
	require.NoError(t, handle.ReadFull(h, buf))
	assert.Equal(t, ".                         23443\n", string(buf))
	assert.Equal(t, int64(1), h.Reconnects())
	assert.Equal(t, int64(2), c.StatObjectCalls())
}

func TestHandle_SeekPastEnd(t *testing.T) {
	c := NewMemoryClient()
	c.PutObject("bucket", "small", []byte("abc"))
	h, err := Open(t.Context(), "s3://localhost/bucket/small", WithClientFactory(c.Factory()))
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.ResetStream(10))
	_, err = h.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, int64(1), c.GetObjectCalls())
}

func TestHandle_WriteRejected(t *testing.T) {
	c := newFixtureClient(t)
	h, err := Open(t.Context(), fixtureURI, WithClientFactory(c.Factory()))
	require.NoError(t, err)

	_, err = h.Write([]byte("x"))
	assert.ErrorIs(t, err, handle.ErrReadOnly)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	_, err = h.Read(make([]byte, 1))
	assert.ErrorIs(t, err, handle.ErrClosed)
	assert.False(t, h.Exists())
}

func TestHandle_DelayedNotFound(t *testing.T) {
	c := newFixtureClient(t)

	h, err := Open(t.Context(), "s3+http://localhost:31836/bucket/missing.txt", WithClientFactory(c.Factory()))
	require.NoError(t, err)
	defer h.Close()

	assert.False(t, h.Exists())
	assert.False(t, h.IsBucket())

	var dnf *handle.DelayedNotFoundError
	require.ErrorAs(t, h.Err(), &dnf)

	_, err = h.Read(make([]byte, 1))
	assert.ErrorIs(t, err, handle.ErrNotFound)
	_, err = h.Seek(10, io.SeekStart)
	assert.ErrorIs(t, err, handle.ErrNotFound)
	_, err = h.Length()
	assert.ErrorIs(t, err, handle.ErrNotFound)
	assert.ErrorIs(t, h.ResetStream(0), handle.ErrNotFound)
	assert.Zero(t, h.Reconnects())
	assert.True(t, h.LastModified().IsZero())
}

func TestHandle_CapturedFailures(t *testing.T) {
	refused := errors.New("connection refused")

	t.Run("client error", func(t *testing.T) {
		c := newFixtureClient(t)
		c.SetError(refused)
		h, err := Open(t.Context(), fixtureURI, WithClientFactory(c.Factory()))
		require.NoError(t, err)
		assert.False(t, h.Exists())
		assert.ErrorIs(t, h.Err(), refused)
		assert.ErrorIs(t, h.Err(), handle.ErrNotFound)
	})

	t.Run("factory error", func(t *testing.T) {
		factory := func(context.Context, Ref) (Client, error) { return nil, ErrUnsupportedTransport }
		h, err := Open(t.Context(), "s3+custom://localhost/bucket/key", WithClientFactory(factory))
		require.NoError(t, err)
		assert.ErrorIs(t, h.Err(), ErrUnsupportedTransport)
	})

	t.Run("no factory", func(t *testing.T) {
		h, err := Open(t.Context(), fixtureURI)
		require.NoError(t, err)
		assert.ErrorIs(t, h.Err(), ErrNoClientFactory)
	})

	t.Run("no bucket", func(t *testing.T) {
		c := newFixtureClient(t)
		h, err := Open(t.Context(), "s3://localhost/", WithClientFactory(c.Factory()))
		require.NoError(t, err)
		assert.False(t, h.Exists())
		assert.ErrorIs(t, h.Err(), ErrNoBucket)
	})

	t.Run("invalid uri", func(t *testing.T) {
		_, err := Open(t.Context(), "s3://local host/bucket")
		assert.ErrorIs(t, err, ErrInvalidURI)
	})
}

func TestHandle_BucketProbe(t *testing.T) {
	c := newFixtureClient(t)

	for _, uri := range []string{"s3://localhost/empty", "s3://localhost/bucket/"} {
		h, err := Open(t.Context(), uri, WithClientFactory(c.Factory()))
		require.NoError(t, err)
		assert.True(t, h.IsBucket(), uri)
		assert.True(t, h.Exists(), uri)

		_, err = h.Read(make([]byte, 1))
		assert.ErrorIs(t, err, handle.ErrNotFound)
		assert.ErrorIs(t, err, ErrNoObjectKey)
		require.NoError(t, h.Close())
	}

	h, err := Open(t.Context(), "s3://localhost/nobucket", WithClientFactory(c.Factory()))
	require.NoError(t, err)
	assert.False(t, h.IsBucket())
	assert.False(t, h.Exists())
	assert.ErrorIs(t, h.Err(), ErrNotFound)
}

func TestHandle_ByteOrder(t *testing.T) {
	c := NewMemoryClient()
	c.PutObject("b", "k", []byte{0x00, 0x2A, 0x2A, 0x00})
	h, err := Open(t.Context(), "s3://localhost/b/k", WithClientFactory(c.Factory()))
	require.NoError(t, err)
	defer h.Close()

	v, err := handle.ReadUint16(h)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), v)

	h.SetOrder(littleEndian)
	v, err = handle.ReadUint16(h)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), v)
}
