package testutil

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// LineSize is the length of one fixture line including the newline.
const LineSize = 32

// FixtureLines is the number of lines in the 2 MiB fixture.
const FixtureLines = 2 << 20 / LineSize

// LineFixture returns a fixture of n lines, numbered from 1.
func LineFixture(n int) []byte {
	var buf bytes.Buffer
	buf.Grow(n * LineSize)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&buf, ".%30d\n", i)
	}
	return buf.Bytes()
}

var (
	fixtureOnce sync.Once
	fixture     []byte
)

// LineFixtureAt returns n bytes of the 2 MiB fixture starting at offset.
func LineFixtureAt(offset, n int) []byte {
	fixtureOnce.Do(func() { fixture = LineFixture(FixtureLines) })
	end := min(offset+n, len(fixture))
	return bytes.Clone(fixture[offset:end])
}

// WriteLineFixture writes a fixture of n lines to dir/name and returns its path.
func WriteLineFixture(t testing.TB, dir, name string, n int) string {
	t.Helper()
	return WriteFile(t, dir, name, LineFixture(n))
}

// WriteFile writes data to dir/name, creating parent directories.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// RNG wraps a seeded random source. It is safe for concurrent use.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewRNG creates a new RNG with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{rand: rand.New(rand.NewSource(seed))}
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// Int63n returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63n(n)
}
