package handle

import "encoding/binary"

// Faulted is the captured-fault variant of a remote handle: the resource could
// not be looked up when the handle was opened, so every operation that needs
// the resource replays that failure. Exists reports false instead of failing.
type Faulted struct {
	err   error
	order binary.ByteOrder
}

// NewFaulted returns a handle that fails every byte operation with a
// DelayedNotFoundError for id wrapping cause.
func NewFaulted(id string, cause error) *Faulted {
	return &Faulted{
		err:   NewDelayedNotFoundError(id, cause),
		order: DefaultOrder,
	}
}

// Err returns the captured error.
func (f *Faulted) Err() error { return f.err }

func (f *Faulted) Read([]byte) (int, error)        { return 0, f.err }
func (f *Faulted) Write([]byte) (int, error)       { return 0, f.err }
func (f *Faulted) Seek(int64, int) (int64, error)  { return 0, f.err }
func (f *Faulted) Length() (int64, error)          { return 0, f.err }
func (f *Faulted) Offset() (int64, error)          { return 0, nil }
func (f *Faulted) Exists() bool                    { return false }
func (f *Faulted) Close() error                    { return nil }
func (f *Faulted) Order() binary.ByteOrder         { return f.order }
func (f *Faulted) SetOrder(order binary.ByteOrder) { f.order = order }
