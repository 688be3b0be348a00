package handle

import (
	"io"
	"math"
)

// ReadFull reads exactly len(p) bytes from h.
func ReadFull(h Handle, p []byte) error {
	_, err := io.ReadFull(h, p)
	return err
}

// Skip advances the file pointer of h by n bytes.
func Skip(h Handle, n int64) error {
	_, err := h.Seek(n, io.SeekCurrent)
	return err
}

// ReadUint8 reads a single byte.
func ReadUint8(h Handle) (uint8, error) {
	var b [1]byte
	if err := ReadFull(h, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a uint16 in h's byte order.
func ReadUint16(h Handle) (uint16, error) {
	var b [2]byte
	if err := ReadFull(h, b[:]); err != nil {
		return 0, err
	}
	return h.Order().Uint16(b[:]), nil
}

// ReadUint32 reads a uint32 in h's byte order.
func ReadUint32(h Handle) (uint32, error) {
	var b [4]byte
	if err := ReadFull(h, b[:]); err != nil {
		return 0, err
	}
	return h.Order().Uint32(b[:]), nil
}

// ReadUint64 reads a uint64 in h's byte order.
func ReadUint64(h Handle) (uint64, error) {
	var b [8]byte
	if err := ReadFull(h, b[:]); err != nil {
		return 0, err
	}
	return h.Order().Uint64(b[:]), nil
}

// ReadInt16 reads a two's-complement int16.
func ReadInt16(h Handle) (int16, error) {
	v, err := ReadUint16(h)
	return int16(v), err
}

// ReadInt32 reads a two's-complement int32.
func ReadInt32(h Handle) (int32, error) {
	v, err := ReadUint32(h)
	return int32(v), err
}

// ReadInt64 reads a two's-complement int64.
func ReadInt64(h Handle) (int64, error) {
	v, err := ReadUint64(h)
	return int64(v), err
}

// ReadFloat32 reads an IEEE 754 float32.
func ReadFloat32(h Handle) (float32, error) {
	v, err := ReadUint32(h)
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE 754 float64.
func ReadFloat64(h Handle) (float64, error) {
	v, err := ReadUint64(h)
	return math.Float64frombits(v), err
}

// WriteUint16 writes v in h's byte order.
func WriteUint16(h Handle, v uint16) error {
	var b [2]byte
	h.Order().PutUint16(b[:], v)
	_, err := h.Write(b[:])
	return err
}

// WriteUint32 writes v in h's byte order.
func WriteUint32(h Handle, v uint32) error {
	var b [4]byte
	h.Order().PutUint32(b[:], v)
	_, err := h.Write(b[:])
	return err
}

// WriteUint64 writes v in h's byte order.
func WriteUint64(h Handle, v uint64) error {
	var b [8]byte
	h.Order().PutUint64(b[:], v)
	_, err := h.Write(b[:])
	return err
}

// WriteFloat32 writes the IEEE 754 bits of v.
func WriteFloat32(h Handle, v float32) error {
	return WriteUint32(h, math.Float32bits(v))
}

// WriteFloat64 writes the IEEE 754 bits of v.
func WriteFloat64(h Handle, v float64) error {
	return WriteUint64(h, math.Float64bits(v))
}
