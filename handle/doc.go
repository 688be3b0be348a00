// Package handle provides seekable, byte-addressable handles over local files,
// in-memory arrays, memory-mapped files, HTTP resources and compressed
// archives.
//
// Every backend implements the Handle interface. Backends that can only read
// sequentially are built on StreamHandle, which emulates random access by
// skipping forward in the live stream and re-opening it at the target offset
// for backward or long forward seeks:
//
//	h, err := handle.OpenHTTP(ctx, "https://example.org/data.bin")
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//
//	if _, err := h.Seek(1024, io.SeekStart); err != nil {
//		return err
//	}
//	v, err := handle.ReadUint32(h)
//
// Handles are not safe for concurrent use.
package handle
