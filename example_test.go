package locio_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/locio"
	"github.com/hupe1980/locio/handle"
	"github.com/hupe1980/locio/testutil"
)

// Example_pinnedHandle demonstrates addressing in-memory bytes by name.
func Example_pinnedHandle() {
	ctx := context.Background()
	r := locio.New()

	mem := handle.NewArrayHandle(nil)
	if err := handle.WriteUint16(mem, 0x4D4D); err != nil {
		log.Fatal(err)
	}
	r.IDMap().MapHandle("virtual.tif", mem)

	h, err := r.Open(ctx, "virtual.tif")
	if err != nil {
		log.Fatal(err)
	}
	if _, err := h.Seek(0, io.SeekStart); err != nil {
		log.Fatal(err)
	}
	v, err := handle.ReadUint16(h)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%#x exists=%v\n", v, r.Location("virtual.tif").Exists(ctx))
	// Output: 0x4d4d exists=true
}

// Example_randomAccess demonstrates seeking within a local file.
func Example_randomAccess() {
	dir, err := os.MkdirTemp("", "locio-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "lines.txt")
	if err := os.WriteFile(path, testutil.LineFixture(100), 0o644); err != nil {
		log.Fatal(err)
	}

	r := locio.New()
	h, err := r.Open(context.Background(), path)
	if err != nil {
		log.Fatal(err)
	}
	defer h.Close()

	if _, err := h.Seek(41*testutil.LineSize, io.SeekStart); err != nil {
		log.Fatal(err)
	}
	line := make([]byte, testutil.LineSize)
	if err := handle.ReadFull(h, line); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%q\n", line)
	// Output: ".                            42\n"
}

// Example_listDirectory demonstrates listing a directory through a Location.
func Example_listDirectory() {
	dir, err := os.MkdirTemp("", "locio-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	for _, name := range []string{"a.tif", "b.tif", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			log.Fatal(err)
		}
	}

	r := locio.New(locio.WithCacheListings(true))
	fmt.Println(r.Location(dir).List(context.Background(), true))
	// Output: [a.tif b.tif]
}
