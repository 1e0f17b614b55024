//go:build unix

package dwprod

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/coral-mesh/dwprod/internal/safe"
)

// mapImage maps path read-only into memory.
func mapImage(path string) (*image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() == 0 {
		return &image{data: []byte{}}, nil
	}

	size, clamped := safe.Int64ToInt(info.Size())
	if clamped {
		return nil, fmt.Errorf("%s is too large to map (%d bytes)", path, info.Size())
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &image{
		data:    data,
		release: func() error { return unix.Munmap(data) },
	}, nil
}
