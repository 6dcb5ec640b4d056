package pe

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/Binject/debug/pe"
)

type memoryReaderAt struct {
	data []byte
}

func (r *memoryReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off >= int64(len(r.data)) {
		return 0, fmt.Errorf("pe: offset %d out of range", off)
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}

// OpenImage wraps the image mapped at base in a Binject/debug pe.File. The
// view spans SizeOfImage bytes and reads the live mapping, so it is only
// valid while the module stays loaded.
func OpenImage(base uintptr) (*pe.File, error) {
	size, err := SizeOfImage(base)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, ErrBadNTSignature
	}
	data := unsafe.Slice((*byte)(at(base, 0)), size)
	f, err := pe.NewFileFromMemory(&memoryReaderAt{data: data})
	if err != nil {
		return nil, fmt.Errorf("pe: open mapped image: %w", err)
	}
	return f, nil
}
