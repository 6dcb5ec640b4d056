//go:build windows

package resolver

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"

	"github.com/carved4/go-ntresolve/pkg/strutil"
)

// ntLoader calls LdrLoadDll and LdrGetProcedureAddress by address. It only
// exists once both addresses are known.
type ntLoader struct {
	ldrLoadDll             uintptr
	ldrGetProcedureAddress uintptr
}

func newNtLoader(ldrLoadDll, ldrGetProcedureAddress uintptr) (Loader, error) {
	if ldrLoadDll == 0 || ldrGetProcedureAddress == 0 {
		return nil, ErrMissingPrimitive
	}
	return &ntLoader{
		ldrLoadDll:             ldrLoadDll,
		ldrGetProcedureAddress: ldrGetProcedureAddress,
	}, nil
}

// LoadLibrary calls LdrLoadDll(NULL, NULL, &name, &handle). The counted
// string points straight at the UTF-16 buffer; no terminator is added.
func (l *ntLoader) LoadLibrary(name string) (uintptr, error) {
	buf, err := strutil.UTF16FromString(name)
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, ErrModuleUnavailable
	}
	if len(buf) > maxNameUnits {
		return 0, ErrNameTooLong
	}
	us := &windows.NTUnicodeString{
		Length:        uint16(len(buf) * 2),
		MaximumLength: uint16(len(buf) * 2),
		Buffer:        &buf[0],
	}
	var handle uintptr
	r1, _, _ := purego.SyscallN(l.ldrLoadDll,
		0, // search path
		0, // characteristics
		uintptr(unsafe.Pointer(us)),
		uintptr(unsafe.Pointer(&handle)),
	)
	runtime.KeepAlive(us)
	runtime.KeepAlive(buf)
	if status := windows.NTStatus(uint32(r1)); status != windows.STATUS_SUCCESS {
		return 0, status
	}
	return handle, nil
}

// GetProcAddress calls LdrGetProcedureAddress(module, &name, ordinal, &addr).
// A nil name pointer makes the loader use the ordinal.
func (l *ntLoader) GetProcAddress(module uintptr, name string, ordinal uint32) (uintptr, error) {
	var ansi *windows.NTString
	if name != "" {
		b, err := strutil.BytesFromString(name)
		if err != nil {
			return 0, err
		}
		if len(b) > 0xFFFE {
			return 0, ErrNameTooLong
		}
		ansi = &windows.NTString{
			Length:        uint16(len(b)),
			MaximumLength: uint16(len(b)),
			Buffer:        &b[0],
		}
	} else if ordinal == 0 {
		return 0, ErrProcNotFound
	}
	var addr uintptr
	r1, _, _ := purego.SyscallN(l.ldrGetProcedureAddress,
		module,
		uintptr(unsafe.Pointer(ansi)),
		uintptr(ordinal),
		uintptr(unsafe.Pointer(&addr)),
	)
	runtime.KeepAlive(ansi)
	if status := windows.NTStatus(uint32(r1)); status != windows.STATUS_SUCCESS {
		return 0, status
	}
	return addr, nil
}

func invoke(fn uintptr, args []uintptr) (uintptr, error) {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1, nil
}

var defaultLoaderFactory LoaderFactory = newNtLoader
