// Package pe reads the export directory of an image that is already mapped
// into the current process. It validates the DOS and NT signatures and walks
// the three parallel export arrays; nothing else in the image is touched.
package pe

import (
	"errors"
	"unsafe"

	"github.com/carved4/go-ntresolve/pkg/obf"
	"github.com/carved4/go-ntresolve/pkg/strutil"
)

var (
	ErrNilBase               = errors.New("pe: nil module base")
	ErrBadDOSSignature       = errors.New("pe: bad DOS signature")
	ErrBadNTSignature        = errors.New("pe: bad NT signature")
	ErrUnknownOptionalHeader = errors.New("pe: unknown optional header magic")
	ErrNotDLL                = errors.New("pe: image is not a DLL")
	ErrNoExportDirectory     = errors.New("pe: no export directory")
	ErrNoFunctions           = errors.New("pe: export directory declares no functions")
	ErrMalformedExports      = errors.New("pe: malformed export arrays")
	ErrOrdinalOutOfRange     = errors.New("pe: ordinal outside function table")
	ErrExportNotFound        = errors.New("pe: export not found")
)

// exportView is the transient view of one module's export directory. It
// is rebuilt on every lookup and never outlives the call.
type exportView struct {
	base      uintptr
	dirRVA    uint32
	dirSize   uint32
	dir       *imageExportDirectory
	names     []uint32
	ordinals  []uint16
	functions []uint32
}

func openExports(base uintptr) (exportView, error) {
	nt, err := ntHeaders(base)
	if err != nil {
		return exportView{}, err
	}
	if fileHeader(base, nt).Characteristics&imageFileDLL == 0 {
		return exportView{}, ErrNotDLL
	}
	dd, err := dataDirectory(base, nt, imageDirectoryEntryExport)
	if err != nil {
		return exportView{}, err
	}
	if dd.VirtualAddress == 0 || dd.Size == 0 {
		return exportView{}, ErrNoExportDirectory
	}

	dir := (*imageExportDirectory)(at(base, dd.VirtualAddress))
	if dir.NumberOfFunctions == 0 {
		return exportView{}, ErrNoFunctions
	}
	if dir.AddressOfFunctions == 0 ||
		(dir.NumberOfNames != 0 && (dir.AddressOfNames == 0 || dir.AddressOfNameOrdinals == 0)) {
		return exportView{}, ErrMalformedExports
	}

	v := exportView{
		base:      base,
		dirRVA:    dd.VirtualAddress,
		dirSize:   dd.Size,
		dir:       dir,
		functions: unsafe.Slice((*uint32)(at(base, dir.AddressOfFunctions)), dir.NumberOfFunctions),
	}
	if dir.NumberOfNames != 0 {
		v.names = unsafe.Slice((*uint32)(at(base, dir.AddressOfNames)), dir.NumberOfNames)
		v.ordinals = unsafe.Slice((*uint16)(at(base, dir.AddressOfNameOrdinals)), dir.NumberOfNames)
	}
	return v, nil
}

func (v *exportView) name(i int) *byte {
	return (*byte)(at(v.base, v.names[i]))
}

func (v *exportView) address(i int) (uintptr, error) {
	idx := int(v.ordinals[i])
	if idx >= len(v.functions) {
		return 0, ErrOrdinalOutOfRange
	}
	return v.base + uintptr(v.functions[idx]), nil
}

func (v *exportView) isForwarder(rva uint32) bool {
	return rva >= v.dirRVA && rva < v.dirRVA+v.dirSize
}

// FindExport returns the address of the export called name in the image
// mapped at base. The match is exact and case sensitive. Forwarded exports
// resolve to the forwarder string, as the raw table records it; use
// IsForwarder to tell the two apart.
func FindExport(base uintptr, name string) (uintptr, error) {
	v, err := openExports(base)
	if err != nil {
		return 0, err
	}
	for i := range v.names {
		if strutil.EqualNarrow(v.name(i), name) {
			return v.address(i)
		}
	}
	return 0, ErrExportNotFound
}

// FindExportByHash is FindExport keyed by obf.Hash of the export name.
func FindExportByHash(base uintptr, hash uint32) (uintptr, error) {
	v, err := openExports(base)
	if err != nil {
		return 0, err
	}
	for i := range v.names {
		if obf.HashCString(v.name(i)) == hash {
			return v.address(i)
		}
	}
	return 0, ErrExportNotFound
}

// FindExportByOrdinal resolves a biased ordinal (as shown by dumpbin) to
// its address.
func FindExportByOrdinal(base uintptr, ordinal uint32) (uintptr, error) {
	v, err := openExports(base)
	if err != nil {
		return 0, err
	}
	if ordinal < v.dir.Base {
		return 0, ErrOrdinalOutOfRange
	}
	idx := ordinal - v.dir.Base
	if idx >= uint32(len(v.functions)) {
		return 0, ErrOrdinalOutOfRange
	}
	rva := v.functions[idx]
	if rva == 0 {
		return 0, ErrExportNotFound
	}
	return base + uintptr(rva), nil
}

// Lookup is FindExport with every failure folded into a zero address.
func Lookup(base uintptr, name string) uintptr {
	addr, err := FindExport(base, name)
	if err != nil {
		return 0
	}
	return addr
}

// IsForwarder reports whether addr, as returned by FindExport for the
// image at base, lands inside the export directory and therefore names a
// forwarder ("NTDLL.RtlAllocateHeap") instead of code.
func IsForwarder(base, addr uintptr) bool {
	v, err := openExports(base)
	if err != nil || addr < base {
		return false
	}
	off := addr - base
	if off > 0xFFFFFFFF {
		return false
	}
	return v.isForwarder(uint32(off))
}
