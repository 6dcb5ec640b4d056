// Package petest builds minimal in-memory DLL images for exercising the
// export parser without a live Windows loader.
package petest

import (
	"encoding/binary"
	"unsafe"
)

// Export is one named export. A zero RVA gets a synthetic code address;
// a non-empty Forwarder stores the string inside the export directory.
type Export struct {
	Name      string
	RVA       uint32
	Forwarder string
}

type Spec struct {
	DLLName          string
	Exports          []Export
	OrdinalOnly      []uint32
	// TrailingOrdinals are ordinal-only slots placed after the named ones.
	TrailingOrdinals []uint32
	OrdinalBase      uint32
	PE32             bool

	NotDLL          bool
	CorruptDOS      bool
	CorruptNT       bool
	NoExportDir     bool
	ZeroExportSize  bool
	ZeroFunctions   bool
	BadOrdinalIndex bool
}

// Image is a built image. Bytes must stay referenced while Base is in use.
type Image struct {
	Bytes []byte
	rvas  map[string]uint32
}

func (im *Image) Base() uintptr {
	return uintptr(unsafe.Pointer(&im.Bytes[0]))
}

// RVA returns the function RVA recorded for name.
func (im *Image) RVA(name string) uint32 {
	return im.rvas[name]
}

const (
	lfanew     = 0x80
	exportDir  = 0x200
	dirSize    = 40
	codeAlign  = 0x1000
	codeStride = 0x10
)

func align(v, a int) int {
	return (v + a - 1) &^ (a - 1)
}

// Build lays out DOS header, NT headers, one export directory with its
// arrays and strings, and a fake code region. Named exports are stored in
// the function table in reverse order so ordinal indirection is exercised.
func Build(s Spec) *Image {
	le := binary.LittleEndian
	nNamed := len(s.Exports)
	nFuncs := len(s.OrdinalOnly) + nNamed + len(s.TrailingOrdinals)

	funcsOff := exportDir + dirSize
	namesOff := align(funcsOff+4*nFuncs, 4)
	ordsOff := namesOff + 4*nNamed
	strOff := align(ordsOff+2*nNamed, 4)

	strSize := len(s.DLLName) + 1
	for _, e := range s.Exports {
		strSize += len(e.Name) + 1 + len(e.Forwarder) + 1
	}
	dirEnd := strOff + strSize
	codeOff := align(dirEnd, codeAlign)
	size := align(codeOff+codeStride*(nFuncs+1), codeAlign)

	buf := make([]byte, size)
	im := &Image{Bytes: buf, rvas: make(map[string]uint32, nNamed)}

	// DOS header
	if !s.CorruptDOS {
		copy(buf, "MZ")
	}
	le.PutUint32(buf[0x3C:], lfanew)

	// NT headers
	if !s.CorruptNT {
		copy(buf[lfanew:], "PE\x00\x00")
	}
	fh := lfanew + 4
	chars := uint16(0x0022)
	if !s.NotDLL {
		chars |= 0x2000
	}
	opt := fh + 20
	var rvaCount, dataDir int
	if s.PE32 {
		le.PutUint16(buf[fh:], 0x014c)
		le.PutUint16(buf[fh+16:], 0xE0)
		le.PutUint16(buf[opt:], 0x10b)
		rvaCount, dataDir = opt+92, opt+96
	} else {
		le.PutUint16(buf[fh:], 0x8664)
		le.PutUint16(buf[fh+16:], 0xF0)
		le.PutUint16(buf[opt:], 0x20b)
		rvaCount, dataDir = opt+108, opt+112
	}
	le.PutUint16(buf[fh+2:], 1)
	le.PutUint16(buf[fh+18:], chars)
	le.PutUint32(buf[opt+56:], uint32(size))
	le.PutUint32(buf[opt+60:], exportDir)
	le.PutUint32(buf[rvaCount:], 16)
	if !s.NoExportDir {
		le.PutUint32(buf[dataDir:], exportDir)
		if !s.ZeroExportSize {
			le.PutUint32(buf[dataDir+4:], uint32(dirEnd-exportDir))
		}
	}

	// one section spanning everything past the headers; raw == virtual
	sec := opt + int(le.Uint16(buf[fh+16:]))
	copy(buf[sec:], ".rdata")
	le.PutUint32(buf[sec+8:], uint32(size-exportDir))
	le.PutUint32(buf[sec+12:], exportDir)
	le.PutUint32(buf[sec+16:], uint32(size-exportDir))
	le.PutUint32(buf[sec+20:], exportDir)
	le.PutUint32(buf[sec+36:], 0x40000040)

	// strings
	cursor := strOff
	putString := func(str string) uint32 {
		at := cursor
		copy(buf[at:], str)
		cursor += len(str) + 1
		return uint32(at)
	}
	var nameRVA uint32
	if s.DLLName != "" {
		nameRVA = putString(s.DLLName)
	}

	// export directory
	base := s.OrdinalBase
	if base == 0 {
		base = 1
	}
	d := buf[exportDir:]
	le.PutUint32(d[12:], nameRVA)
	le.PutUint32(d[16:], base)
	if !s.ZeroFunctions {
		le.PutUint32(d[20:], uint32(nFuncs))
	}
	le.PutUint32(d[24:], uint32(nNamed))
	le.PutUint32(d[28:], uint32(funcsOff))
	le.PutUint32(d[32:], uint32(namesOff))
	le.PutUint32(d[36:], uint32(ordsOff))

	for i, rva := range s.OrdinalOnly {
		le.PutUint32(buf[funcsOff+4*i:], rva)
	}
	for i, e := range s.Exports {
		idx := len(s.OrdinalOnly) + (nNamed - 1 - i)
		rva := e.RVA
		if e.Forwarder != "" {
			rva = putString(e.Forwarder)
		} else if rva == 0 {
			rva = uint32(codeOff + codeStride*idx)
		}
		im.rvas[e.Name] = rva
		le.PutUint32(buf[funcsOff+4*idx:], rva)
		le.PutUint32(buf[namesOff+4*i:], putString(e.Name))
		ord := uint16(idx)
		if s.BadOrdinalIndex {
			ord = uint16(nFuncs + i)
		}
		le.PutUint16(buf[ordsOff+2*i:], ord)
	}
	for i, rva := range s.TrailingOrdinals {
		le.PutUint32(buf[funcsOff+4*(len(s.OrdinalOnly)+nNamed+i):], rva)
	}
	return im
}
