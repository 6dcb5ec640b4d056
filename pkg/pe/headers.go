package pe

import "unsafe"

// Just enough of the PE/COFF layout to reach the export directory.
const (
	imageDOSSignature = 0x5A4D     // MZ
	imageNTSignature  = 0x00004550 // PE\0\0

	imageFileDLL = 0x2000

	optionalHeaderMagic32 = 0x10b
	optionalHeaderMagic64 = 0x20b

	dosLfanewOffset = 0x3C
	maxLfanew       = 0x1000

	ntFileHeaderOffset     = 4
	ntOptionalHeaderOffset = 24

	// NumberOfRvaAndSizes / DataDirectory offsets inside the optional header.
	rvaCountOffset32 = 92
	rvaCountOffset64 = 108
	dataDirOffset32  = 96
	dataDirOffset64  = 112

	sizeOfImageOffset = 56

	imageDirectoryEntryExport = 0
)

type imageFileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

type imageDataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

type imageExportDirectory struct {
	Characteristics       uint32
	TimeDateStamp         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	Name                  uint32
	Base                  uint32
	NumberOfFunctions     uint32
	NumberOfNames         uint32
	AddressOfFunctions    uint32
	AddressOfNames        uint32
	AddressOfNameOrdinals uint32
}

func at(base uintptr, off uint32) unsafe.Pointer {
	return unsafe.Pointer(base + uintptr(off))
}

func u16(base uintptr, off uint32) uint16 {
	return *(*uint16)(at(base, off))
}

func u32(base uintptr, off uint32) uint32 {
	return *(*uint32)(at(base, off))
}

// ntHeaders validates both signatures and returns the NT header offset.
func ntHeaders(base uintptr) (uint32, error) {
	if base == 0 {
		return 0, ErrNilBase
	}
	if u16(base, 0) != imageDOSSignature {
		return 0, ErrBadDOSSignature
	}
	lfanew := int32(u32(base, dosLfanewOffset))
	if lfanew <= 0 || lfanew > maxLfanew {
		return 0, ErrBadNTSignature
	}
	nt := uint32(lfanew)
	if u32(base, nt) != imageNTSignature {
		return 0, ErrBadNTSignature
	}
	return nt, nil
}

func fileHeader(base uintptr, nt uint32) *imageFileHeader {
	return (*imageFileHeader)(at(base, nt+ntFileHeaderOffset))
}

// dataDirectory returns slot idx of the optional header's data directory
// for either PE32 or PE32+ images.
func dataDirectory(base uintptr, nt uint32, idx uint32) (imageDataDirectory, error) {
	opt := nt + ntOptionalHeaderOffset
	var countOff, dirOff uint32
	switch u16(base, opt) {
	case optionalHeaderMagic32:
		countOff, dirOff = rvaCountOffset32, dataDirOffset32
	case optionalHeaderMagic64:
		countOff, dirOff = rvaCountOffset64, dataDirOffset64
	default:
		return imageDataDirectory{}, ErrUnknownOptionalHeader
	}
	if u32(base, opt+countOff) <= idx {
		return imageDataDirectory{}, ErrNoExportDirectory
	}
	return *(*imageDataDirectory)(at(base, opt+dirOff+idx*8)), nil
}

// SizeOfImage reads the optional header's SizeOfImage field.
func SizeOfImage(base uintptr) (uint32, error) {
	nt, err := ntHeaders(base)
	if err != nil {
		return 0, err
	}
	return u32(base, nt+ntOptionalHeaderOffset+sizeOfImageOffset), nil
}
