package obf

import "unsafe"

const (
	offsetBasis uint32 = 0x811C9DC5
	prime       uint32 = 16777619
)

func fold(h uint32, c uint32) uint32 {
	if c == 0 {
		return h
	}
	if c >= 'a' && c <= 'z' {
		c -= 0x20
	}
	return (h ^ c) * prime
}

// Hash is FNV-1a over the ASCII-uppercased bytes of s. Module and export
// names hash the same regardless of case, so "ntdll.dll" and "NTDLL.DLL"
// collide on purpose.
func Hash(s string) uint32 {
	h := offsetBasis
	for i := 0; i < len(s); i++ {
		h = fold(h, uint32(s[i]))
	}
	return h
}

// HashCString hashes a NUL-terminated export name in place.
func HashCString(ptr *byte) uint32 {
	h := offsetBasis
	if ptr == nil {
		return h
	}
	p := unsafe.Pointer(ptr)
	for i := 0; ; i++ {
		c := *(*byte)(unsafe.Add(p, i))
		if c == 0 {
			return h
		}
		h = fold(h, uint32(c))
	}
}

// HashWide hashes a length-prefixed UTF-16 module name in place. Only the
// low byte of each unit participates, matching Hash for ASCII names.
func HashWide(buf *uint16, units int) uint32 {
	h := offsetBasis
	if buf == nil {
		return h
	}
	p := unsafe.Pointer(buf)
	for i := 0; i < units; i++ {
		h = fold(h, uint32(*(*uint16)(unsafe.Add(p, i*2))&0xFF))
	}
	return h
}
