// Package strutil compares and measures the NUL-terminated and
// length-prefixed strings found in loader structures and export tables.
// Every comparison is case sensitive and allocation free.
package strutil

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"
)

// MaxStringUnits bounds every scan for a terminator.
const MaxStringUnits = 32768

var (
	ErrEmbeddedNUL = errors.New("strutil: string contains NUL")
	ErrInvalidUTF8 = errors.New("strutil: string is not valid UTF-8")
)

// NarrowLen returns the number of bytes before the terminating NUL.
func NarrowLen(ptr *byte) int {
	if ptr == nil {
		return 0
	}
	p := unsafe.Pointer(ptr)
	n := 0
	for n < MaxStringUnits && *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return n
}

// WideLen returns the number of UTF-16 units before the terminating NUL.
func WideLen(ptr *uint16) int {
	if ptr == nil {
		return 0
	}
	p := unsafe.Pointer(ptr)
	n := 0
	for n < MaxStringUnits && *(*uint16)(unsafe.Add(p, n*2)) != 0 {
		n++
	}
	return n
}

// EqualNarrow reports whether the NUL-terminated byte string at ptr is
// exactly s.
func EqualNarrow(ptr *byte, s string) bool {
	if ptr == nil {
		return false
	}
	p := unsafe.Pointer(ptr)
	for i := 0; i < len(s); i++ {
		c := *(*byte)(unsafe.Add(p, i))
		if c == 0 || c != s[i] {
			return false
		}
	}
	return *(*byte)(unsafe.Add(p, len(s))) == 0
}

// EqualWide reports whether the first units UTF-16 units at buf spell
// exactly s. The buffer does not need a terminator.
func EqualWide(buf *uint16, units int, s string) bool {
	if buf == nil {
		return units == 0 && s == ""
	}
	p := unsafe.Pointer(buf)
	i := 0
	for _, r := range s {
		if utf16.RuneLen(r) == 1 {
			if i >= units || *(*uint16)(unsafe.Add(p, i*2)) != uint16(r) {
				return false
			}
			i++
			continue
		}
		r1, r2 := utf16.EncodeRune(r)
		if i+1 >= units ||
			*(*uint16)(unsafe.Add(p, i*2)) != uint16(r1) ||
			*(*uint16)(unsafe.Add(p, (i+1)*2)) != uint16(r2) {
			return false
		}
		i += 2
	}
	return i == units
}

// UTF16ToString decodes units UTF-16 units starting at buf.
func UTF16ToString(buf *uint16, units int) string {
	if buf == nil || units <= 0 {
		return ""
	}
	return string(utf16.Decode(unsafe.Slice(buf, units)))
}

// UTF16PtrToString decodes a NUL-terminated UTF-16 string.
func UTF16PtrToString(ptr *uint16) string {
	return UTF16ToString(ptr, WideLen(ptr))
}

// BytePtrToString copies a NUL-terminated byte string.
func BytePtrToString(ptr *byte) string {
	n := NarrowLen(ptr)
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice(ptr, n))
}

// UTF16FromString encodes s without a terminator. Strings carrying a NUL
// are rejected since the loader would silently truncate them, and invalid
// UTF-8 is rejected since it cannot be encoded without loss.
func UTF16FromString(s string) ([]uint16, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return nil, ErrEmbeddedNUL
		}
	}
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	return utf16.Encode([]rune(s)), nil
}

// BytesFromString returns s as bytes without a terminator, rejecting NUL.
func BytesFromString(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return nil, ErrEmbeddedNUL
		}
	}
	return []byte(s), nil
}
