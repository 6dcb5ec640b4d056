package strutil

import (
	"testing"
	"unicode/utf16"
)

func cstr(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}

func wstr(s string) []uint16 {
	return append(utf16.Encode([]rune(s)), 0)
}

func TestLengths(t *testing.T) {
	if n := NarrowLen(cstr("LdrLoadDll")); n != 10 {
		t.Fatalf("NarrowLen = %d, want 10", n)
	}
	if n := NarrowLen(nil); n != 0 {
		t.Fatalf("NarrowLen(nil) = %d", n)
	}
	w := wstr("ntdll.dll")
	if n := WideLen(&w[0]); n != 9 {
		t.Fatalf("WideLen = %d, want 9", n)
	}
	if n := WideLen(nil); n != 0 {
		t.Fatalf("WideLen(nil) = %d", n)
	}
}

func TestEqualNarrow(t *testing.T) {
	cases := []struct {
		mem, s string
		want   bool
	}{
		{"LdrLoadDll", "LdrLoadDll", true},
		{"LdrLoadDll", "ldrloaddll", false},
		{"LdrLoadDll", "LdrLoad", false},
		{"LdrLoad", "LdrLoadDll", false},
		{"", "", true},
	}
	for _, c := range cases {
		if got := EqualNarrow(cstr(c.mem), c.s); got != c.want {
			t.Fatalf("EqualNarrow(%q, %q) = %v, want %v", c.mem, c.s, got, c.want)
		}
	}
	if EqualNarrow(nil, "") {
		t.Fatalf("nil pointer must never match")
	}
}

func TestEqualWide(t *testing.T) {
	w := wstr("ntdll.dll")
	if !EqualWide(&w[0], 9, "ntdll.dll") {
		t.Fatalf("exact match failed")
	}
	if EqualWide(&w[0], 9, "NTDLL.DLL") {
		t.Fatalf("comparison must be case sensitive")
	}
	if EqualWide(&w[0], 5, "ntdll.dll") {
		t.Fatalf("explicit length must bound the compare")
	}
	if !EqualWide(&w[0], 5, "ntdll") {
		t.Fatalf("prefix with explicit length should match")
	}

	astral := wstr("mod\U0001F600.dll")
	if !EqualWide(&astral[0], len(astral)-1, "mod\U0001F600.dll") {
		t.Fatalf("surrogate pair compare failed")
	}
	if EqualWide(&astral[0], 4, "mod\U0001F600") {
		t.Fatalf("half a surrogate pair must not match")
	}
}

func TestRoundTrip(t *testing.T) {
	u, err := UTF16FromString("kernel32.dll")
	if err != nil {
		t.Fatal(err)
	}
	if got := UTF16ToString(&u[0], len(u)); got != "kernel32.dll" {
		t.Fatalf("got %q", got)
	}
	if _, err := UTF16FromString("a\x00b"); err != ErrEmbeddedNUL {
		t.Fatalf("expected ErrEmbeddedNUL, got %v", err)
	}
	if _, err := BytesFromString("a\x00b"); err != ErrEmbeddedNUL {
		t.Fatalf("expected ErrEmbeddedNUL, got %v", err)
	}
	if got := BytePtrToString(cstr("GetProcAddress")); got != "GetProcAddress" {
		t.Fatalf("got %q", got)
	}
	w := wstr("user32.dll")
	if got := UTF16PtrToString(&w[0]); got != "user32.dll" {
		t.Fatalf("got %q", got)
	}
}

func TestEqualWideBMP(t *testing.T) {
	w := wstr("café�.dll")
	if !EqualWide(&w[0], len(w)-1, "café�.dll") {
		t.Fatalf("non-ASCII BMP compare failed")
	}
	if EqualWide(&w[0], len(w)-1, "cafe�.dll") {
		t.Fatalf("differing BMP unit matched")
	}
}

func TestUTF16FromStringRejectsInvalidUTF8(t *testing.T) {
	if _, err := UTF16FromString("bad\xffname.dll"); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	u, err := UTF16FromString("�.dll")
	if err != nil || u[0] != 0xFFFD {
		t.Fatalf("a literal replacement char is valid: %v %v", u, err)
	}
}
