package resolver

import (
	"unicode/utf16"
	"unicode/utf8"
)

// maxNameUnits is the longest name a UNICODE_STRING can describe: its
// byte Length is a uint16.
const maxNameUnits = 0xFFFE / 2

// ModuleInfo is one caller-owned load request. Init writes Handle back
// into the caller's slice and keeps the slice, not a copy.
type ModuleInfo struct {
	Name        string
	InvalidName bool
	Handle      uintptr
}

// NewModuleInfo builds a request with InvalidName precomputed.
func NewModuleInfo(name string) ModuleInfo {
	return ModuleInfo{Name: name, InvalidName: !ValidModuleName(name)}
}

// ValidModuleName rejects names the loader cannot be handed: empty ones,
// ones with an embedded NUL or invalid UTF-8, and ones too long for a
// UNICODE_STRING.
func ValidModuleName(name string) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	units := 0
	for _, r := range name {
		if r == 0 {
			return false
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			return false
		}
		units += n
	}
	return units <= maxNameUnits
}
