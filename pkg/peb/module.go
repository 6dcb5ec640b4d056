// Package peb enumerates the modules mapped into the current process by
// walking the loader list hanging off the Process Environment Block. No
// loader API is called; the walk reads the structures directly.
package peb

import "errors"

var (
	ErrUnsupported    = errors.New("peb: unsupported platform")
	ErrNoPEB          = errors.New("peb: process environment block unavailable")
	ErrNoLoaderData   = errors.New("peb: loader data not initialised")
	ErrModuleNotFound = errors.New("peb: module not found in load order list")
)

// Module is a snapshot of one loader list entry.
type Module struct {
	Name     string
	FullName string
	Base     uintptr
	Size     uint32
}
