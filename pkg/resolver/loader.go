package resolver

import "errors"

var (
	ErrUnsupported       = errors.New("resolver: native loader unavailable on this platform")
	ErrMissingPrimitive  = errors.New("resolver: loader primitive address is nil")
	ErrNameTooLong       = errors.New("resolver: name too long for a counted string")
	ErrModuleUnavailable = errors.New("resolver: module could not be loaded")
	ErrProcNotFound      = errors.New("resolver: procedure not found")
	ErrTooManyArgs       = errors.New("resolver: too many arguments")
	ErrUnsupportedArg    = errors.New("resolver: unsupported argument type")
)

// Loader is the pair of native primitives everything after bootstrap is
// built on. Errors from a native call carry its NTSTATUS.
type Loader interface {
	// LoadLibrary maps (or references) name and returns its handle.
	LoadLibrary(name string) (uintptr, error)
	// GetProcAddress resolves name in module. With an empty name the
	// export ordinal is used instead.
	GetProcAddress(module uintptr, name string, ordinal uint32) (uintptr, error)
}

// ModuleLocator finds an already-mapped module by exact base name.
type ModuleLocator func(name string) (uintptr, error)

// LoaderFactory builds a Loader from the addresses of LdrLoadDll and
// LdrGetProcedureAddress.
type LoaderFactory func(ldrLoadDll, ldrGetProcedureAddress uintptr) (Loader, error)
