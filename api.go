// Package ntresolve resolves Windows libraries and their exports through the
// NT loader primitives found in the already-mapped ntdll.dll instead of
// LoadLibrary and GetProcAddress.
package ntresolve

import (
	"unsafe"

	"github.com/carved4/go-ntresolve/pkg/errors"
	"github.com/carved4/go-ntresolve/pkg/obf"
	"github.com/carved4/go-ntresolve/pkg/pe"
	"github.com/carved4/go-ntresolve/pkg/peb"
	"github.com/carved4/go-ntresolve/pkg/resolver"
	"github.com/carved4/go-ntresolve/pkg/strutil"
)

type (
	ModuleInfo = resolver.ModuleInfo
	Resolver   = resolver.Resolver
	Option     = resolver.Option
	Status     = errors.Status
)

var (
	NewModuleInfo = resolver.NewModuleInfo
	WithLogger    = resolver.WithLogger
	StatusOf      = errors.StatusOf

	FindLoadedModule = peb.FindLoadedModule
	FindModuleByHash = peb.FindModuleByHash
	FindExport       = pe.FindExport
	GetHash          = obf.Hash
)

// Init bootstraps a Resolver for modules. See resolver.Init.
func Init(modules []ModuleInfo, opts ...Option) (*Resolver, error) {
	return resolver.Init(modules, opts...)
}

// InitNames is Init over freshly validated names.
func InitNames(names ...string) (*Resolver, []ModuleInfo, error) {
	mods := make([]ModuleInfo, len(names))
	for i, n := range names {
		mods[i] = NewModuleInfo(n)
	}
	r, err := Init(mods)
	return r, mods, err
}

// GetFunctionAddress parses the export table at base for name, zero when
// absent.
func GetFunctionAddress(base uintptr, name string) uintptr {
	return pe.Lookup(base, name)
}

// ReadUTF16String reads a NUL-terminated UTF-16 string returned by an API
// such as GetCommandLineW.
func ReadUTF16String(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	return strutil.UTF16PtrToString((*uint16)(unsafe.Pointer(ptr)))
}

// ReadANSIString reads a NUL-terminated narrow string.
func ReadANSIString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	return strutil.BytePtrToString((*byte)(unsafe.Pointer(ptr)))
}
