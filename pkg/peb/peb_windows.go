//go:build windows && (amd64 || 386)

package peb

import (
	"unsafe"

	"github.com/carved4/go-ntresolve/pkg/obf"
	"github.com/carved4/go-ntresolve/pkg/strutil"
)

type listEntry struct {
	Flink *listEntry
	Blink *listEntry
}

type unicodeString struct {
	Length        uint16
	MaximumLength uint16
	Buffer        *uint16
}

// Only the prefix of each structure that the walk reads. uintptr fields
// keep the offsets right for both pointer widths.
type ldrDataTableEntry struct {
	InLoadOrderLinks           listEntry
	InMemoryOrderLinks         listEntry
	InInitializationOrderLinks listEntry
	DllBase                    uintptr
	EntryPoint                 uintptr
	SizeOfImage                uintptr
	FullDllName                unicodeString
	BaseDllName                unicodeString
}

type pebLdrData struct {
	Length                          uint32
	Initialized                     uint32
	SsHandle                        uintptr
	InLoadOrderModuleList           listEntry
	InMemoryOrderModuleList         listEntry
	InInitializationOrderModuleList listEntry
}

type processEnvironmentBlock struct {
	InheritedAddressSpace    byte
	ReadImageFileExecOptions byte
	BeingDebugged            byte
	BitField                 byte
	Mutant                   uintptr
	ImageBaseAddress         uintptr
	Ldr                      *pebLdrData
}

// Current returns the address of this process's PEB, read from the TEB
// through the segment register.
//
//go:nosplit
//go:noinline
func Current() uintptr

// walk visits load-order entries until fn returns false, the list wraps to
// its head, or an entry with a nil DllBase (the sentinel) is reached.
func walk(fn func(*ldrDataTableEntry) bool) error {
	addr := Current()
	if addr == 0 {
		return ErrNoPEB
	}
	peb := (*processEnvironmentBlock)(unsafe.Pointer(addr))
	if peb.Ldr == nil {
		return ErrNoLoaderData
	}
	head := &peb.Ldr.InLoadOrderModuleList
	for link := head.Flink; link != nil && link != head; link = link.Flink {
		entry := (*ldrDataTableEntry)(unsafe.Pointer(link))
		if entry.DllBase == 0 {
			break
		}
		if !fn(entry) {
			break
		}
	}
	return nil
}

func (e *ldrDataTableEntry) module() Module {
	return Module{
		Name:     strutil.UTF16ToString(e.BaseDllName.Buffer, int(e.BaseDllName.Length/2)),
		FullName: strutil.UTF16ToString(e.FullDllName.Buffer, int(e.FullDllName.Length/2)),
		Base:     e.DllBase,
		Size:     uint32(e.SizeOfImage),
	}
}

// Walk calls fn with each loaded module in load order. Returning false
// stops the walk.
func Walk(fn func(Module) bool) error {
	return walk(func(e *ldrDataTableEntry) bool {
		return fn(e.module())
	})
}

// Modules snapshots the load order list.
func Modules() ([]Module, error) {
	var mods []Module
	err := Walk(func(m Module) bool {
		mods = append(mods, m)
		return true
	})
	return mods, err
}

// FindLoadedModule returns the base of the module whose base name equals
// name exactly (case sensitive), e.g. "ntdll.dll".
func FindLoadedModule(name string) (uintptr, error) {
	var base uintptr
	err := walk(func(e *ldrDataTableEntry) bool {
		if strutil.EqualWide(e.BaseDllName.Buffer, int(e.BaseDllName.Length/2), name) {
			base = e.DllBase
			return false
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	if base == 0 {
		return 0, ErrModuleNotFound
	}
	return base, nil
}

// FindModuleByHash matches base names by obf.Hash, ignoring case.
func FindModuleByHash(hash uint32) (uintptr, error) {
	var base uintptr
	err := walk(func(e *ldrDataTableEntry) bool {
		if obf.HashWide(e.BaseDllName.Buffer, int(e.BaseDllName.Length/2)) == hash {
			base = e.DllBase
			return false
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	if base == 0 {
		return 0, ErrModuleNotFound
	}
	return base, nil
}
