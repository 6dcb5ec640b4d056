//go:build windows && (amd64 || 386)

package peb

import (
	"errors"
	"strings"
	"testing"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/carved4/go-ntresolve/pkg/obf"
)

// enumModules is the psapi view of the same list.
func enumModules(t *testing.T) map[string]uintptr {
	t.Helper()
	proc := windows.CurrentProcess()
	handles := make([]windows.Handle, 1024)
	var needed uint32
	size := uint32(len(handles)) * uint32(unsafe.Sizeof(handles[0]))
	if err := windows.EnumProcessModules(proc, &handles[0], size, &needed); err != nil {
		t.Fatalf("EnumProcessModules: %v", err)
	}
	n := int(needed / uint32(unsafe.Sizeof(handles[0])))
	if n > len(handles) {
		n = len(handles)
	}
	out := make(map[string]uintptr, n)
	var buf [windows.MAX_PATH]uint16
	for _, h := range handles[:n] {
		if err := windows.GetModuleBaseName(proc, h, &buf[0], uint32(len(buf))); err != nil {
			continue
		}
		out[strings.ToLower(windows.UTF16ToString(buf[:]))] = uintptr(h)
	}
	return out
}

func TestCurrentIsNonZero(t *testing.T) {
	if Current() == 0 {
		t.Fatalf("PEB pointer is nil")
	}
}

func TestFindLoadedModuleNtdll(t *testing.T) {
	base, err := FindLoadedModule("ntdll.dll")
	if err != nil {
		t.Fatalf("FindLoadedModule: %v", err)
	}
	want, ok := enumModules(t)["ntdll.dll"]
	if !ok {
		t.Fatalf("psapi did not report ntdll.dll")
	}
	if base != want {
		t.Fatalf("PEB walk base %#x, psapi base %#x", base, want)
	}
}

func TestFindLoadedModuleAbsent(t *testing.T) {
	base, err := FindLoadedModule("definitely-not-loaded-3f9a.dll")
	if !errors.Is(err, ErrModuleNotFound) || base != 0 {
		t.Fatalf("got %#x, %v; want ErrModuleNotFound", base, err)
	}
	// base names are recorded lowercase for system DLLs; the compare is exact
	if _, err := FindLoadedModule("NTDLL.DLL"); !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}
}

func TestFindModuleByHashIgnoresCase(t *testing.T) {
	want, err := FindLoadedModule("ntdll.dll")
	if err != nil {
		t.Fatal(err)
	}
	got, err := FindModuleByHash(obf.Hash("NTDLL.DLL"))
	if err != nil || got != want {
		t.Fatalf("FindModuleByHash = %#x, %v; want %#x", got, err, want)
	}
}

func TestModulesMatchesPsapi(t *testing.T) {
	mods, err := Modules()
	if err != nil {
		t.Fatal(err)
	}
	if len(mods) < 2 {
		t.Fatalf("expected at least the image and ntdll, got %d", len(mods))
	}
	psapi := enumModules(t)
	for _, m := range mods {
		want, ok := psapi[strings.ToLower(m.Name)]
		if !ok {
			continue
		}
		if m.Base != want {
			t.Fatalf("%s: walk base %#x, psapi base %#x", m.Name, m.Base, want)
		}
		if m.Size == 0 || m.FullName == "" {
			t.Fatalf("%s: incomplete entry %+v", m.Name, m)
		}
	}
}

func TestWalkStopsEarly(t *testing.T) {
	visited := 0
	if err := Walk(func(Module) bool {
		visited++
		return false
	}); err != nil {
		t.Fatal(err)
	}
	if visited != 1 {
		t.Fatalf("visited %d entries, want 1", visited)
	}
}
