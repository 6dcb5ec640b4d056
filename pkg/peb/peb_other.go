//go:build !windows || !(amd64 || 386)

package peb

func Current() uintptr { return 0 }

func Walk(fn func(Module) bool) error { return ErrUnsupported }

func Modules() ([]Module, error) { return nil, ErrUnsupported }

func FindLoadedModule(name string) (uintptr, error) { return 0, ErrUnsupported }

func FindModuleByHash(hash uint32) (uintptr, error) { return 0, ErrUnsupported }
