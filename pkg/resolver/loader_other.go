//go:build !windows

package resolver

func invoke(fn uintptr, args []uintptr) (uintptr, error) {
	return 0, ErrUnsupported
}

var defaultLoaderFactory LoaderFactory = func(uintptr, uintptr) (Loader, error) {
	return nil, ErrUnsupported
}
