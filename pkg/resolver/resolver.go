// Package resolver bootstraps LdrLoadDll and LdrGetProcedureAddress out of
// the already-mapped ntdll.dll and serves every later library load and
// symbol lookup through them, bypassing LoadLibrary and GetProcAddress.
//
// A Resolver is produced only by a successful Init. It is not safe to call
// Init concurrently with itself, but a returned Resolver may be shared
// across goroutines: none of its methods mutate it.
package resolver

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/carved4/go-ntresolve/pkg/errors"
	"github.com/carved4/go-ntresolve/pkg/pe"
	"github.com/carved4/go-ntresolve/pkg/peb"
)

const (
	NtdllName                  = "ntdll.dll"
	LdrLoadDllName             = "LdrLoadDll"
	LdrGetProcedureAddressName = "LdrGetProcedureAddress"
)

type options struct {
	log       *zap.Logger
	locate    ModuleLocator
	newLoader LoaderFactory
}

type Option func(*options)

// WithLogger sets the logger used for bootstrap and load events.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithModuleLocator replaces the PEB walk used to find ntdll.dll.
func WithModuleLocator(locate ModuleLocator) Option {
	return func(o *options) {
		if locate != nil {
			o.locate = locate
		}
	}
}

// WithLoaderFactory replaces the native loader built from the two
// resolved primitive addresses.
func WithLoaderFactory(f LoaderFactory) Option {
	return func(o *options) {
		if f != nil {
			o.newLoader = f
		}
	}
}

type Resolver struct {
	ntdll   uintptr
	loader  Loader
	modules []ModuleInfo
	log     *zap.Logger
}

// Init locates ntdll.dll, resolves its two loader primitives from the
// export table and loads every entry of modules in order. Each step is a
// gate; the first failure is returned as an *errors.ResolverError and no
// Resolver is produced. Handles written for entries before a failing one
// stay in the caller's slice.
func Init(modules []ModuleInfo, opts ...Option) (*Resolver, error) {
	o := options{
		log:       zap.NewNop(),
		locate:    peb.FindLoadedModule,
		newLoader: defaultLoaderFactory,
	}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.Named("resolver")

	if len(modules) == 0 {
		return nil, errors.New(errors.InvalidParam)
	}

	ntdll, err := o.locate(NtdllName)
	if err == nil && ntdll == 0 {
		err = peb.ErrModuleNotFound
	}
	if err != nil {
		log.Debug("ntdll lookup failed", zap.Error(err))
		return nil, errors.Wrap(errors.NtdllHandle, err)
	}
	log.Debug("ntdll located", zap.Uintptr("base", ntdll))

	ldrLoadDll, err := pe.FindExport(ntdll, LdrLoadDllName)
	if err != nil {
		log.Debug("export lookup failed", zap.String("export", LdrLoadDllName), zap.Error(err))
		return nil, errors.Wrap(errors.FindLdrLoadDll, err)
	}
	ldrGetProcedureAddress, err := pe.FindExport(ntdll, LdrGetProcedureAddressName)
	if err != nil {
		log.Debug("export lookup failed", zap.String("export", LdrGetProcedureAddressName), zap.Error(err))
		return nil, errors.Wrap(errors.FindLdrGetProcedureAddress, err)
	}
	log.Debug("loader primitives resolved",
		zap.Uintptr(LdrLoadDllName, ldrLoadDll),
		zap.Uintptr(LdrGetProcedureAddressName, ldrGetProcedureAddress))

	loader, err := o.newLoader(ldrLoadDll, ldrGetProcedureAddress)
	if err != nil {
		return nil, errors.Wrap(errors.FindLdrLoadDll, err)
	}

	r := &Resolver{ntdll: ntdll, loader: loader, log: log}
	if err := r.loadModules(modules); err != nil {
		return nil, err
	}
	r.modules = modules
	log.Debug("resolver ready", zap.Int("modules", len(modules)))
	return r, nil
}

// loadModules is fail fast: the first flagged name or failed load ends
// the pass, and nothing loaded before it is released.
func (r *Resolver) loadModules(modules []ModuleInfo) error {
	for i := range modules {
		m := &modules[i]
		if m.InvalidName {
			r.log.Debug("module rejected", zap.Int("index", i), zap.String("module", m.Name))
			return errors.ForModule(errors.InvalidLibName, m.Name, nil)
		}
		h, err := r.loader.LoadLibrary(m.Name)
		m.Handle = h
		if h == 0 {
			if err == nil {
				err = ErrModuleUnavailable
			}
			r.log.Debug("module load failed", zap.String("module", m.Name), zap.Error(err))
			return errors.ForModule(errors.LoadLib, m.Name, err)
		}
		r.log.Debug("module loaded", zap.String("module", m.Name), zap.Uintptr("handle", h))
	}
	return nil
}

// Ntdll returns the base of the ntdll.dll mapping found during Init.
func (r *Resolver) Ntdll() uintptr {
	if r == nil {
		return 0
	}
	return r.ntdll
}

// Modules returns the caller's module slice as committed by Init.
func (r *Resolver) Modules() []ModuleInfo {
	if r == nil {
		return nil
	}
	return r.modules
}

// LoadLibrary loads name through LdrLoadDll. Zero means the loader
// refused it.
func (r *Resolver) LoadLibrary(name string) uintptr {
	h, err := r.loader.LoadLibrary(name)
	if err != nil {
		r.log.Debug("LdrLoadDll failed", zap.String("module", name), zap.Error(err))
		return 0
	}
	return h
}

// GetHandleModuleByName returns the handle recorded for name in the
// module set passed to Init, or zero. It never consults the OS loader.
func (r *Resolver) GetHandleModuleByName(name string) uintptr {
	if r == nil {
		return 0
	}
	for i := range r.modules {
		if r.modules[i].Name == name {
			return r.modules[i].Handle
		}
	}
	return 0
}

// GetFuncAddrFromNtdll parses ntdll's export table for name.
func (r *Resolver) GetFuncAddrFromNtdll(name string) uintptr {
	return pe.Lookup(r.Ntdll(), name)
}

// GetProcAddress resolves name in module through LdrGetProcedureAddress.
func (r *Resolver) GetProcAddress(module uintptr, name string) uintptr {
	if name == "" {
		return 0
	}
	addr, err := r.loader.GetProcAddress(module, name, 0)
	if err != nil {
		r.log.Debug("LdrGetProcedureAddress failed",
			zap.Uintptr("module", module), zap.String("proc", name), zap.Error(err))
		return 0
	}
	return addr
}

// GetProcAddressByOrdinal resolves an export ordinal in module.
func (r *Resolver) GetProcAddressByOrdinal(module uintptr, ordinal uint32) uintptr {
	if ordinal == 0 {
		return 0
	}
	addr, err := r.loader.GetProcAddress(module, "", ordinal)
	if err != nil {
		r.log.Debug("LdrGetProcedureAddress failed",
			zap.Uintptr("module", module), zap.Uint32("ordinal", ordinal), zap.Error(err))
		return 0
	}
	return addr
}

// Call resolves function in module and invokes it with args. module is
// looked up in the Init set first and loaded on a miss.
func (r *Resolver) Call(module, function string, args ...interface{}) (uintptr, error) {
	h := r.GetHandleModuleByName(module)
	if h == 0 {
		h = r.LoadLibrary(module)
	}
	if h == 0 {
		return 0, fmt.Errorf("%w: %s", ErrModuleUnavailable, module)
	}
	addr := r.GetProcAddress(h, function)
	if addr == 0 {
		return 0, fmt.Errorf("%w: %s!%s", ErrProcNotFound, module, function)
	}
	argv, err := processArgs(args)
	if err != nil {
		return 0, err
	}
	ret, err := invoke(addr, argv)
	runtime.KeepAlive(args)
	return ret, err
}
