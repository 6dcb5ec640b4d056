package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/carved4/go-ntresolve/pkg/config"
	"github.com/carved4/go-ntresolve/pkg/pe"
	"github.com/carved4/go-ntresolve/pkg/resolver"
)

type result struct {
	Target  config.Target
	Handle  uintptr
	Address uintptr
	Err     error
}

// parseTarget turns interactive input into a target. A positive number is
// taken as an ordinal, anything else as an export name.
func parseTarget(module, function string) (config.Target, error) {
	module = strings.TrimSpace(module)
	function = strings.TrimSpace(function)
	if module == "" {
		return config.Target{}, fmt.Errorf("module name is required")
	}
	if function == "" {
		return config.Target{}, fmt.Errorf("function name or ordinal is required")
	}
	if n, err := strconv.ParseUint(strings.TrimPrefix(function, "#"), 10, 32); err == nil && n > 0 {
		return config.Target{Module: module, Ordinal: uint32(n)}, nil
	}
	return config.Target{Module: module, Function: function}, nil
}

func moduleHandle(r *resolver.Resolver, module string) uintptr {
	if h := r.GetHandleModuleByName(module); h != 0 {
		return h
	}
	return r.LoadLibrary(module)
}

func resolveTarget(r *resolver.Resolver, t config.Target) result {
	res := result{Target: t}
	res.Handle = moduleHandle(r, t.Module)
	if res.Handle == 0 {
		res.Err = resolver.ErrModuleUnavailable
		return res
	}
	if t.Function != "" {
		res.Address = r.GetProcAddress(res.Handle, t.Function)
	} else {
		res.Address = r.GetProcAddressByOrdinal(res.Handle, t.Ordinal)
	}
	if res.Address == 0 {
		res.Err = resolver.ErrProcNotFound
	}
	return res
}

type exportRow struct {
	Ordinal   uint32
	Name      string
	Address   uintptr
	Forwarder bool
}

func listExports(r *resolver.Resolver, module string) ([]exportRow, error) {
	base := moduleHandle(r, module)
	if base == 0 {
		return nil, fmt.Errorf("%w: %s", resolver.ErrModuleUnavailable, module)
	}
	f, err := pe.OpenImage(base)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	exports, err := f.Exports()
	if err != nil {
		return nil, fmt.Errorf("read exports of %s: %w", module, err)
	}
	rows := make([]exportRow, 0, len(exports))
	for _, e := range exports {
		addr := base + uintptr(e.VirtualAddress)
		rows = append(rows, exportRow{
			Ordinal:   e.Ordinal,
			Name:      e.Name,
			Address:   addr,
			Forwarder: pe.IsForwarder(base, addr),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ordinal < rows[j].Ordinal })
	return rows, nil
}
