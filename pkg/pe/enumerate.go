package pe

import "github.com/carved4/go-ntresolve/pkg/strutil"

// Export represents a single exported symbol from a mapped image
type Export struct {
	Name      string
	Ordinal   uint32
	RVA       uint32
	Address   uintptr
	Forwarder string
}

// Exports enumerates every export of the image at base in function-table
// order, including ordinal-only entries (Name == "").
func Exports(base uintptr) ([]Export, error) {
	v, err := openExports(base)
	if err != nil {
		return nil, err
	}

	nameByIndex := make(map[int]string, len(v.names))
	for i := range v.names {
		nameByIndex[int(v.ordinals[i])] = strutil.BytePtrToString(v.name(i))
	}

	exports := make([]Export, 0, len(v.functions))
	for i, rva := range v.functions {
		if rva == 0 {
			continue
		}
		e := Export{
			Name:    nameByIndex[i],
			Ordinal: v.dir.Base + uint32(i),
			RVA:     rva,
			Address: base + uintptr(rva),
		}
		if v.isForwarder(rva) {
			e.Forwarder = strutil.BytePtrToString((*byte)(at(base, rva)))
		}
		exports = append(exports, e)
	}
	return exports, nil
}

// ModuleName returns the DLL name recorded in the export directory.
func ModuleName(base uintptr) (string, error) {
	v, err := openExports(base)
	if err != nil {
		return "", err
	}
	if v.dir.Name == 0 {
		return "", nil
	}
	return strutil.BytePtrToString((*byte)(at(base, v.dir.Name))), nil
}
