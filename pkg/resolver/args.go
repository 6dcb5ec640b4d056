package resolver

import (
	"fmt"
	"reflect"
	"unsafe"
)

// maxArgs matches the register/stack slots purego will marshal.
const maxArgs = 15

func processArg(arg interface{}) (uintptr, error) {
	if arg == nil {
		return 0, nil
	}
	switch v := arg.(type) {
	case uintptr:
		return v, nil
	case unsafe.Pointer:
		return uintptr(v), nil
	case int:
		return uintptr(v), nil
	case int8:
		return uintptr(int64(v)), nil
	case int16:
		return uintptr(int64(v)), nil
	case int32:
		return uintptr(int64(v)), nil
	case int64:
		return uintptr(v), nil
	case uint:
		return uintptr(v), nil
	case uint8:
		return uintptr(v), nil
	case uint16:
		return uintptr(v), nil
	case uint32:
		return uintptr(v), nil
	case uint64:
		return uintptr(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}

	val := reflect.ValueOf(arg)
	switch val.Kind() {
	case reflect.Ptr, reflect.UnsafePointer:
		return val.Pointer(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uintptr(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintptr(val.Uint()), nil
	case reflect.Bool:
		if val.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedArg, arg)
}

func processArgs(args []interface{}) ([]uintptr, error) {
	if len(args) > maxArgs {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyArgs, len(args), maxArgs)
	}
	out := make([]uintptr, len(args))
	for i, arg := range args {
		v, err := processArg(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
