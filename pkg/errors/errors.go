package errors

import (
	stderrors "errors"
	"fmt"
)

// Status is the closed set of results an Init call can report.
type Status uint32

const (
	Success Status = iota
	InvalidParam
	NtdllHandle
	FindLdrLoadDll
	FindLdrGetProcedureAddress
	InvalidLibName
	LoadLib
)

var statusText = map[Status]string{
	Success:                    "success",
	InvalidParam:               "invalid parameter",
	NtdllHandle:                "ntdll.dll not found in loaded module list",
	FindLdrLoadDll:             "LdrLoadDll export not found",
	FindLdrGetProcedureAddress: "LdrGetProcedureAddress export not found",
	InvalidLibName:             "invalid library name",
	LoadLib:                    "library load failed",
}

func (s Status) String() string {
	if txt, ok := statusText[s]; ok {
		return txt
	}
	return fmt.Sprintf("status(%d)", uint32(s))
}

// ResolverError carries a Status plus whatever caused it.
type ResolverError struct {
	Code   Status
	Module string
	Err    error
}

func (e *ResolverError) Error() string {
	msg := e.Code.String()
	if e.Module != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Module)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ResolverError) Unwrap() error {
	return e.Err
}

// New creates a new ResolverError
func New(code Status) error {
	return &ResolverError{Code: code}
}

// Wrap attaches a cause to a status.
func Wrap(code Status, err error) error {
	return &ResolverError{Code: code, Err: err}
}

// ForModule ties a status to the module entry that produced it.
func ForModule(code Status, module string, err error) error {
	return &ResolverError{Code: code, Module: module, Err: err}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code Status) bool {
	var rErr *ResolverError
	if stderrors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}

// StatusOf maps an error back to its status. nil is Success.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var rErr *ResolverError
	if stderrors.As(err, &rErr) {
		return rErr.Code
	}
	return LoadLib
}
