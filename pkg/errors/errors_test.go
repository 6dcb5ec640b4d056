package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsCodeThroughWrapping(t *testing.T) {
	cause := stderrors.New("boom")
	err := fmt.Errorf("init: %w", ForModule(LoadLib, "user32.dll", cause))

	if !IsCode(err, LoadLib) {
		t.Fatalf("expected LoadLib code in %v", err)
	}
	if IsCode(err, InvalidLibName) {
		t.Fatalf("unexpected InvalidLibName match")
	}
	if !stderrors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want Status
	}{
		{nil, Success},
		{New(InvalidParam), InvalidParam},
		{Wrap(NtdllHandle, stderrors.New("no peb")), NtdllHandle},
		{stderrors.New("foreign"), LoadLib},
	}
	for _, c := range cases {
		if got := StatusOf(c.err); got != c.want {
			t.Fatalf("StatusOf(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := ForModule(InvalidLibName, "bad\x00name.dll", nil)
	want := `invalid library name: "bad\x00name.dll"`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	if Status(99).String() != "status(99)" {
		t.Fatalf("unexpected unknown status text %q", Status(99).String())
	}
}
