package main

import (
	"strings"
	"testing"

	"github.com/carved4/go-ntresolve/pkg/config"
	"github.com/carved4/go-ntresolve/pkg/resolver"
)

func TestParseTarget(t *testing.T) {
	cases := []struct {
		module, function string
		want             config.Target
		wantErr          bool
	}{
		{"kernel32.dll", "GetCurrentProcessId", config.Target{Module: "kernel32.dll", Function: "GetCurrentProcessId"}, false},
		{" user32.dll ", "#12", config.Target{Module: "user32.dll", Ordinal: 12}, false},
		{"user32.dll", "7", config.Target{Module: "user32.dll", Ordinal: 7}, false},
		{"user32.dll", "0", config.Target{Module: "user32.dll", Function: "0"}, false},
		{"", "Sleep", config.Target{}, true},
		{"kernel32.dll", "  ", config.Target{}, true},
	}
	for _, c := range cases {
		got, err := parseTarget(c.module, c.function)
		if (err != nil) != c.wantErr {
			t.Fatalf("parseTarget(%q, %q) error = %v", c.module, c.function, err)
		}
		if got != c.want {
			t.Fatalf("parseTarget(%q, %q) = %+v, want %+v", c.module, c.function, got, c.want)
		}
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := newLogger(false, "chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	log, err := newLogger(false, "warn")
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(-1) {
		t.Fatalf("debug should be disabled at warn level")
	}
}

func TestRenderModulesListsNtdll(t *testing.T) {
	out := renderModules(0x1000, []resolver.ModuleInfo{{Name: "kernel32.dll", Handle: 0x2000}})
	for _, want := range []string{"ntdll.dll", "kernel32.dll", "0x2000"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
