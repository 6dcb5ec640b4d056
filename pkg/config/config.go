// Package config loads the manifest consumed by cmd/ntresolve: which
// modules to hand to resolver.Init and which exports to resolve afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultManifestYAML = `# ntresolve manifest
modules:
  - kernel32.dll
  - user32.dll

resolve:
  - module: kernel32.dll
    function: GetCurrentProcessId
  - module: user32.dll
    function: MessageBoxW

log_level: info
`

// Target is one module!function pair to resolve after Init.
type Target struct {
	Module   string `yaml:"module"`
	Function string `yaml:"function,omitempty"`
	Ordinal  uint32 `yaml:"ordinal,omitempty"`
}

func (t Target) String() string {
	if t.Function == "" {
		return fmt.Sprintf("%s!#%d", t.Module, t.Ordinal)
	}
	return t.Module + "!" + t.Function
}

// Manifest models the YAML file.
type Manifest struct {
	Modules  []string `yaml:"modules"`
	Resolve  []Target `yaml:"resolve"`
	LogLevel string   `yaml:"log_level"`
}

// Default returns the built-in manifest.
func Default() *Manifest {
	m, err := Parse([]byte(defaultManifestYAML))
	if err != nil {
		panic(fmt.Sprintf("config: default manifest: %v", err))
	}
	return m
}

// Load reads a manifest from path. An empty path yields Default.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("config: parse manifest: %w", err)
	}
	if err := m.normalize(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) normalize() error {
	if len(m.Modules) == 0 {
		return errors.New("config: manifest lists no modules")
	}
	for i, t := range m.Resolve {
		t.Module = strings.TrimSpace(t.Module)
		t.Function = strings.TrimSpace(t.Function)
		if t.Module == "" {
			return fmt.Errorf("config: resolve[%d]: module is required", i)
		}
		if t.Function == "" && t.Ordinal == 0 {
			return fmt.Errorf("config: resolve[%d]: function or ordinal is required", i)
		}
		m.Resolve[i] = t
	}
	m.LogLevel = strings.ToLower(strings.TrimSpace(m.LogLevel))
	if m.LogLevel == "" {
		m.LogLevel = "info"
	}
	return nil
}
