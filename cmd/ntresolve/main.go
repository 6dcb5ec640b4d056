package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/carved4/go-ntresolve/pkg/config"
	"github.com/carved4/go-ntresolve/pkg/errors"
	"github.com/carved4/go-ntresolve/pkg/resolver"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML manifest (defaults to the built-in one)")
	verbose := flag.Bool("v", false, "enable development logging")
	interactive := flag.Bool("i", false, "start the interactive resolver")
	exportsOf := flag.String("exports", "", "list the exports of a module and exit")
	flag.Parse()

	if err := run(*configPath, *verbose, *interactive, *exportsOf); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func run(configPath string, verbose, interactive bool, exportsOf string) error {
	manifest, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(verbose, manifest.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	mods := make([]resolver.ModuleInfo, len(manifest.Modules))
	for i, name := range manifest.Modules {
		mods[i] = resolver.NewModuleInfo(name)
	}
	r, err := resolver.Init(mods, resolver.WithLogger(log))
	if err != nil {
		return fmt.Errorf("init failed with %s: %w", errors.StatusOf(err), err)
	}
	fmt.Println(titleStyle.Render("ntresolve"))
	fmt.Println(renderModules(r.Ntdll(), r.Modules()))

	switch {
	case exportsOf != "":
		rows, err := listExports(r, exportsOf)
		if err != nil {
			return err
		}
		fmt.Println(renderExports(exportsOf, rows))
	case interactive:
		_, err := tea.NewProgram(newInteractiveModel(r)).Run()
		return err
	default:
		results := make([]result, 0, len(manifest.Resolve))
		for _, t := range manifest.Resolve {
			results = append(results, resolveTarget(r, t))
		}
		fmt.Println(renderResults(results))
	}
	return nil
}

func newLogger(verbose bool, level string) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
