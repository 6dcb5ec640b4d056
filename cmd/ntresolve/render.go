package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/carved4/go-ntresolve/pkg/resolver"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	headStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func box(head string, lines []string) string {
	body := strings.Join(lines, "\n")
	if body == "" {
		body = dimStyle.Render("(empty)")
	}
	return boxStyle.Render(headStyle.Render(head) + "\n" + body)
}

func renderModules(ntdll uintptr, mods []resolver.ModuleInfo) string {
	lines := []string{fmt.Sprintf("%-24s %s", resolver.NtdllName, okStyle.Render(fmt.Sprintf("%#x", ntdll)))}
	for _, m := range mods {
		lines = append(lines, fmt.Sprintf("%-24s %s", m.Name, okStyle.Render(fmt.Sprintf("%#x", m.Handle))))
	}
	return box("MODULES", lines)
}

func renderResult(r result) string {
	if r.Err != nil {
		return fmt.Sprintf("%-40s %s", r.Target, errorStyle.Render(r.Err.Error()))
	}
	return fmt.Sprintf("%-40s %s", r.Target, okStyle.Render(fmt.Sprintf("%#x", r.Address)))
}

func renderResults(results []result) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, renderResult(r))
	}
	return box("RESOLVED", lines)
}

func renderExports(module string, rows []exportRow) string {
	lines := make([]string, 0, len(rows))
	for _, e := range rows {
		name := e.Name
		if name == "" {
			name = dimStyle.Render("(ordinal only)")
		}
		line := fmt.Sprintf("%5d  %#x  %s", e.Ordinal, e.Address, name)
		if e.Forwarder {
			line += dimStyle.Render("  forwarder")
		}
		lines = append(lines, line)
	}
	return box(fmt.Sprintf("EXPORTS · %s (%d)", module, len(rows)), lines)
}
