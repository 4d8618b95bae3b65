package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Styles for structured CLI summaries.
var (
	stylePass  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleFail  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleTitle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func printTitle(s string) {
	fmt.Println(styleTitle.Render(s))
}

func printKV(key string, value any) {
	fmt.Printf("  %s %v\n", styleDim.Render(key+":"), value)
}

func passFail(passed bool) string {
	if passed {
		return stylePass.Render("PASS")
	}
	return styleFail.Render("FAIL")
}
