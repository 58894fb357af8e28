package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	DoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	MissStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	DangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Mark renders a completion checkbox
func Mark(complete bool) string {
	if complete {
		return DoneStyle.Render("✓")
	}
	return MutedStyle.Render("○")
}

// ProgressBar renders p (0..1) as a fixed-width bar followed by a percentage
func ProgressBar(p float64, width int) string {
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(math.Round(p * float64(width)))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := MissStyle
	if p >= 1 {
		style = DoneStyle
	}
	return fmt.Sprintf("%s %3.0f%%", style.Render(bar), p*100)
}

// FormatValue prints a recorded value without trailing zeros, or "-" when missing
func FormatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", *v), "0"), ".")
}
