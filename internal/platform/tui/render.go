package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/engine"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorPurple:       lipgloss.NewStyle().Foreground(lipgloss.Color("93")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDeepBlue:     lipgloss.NewStyle().Foreground(lipgloss.Color("19")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

var (
	hudStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	hpGood     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hpLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	hudDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	footerText = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// hpBarWidth is the HP gauge length in cells.
const hpBarWidth = 12

// renderHUD draws the single status line above the arena.
func renderHUD(h engine.HUD, width int) string {
	frac := 0.0
	if h.MaxHP > 0 {
		frac = h.HP / h.MaxHP
	}
	filled := int(frac*hpBarWidth + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", hpBarWidth-filled)
	hpStyle := hpGood
	if frac <= 0.25 {
		hpStyle = hpLow
	}

	parts := []string{
		hudStyle.Render(" " + h.Title + " "),
		hpStyle.Render(fmt.Sprintf("HP %s %3.0f", bar, h.HP)),
		fmt.Sprintf("T %s", formatSurvived(h.Elapsed)),
		fmt.Sprintf("PHASE %d", h.Phase),
		fmt.Sprintf("SOFT %d", h.Soft),
		fmt.Sprintf("PREM %d", h.Premium),
	}
	if h.Kills > 0 {
		parts = append(parts, fmt.Sprintf("KILLS %d", h.Kills))
	}
	if h.Grenades > 0 {
		parts = append(parts, fmt.Sprintf("NADES %d", h.Grenades))
	}
	if h.Boost > 0 {
		parts = append(parts, fmt.Sprintf("AMMO+ %d", h.Boost))
	}
	if h.Paused {
		parts = append(parts, hpLow.Render("PAUSED"))
	}

	line := strings.Join(parts, hudDim.Render(" │ "))
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// formatSurvived renders a run duration as m:ss.t.
func formatSurvived(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	m := int(d / time.Minute)
	s := d % time.Minute
	return fmt.Sprintf("%d:%04.1f", m, s.Seconds())
}
