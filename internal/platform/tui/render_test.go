package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/engine"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab", core.ColorRed)
	s.DrawText(2, 0, "cd", core.ColorGreen)
	s.SetColored(0, 1, '@', core.ColorBrightCyan)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() produced %d lines, want 2", len(lines))
	}
	if got := lipgloss.Width(lines[0]); got != 6 {
		t.Errorf("line width = %d, want 6", got)
	}
	for _, want := range []string{"ab", "cd", "@"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() missing %q", want)
		}
	}
}

func TestEveryColorHasStyle(t *testing.T) {
	for _, c := range []core.Color{
		core.ColorDefault, core.ColorRed, core.ColorGreen, core.ColorYellow,
		core.ColorBlue, core.ColorMagenta, core.ColorCyan, core.ColorWhite,
		core.ColorBrightRed, core.ColorBrightGreen, core.ColorBrightYellow,
		core.ColorBrightBlue, core.ColorBrightCyan, core.ColorOrange,
		core.ColorPurple, core.ColorGray, core.ColorDeepBlue,
	} {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("no style for color %d", c)
		}
	}
}

func TestRenderHUD(t *testing.T) {
	hud := engine.HUD{
		Title:   "Blue Zone",
		HP:      50,
		MaxHP:   100,
		Elapsed: 83*time.Second + 400*time.Millisecond,
		Phase:   3,
		Soft:    1200,
		Premium: 2,
		Kills:   4,
		Paused:  true,
	}

	out := renderHUD(hud, 200)
	for _, want := range []string{"Blue Zone", "1:23.4", "PHASE 3", "SOFT 1200", "PREM 2", "KILLS 4", "PAUSED"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderHUD() missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "NADES") {
		t.Error("renderHUD() shows grenades when the player has none")
	}
}

func TestFormatSurvived(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00.0"},
		{1500 * time.Millisecond, "0:01.5"},
		{61*time.Second + 960*time.Millisecond, "1:02.0"},
		{10 * time.Minute, "10:00.0"},
	}
	for _, tt := range tests {
		if got := formatSurvived(tt.d); got != tt.want {
			t.Errorf("formatSurvived(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
