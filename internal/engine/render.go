package engine

import (
	"fmt"
	"time"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
)

// DrawKind is the shape of a draw command.
type DrawKind uint8

const (
	DrawDisc   DrawKind = iota // Filled circle
	DrawRing                   // Annulus between Inner and Radius
	DrawGlyph                  // Single glyph at Pos
	DrawBanner                 // Centered text across the arena
	DrawLabel                  // Text anchored at Pos
)

// DrawCmd is one primitive in arena coordinates.
type DrawCmd struct {
	Kind   DrawKind
	Pos    core.Vec2
	Radius float64
	Inner  float64
	Glyph  string
	Text   string
	Color  core.Color
	Dim    bool // Telegraphed, fading in or about to expire
}

// pickupBlinkAt marks pickups that are about to expire.
const pickupBlinkAt = 1500 * time.Millisecond

// Render produces the draw list for a run. It reads st and cfg and never
// mutates them.
func Render(st *RunState, cfg *config.ArenaConfig) []DrawCmd {
	cmds := make([]DrawCmd, 0, len(st.Hazards)+len(st.Projectiles)+len(st.Pickups)+8)

	for i := range st.Hazards {
		h := &st.Hazards[i]
		switch h.Behavior {
		case HazardZone:
			armed := st.Elapsed >= h.ArmedAt
			kind := DrawDisc
			if h.Inner > 0 {
				kind = DrawRing
			}
			cmds = append(cmds, DrawCmd{Kind: kind, Pos: h.Pos, Radius: h.Radius, Inner: h.Inner, Color: h.Color, Dim: !armed})
		case HazardGas:
			cmds = append(cmds, DrawCmd{Kind: DrawRing, Pos: h.Pos, Radius: h.Radius, Inner: h.Radius - 6, Color: h.Color})
		}
	}

	for i := range st.Effects {
		e := &st.Effects[i]
		if e.Kind == EffectBlast {
			cmds = append(cmds, DrawCmd{Kind: DrawDisc, Pos: e.Pos, Radius: e.Radius, Color: e.Color, Dim: true})
		}
	}

	for i := range st.Pickups {
		p := &st.Pickups[i]
		expiring := p.ExpiresAt > 0 && p.ExpiresAt-st.Elapsed < pickupBlinkAt
		cmds = append(cmds, DrawCmd{Kind: DrawGlyph, Pos: p.Pos, Radius: p.Radius, Glyph: p.Glyph, Color: p.Color, Dim: p.Progress < 1 || expiring})
	}

	for i := range st.Hazards {
		h := &st.Hazards[i]
		if behaviors[h.Behavior].area {
			continue
		}
		cmds = append(cmds, DrawCmd{Kind: DrawGlyph, Pos: h.Pos, Radius: h.Radius, Glyph: h.Glyph, Color: h.Color})
		if st.Debug {
			cmds = append(cmds, DrawCmd{Kind: DrawRing, Pos: h.Pos, Radius: h.Radius, Inner: h.Radius - 2, Color: core.ColorGray, Dim: true})
		}
	}

	for i := range st.Projectiles {
		pr := &st.Projectiles[i]
		c := core.ColorBrightRed
		if pr.Owner == OwnerPlayer {
			c = core.ColorBrightYellow
		}
		cmds = append(cmds, DrawCmd{Kind: DrawGlyph, Pos: pr.Pos, Radius: pr.Radius, Glyph: "•", Color: c})
	}

	for i := range st.Grenades {
		cmds = append(cmds, DrawCmd{Kind: DrawGlyph, Pos: st.Grenades[i].Pos, Glyph: "ó", Color: core.ColorPurple})
	}

	cmds = append(cmds, playerCmd(st))

	if st.Debug {
		cmds = append(cmds, DrawCmd{
			Kind:  DrawLabel,
			Pos:   core.V(0, 0),
			Text:  fmt.Sprintf("hz:%d pr:%d pk:%d next:%s", len(st.Hazards), len(st.Projectiles), len(st.Pickups), st.Phase.NextAt),
			Color: core.ColorGray,
		})
	}

	for i := len(st.Effects) - 1; i >= 0; i-- {
		if e := &st.Effects[i]; e.Kind == EffectAlert {
			cmds = append(cmds, DrawCmd{Kind: DrawBanner, Text: e.Text, Color: e.Color})
			break
		}
	}
	return cmds
}

func playerCmd(st *RunState) DrawCmd {
	p := &st.Player
	cmd := DrawCmd{Kind: DrawGlyph, Pos: p.Pos, Radius: p.Radius, Glyph: "@", Color: core.ColorBrightCyan}
	switch {
	case st.Dead:
		cmd.Glyph = "X"
		cmd.Color = core.ColorRed
	case p.Invuln > 0:
		cmd.Dim = true
	}
	return cmd
}

// HUD is the read-only per-frame view the host paints.
type HUD struct {
	Title    string
	HP       float64
	MaxHP    float64
	Elapsed  time.Duration
	Phase    int
	Soft     int64 // Durable totals including this run
	Premium  int64
	RunSoft  int64
	RunPrem  int64
	Kills    int
	Grenades int
	Boost    int
	Dead     bool
	Paused   bool
	Alert    string
}

var colorNames = map[string]core.Color{
	"":             core.ColorDefault,
	"red":          core.ColorRed,
	"green":        core.ColorGreen,
	"yellow":       core.ColorYellow,
	"blue":         core.ColorBlue,
	"magenta":      core.ColorMagenta,
	"cyan":         core.ColorCyan,
	"white":        core.ColorWhite,
	"brightred":    core.ColorBrightRed,
	"brightgreen":  core.ColorBrightGreen,
	"brightyellow": core.ColorBrightYellow,
	"brightblue":   core.ColorBrightBlue,
	"brightcyan":   core.ColorBrightCyan,
	"orange":       core.ColorOrange,
	"purple":       core.ColorPurple,
	"gray":         core.ColorGray,
	"deepblue":     core.ColorDeepBlue,
}

// colorByName maps a config colour name to the palette. Unknown names use
// the default colour.
func colorByName(name string) core.Color {
	return colorNames[name]
}
