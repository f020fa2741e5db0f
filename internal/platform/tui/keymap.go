package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arena-survival/internal/core"
)

// GameKeyMap defines the in-run key bindings. WASD and the arrows map to
// the same movement actions; shift+direction dashes.
type GameKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Dash    key.Binding
	Fire    key.Binding
	Grenade key.Binding
	Pause   key.Binding
	Restart key.Binding
	Back    key.Binding
	Debug   key.Binding
	Shot    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Fire, k.Grenade, k.Pause, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Dash},
		{k.Fire, k.Grenade, k.Pause, k.Restart},
		{k.Back, k.Shot, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("w", "up", "shift+up", "W"),
			key.WithHelp("wasd/arrows", "move"),
		),
		Down:  key.NewBinding(key.WithKeys("s", "down", "shift+down", "S")),
		Left:  key.NewBinding(key.WithKeys("a", "left", "shift+left", "A")),
		Right: key.NewBinding(key.WithKeys("d", "right", "shift+right", "D")),
		Dash: key.NewBinding(
			key.WithKeys("shift+up", "shift+down", "shift+left", "shift+right", "W", "A", "S", "D"),
			key.WithHelp("shift+move", "dash"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" ", "space", "f"),
			key.WithHelp("space", "fire"),
		),
		Grenade: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grenade"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu"),
		),
		Debug: key.NewBinding(key.WithKeys("f9")),
		Shot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Actions translates a key message to engine actions. One key can carry
// several (shift+left is dash and left).
func (k GameKeyMap) Actions(msg tea.KeyMsg) []core.Action {
	var out []core.Action
	for _, b := range []struct {
		binding key.Binding
		action  core.Action
	}{
		{k.Up, core.ActionMoveUp},
		{k.Down, core.ActionMoveDown},
		{k.Left, core.ActionMoveLeft},
		{k.Right, core.ActionMoveRight},
		{k.Dash, core.ActionDash},
		{k.Fire, core.ActionFire},
		{k.Grenade, core.ActionGrenade},
		{k.Pause, core.ActionPause},
		{k.Restart, core.ActionRestart},
		{k.Debug, core.ActionDebug},
	} {
		if key.Matches(msg, b.binding) {
			out = append(out, b.action)
		}
	}
	return out
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionRuns
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionRuns
	}

	return MenuActionNone
}
