package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/economy"
	"github.com/vovakirdan/arena-survival/internal/registry"
)

// MenuItem represents a selectable arena in the menu.
type MenuItem struct {
	VariantID string
	Title     string
	Blurb     string
	Controls  []string
}

// MenuModel is the Bubble Tea model for the arena picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	wallet    *economy.Totals
	config    core.RuntimeConfig
	quitting  bool
	selected  *MenuItem // Set when the player picks an arena
	openRuns  bool      // True if the player pressed Tab for the runs board
	openedRun string    // Variant under the cursor when the runs board was requested
}

// NewMenuModel creates a new menu model. wallet may be nil.
func NewMenuModel(wallet *economy.Totals, cfg core.RuntimeConfig) MenuModel {
	infos := registry.List()
	items := make([]MenuItem, 0, len(infos))
	for _, info := range infos {
		item := MenuItem{VariantID: info.ID, Title: info.Title, Blurb: info.Blurb}
		if v, err := registry.Lookup(info.ID); err == nil {
			item.Controls = v.Controls()
		}
		items = append(items, item)
	}

	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		wallet: wallet,
		config: cfg,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionRuns:
		m.openRuns = true
		if len(m.items) > 0 {
			m.openedRun = m.items[m.cursor].VariantID
		}
		return m, tea.Quit
	}

	return m, nil
}

var (
	menuTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuSelected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	menuBlurb    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitle.Render(centerText("  A R E N A   S U R V I V A L  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick an arena", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuSelected.Render(centerText("> "+item.Title, m.width))
		} else {
			line = centerText(line, m.width)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		cur := m.items[m.cursor]
		b.WriteString("\n")
		b.WriteString(menuBlurb.Render(centerText(cur.Blurb, m.width)))
		b.WriteString("\n")
		if len(cur.Controls) > 0 {
			b.WriteString(footerText.Render(centerText(strings.Join(cur.Controls, "  "), m.width)))
			b.WriteString("\n")
		}
	}

	if m.wallet != nil {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("wallet: %d soft  %d premium", m.wallet.Soft, m.wallet.Premium), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Runs  |  Q: Quit"
	b.WriteString(footerText.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRuns returns true if user requested the runs board.
func (m MenuModel) WantsRuns() bool {
	return m.openRuns
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	VariantID string
	Config    core.RuntimeConfig
	WantsRuns bool
	Quit      bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(wallet *economy.Totals, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(wallet, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsRuns():
		result.WantsRuns = true
		result.VariantID = m.openedRun
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.VariantID = m.Selected().VariantID
	}
	return result, nil
}
