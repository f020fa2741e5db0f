package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arena-survival/internal/audio"
	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/engine"
	"github.com/vovakirdan/arena-survival/internal/storage"
)

// chromeRows is the number of terminal rows outside the arena (HUD, footer).
const chromeRows = 2

// GameDeps carries the services a game model uses. Every field is optional.
type GameDeps struct {
	Store  *storage.Store
	Ledger engine.Ledger
	Cues   *audio.Cues
	Logger *log.Logger
	Debug  bool
	// Embedded keeps the program running when the player leaves for the
	// menu; the enclosing model checks BackToMenu.
	Embedded bool
	// ShotDir overrides the screenshot directory (~/.arena/screenshots).
	ShotDir string
}

// runSavedMsg reports the outcome of persisting a finished run.
type runSavedMsg struct {
	id  string
	err error
}

// deathOutbox collects run summaries from the engine's death callback.
type deathOutbox struct {
	pending []engine.RunSummary
}

// GameModel is the Bubble Tea model hosting one engine.
type GameModel struct {
	engine *engine.Engine
	screen *core.Screen
	sched  *frameScheduler
	keys   GameKeyMap
	help   help.Model
	deps   GameDeps
	logger *log.Logger
	outbox *deathOutbox

	width      int
	height     int
	status     string
	err        error
	quitting   bool
	backToMenu bool
}

// NewGameModel builds an engine for cfg bound to a fresh screen sized to rt.
func NewGameModel(cfg config.ArenaConfig, rt core.RuntimeConfig, deps GameDeps) (GameModel, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	screen := core.NewScreen(rt.ScreenW, max(rt.ScreenH-chromeRows, 1))
	sched := newFrameScheduler(rt.TickRate)
	outbox := &deathOutbox{}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithScheduler(sched),
		engine.WithSeed(rt.Seed),
		engine.WithDebug(deps.Debug),
		engine.WithSurface(screen),
	}
	if deps.Ledger != nil {
		opts = append(opts, engine.WithLedger(deps.Ledger))
	}
	eng, err := engine.New(cfg, opts...)
	if err != nil {
		return GameModel{}, err
	}
	eng.OnDeath(func(sum engine.RunSummary) {
		outbox.pending = append(outbox.pending, sum)
	})

	return GameModel{
		engine: eng,
		screen: screen,
		sched:  sched,
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
		deps:   deps,
		logger: logger,
		outbox: outbox,
		width:  rt.ScreenW,
		height: rt.ScreenH,
	}, nil
}

// Engine returns the hosted engine.
func (m GameModel) Engine() *engine.Engine {
	return m.engine
}

// Init starts the first run.
func (m GameModel) Init() tea.Cmd {
	m.engine.StartRun(time.Now())
	return m.sched.cmd()
}

// Update handles messages and drives the engine.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-chromeRows, 1))
		return m, nil

	case FrameMsg:
		if msg.Owner != m.sched.id {
			return m, nil
		}
		return m.handleFrame(msg)

	case runSavedMsg:
		if msg.err != nil {
			m.logger.Error("tui: save run failed", "err", msg.err)
			m.status = "run not saved"
		} else {
			m.logger.Debug("tui: run saved", "id", msg.id)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.StopRun()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Shot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		hud := m.engine.HUD()
		if hud.Dead || hud.Paused || m.err != nil {
			m.engine.StopRun()
			m.backToMenu = true
			if m.deps.Embedded {
				return m, nil
			}
			return m, tea.Quit
		}
		return m, nil
	}

	if m.err != nil {
		return m, nil
	}
	now := time.Now()
	for _, a := range m.keys.Actions(msg) {
		m.engine.Input().Press(a, now)
	}
	return m, nil
}

// handleMouse aims with the pointer and fires while the left button is down.
func (m GameModel) handleMouse(msg tea.MouseMsg) {
	in := m.engine.Input()
	now := time.Now()
	if p, ok := m.cellToArena(msg.X, msg.Y); ok {
		in.MovePointer(p, now)
	}
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		in.Hold(core.ActionFire)
	case tea.MouseActionRelease:
		in.Release(core.ActionFire)
	}
}

// cellToArena maps a terminal cell to the arena point at its centre.
// The HUD occupies the first row.
func (m GameModel) cellToArena(x, y int) (core.Vec2, bool) {
	y--
	cols, rows := m.screen.Width(), m.screen.Height()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return core.Vec2{}, false
	}
	arena := m.engine.Config().Arena
	return core.V(
		(float64(x)+0.5)*arena.Width/float64(cols),
		(float64(y)+0.5)*arena.Height/float64(rows),
	), true
}

// handleFrame advances the engine and forwards what it produced.
func (m GameModel) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	if err := m.frame(msg); err != nil {
		m.err = err
		m.logger.Error("tui: frame failed", "variant", m.engine.Config().ID, "err", err)
		m.engine.StopRun()
		return m, nil
	}

	if m.deps.Cues != nil {
		m.deps.Cues.Handle(m.engine.DrainEvents())
	} else {
		m.engine.DrainEvents()
	}

	cmds := []tea.Cmd{m.sched.cmd()}
	for _, sum := range m.outbox.pending {
		cmds = append(cmds, saveRunCmd(m.deps.Store, sum))
	}
	m.outbox.pending = m.outbox.pending[:0]
	return m, tea.Batch(cmds...)
}

// frame runs one engine frame, turning a panic into an error.
func (m GameModel) frame(msg FrameMsg) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	m.engine.Frame(msg.Token, msg.Time)
	return nil
}

// saveRunCmd persists a finished run in the background.
func saveRunCmd(store *storage.Store, sum engine.RunSummary) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		id, err := store.SaveRun(storage.RunRecord{
			Variant:  sum.Variant,
			Phase:    sum.Phase,
			Survived: sum.Survived,
			Kills:    sum.Kills,
			Soft:     sum.Soft,
			Premium:  sum.Premium,
		})
		return runSavedMsg{id: id, err: err}
	}
}

// saveScreenshot writes the current arena to a text file.
func (m *GameModel) saveScreenshot() {
	dir := m.deps.ShotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.status = "screenshot failed"
			return
		}
		dir = filepath.Join(home, ".arena", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.status = "screenshot failed"
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.engine.Config().ID, timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("tui: screenshot failed", "path", path, "err", err)
		m.status = "screenshot failed"
		return
	}
	m.status = "saved " + filepath.Base(path)
}

// View renders the HUD, the arena and the footer.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	hud := m.engine.HUD()
	var b strings.Builder
	b.WriteString(renderHUD(hud, m.width))
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.footer(hud))
	return b.String()
}

func (m GameModel) footer(hud engine.HUD) string {
	switch {
	case m.err != nil:
		return hpLow.Render("error: "+m.err.Error()) + footerText.Render("  esc: menu  q: quit")
	case hud.Dead:
		return footerText.Render(fmt.Sprintf("survived %s, phase %d  r: restart  esc: menu  q: quit",
			formatSurvived(hud.Elapsed), hud.Phase))
	case m.status != "":
		return footerText.Render(m.status)
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// BackToMenu reports whether the player left for the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Err returns the error that stopped the engine, if any.
func (m GameModel) Err() error {
	return m.err
}

// GameResult is how a game session ended.
type GameResult struct {
	BackToMenu bool
}

// Run plays cfg in the terminal until the player quits or leaves for the menu.
func Run(cfg config.ArenaConfig, rt core.RuntimeConfig, deps GameDeps) (GameResult, error) {
	model, err := NewGameModel(cfg, rt, deps)
	if err != nil {
		return GameResult{}, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Aim and fire with the mouse
	)

	final, err := p.Run()
	if err != nil {
		return GameResult{}, err
	}
	gm, ok := final.(GameModel)
	if !ok {
		return GameResult{}, errors.New("tui: unexpected final model")
	}
	gm.engine.StopRun()
	return GameResult{BackToMenu: gm.BackToMenu()}, gm.Err()
}
