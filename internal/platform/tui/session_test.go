package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/economy"
	"github.com/vovakirdan/arena-survival/internal/storage"

	_ "github.com/vovakirdan/arena-survival/internal/variants/bluezone"
	_ "github.com/vovakirdan/arena-survival/internal/variants/crates"
	_ "github.com/vovakirdan/arena-survival/internal/variants/smgstorm"
)

func newTestSession(t *testing.T) SessionModel {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	preset, err := config.LookupPreset("")
	if err != nil {
		t.Fatalf("LookupPreset() failed: %v", err)
	}
	rt := core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 30, Seed: 1}
	m := NewSessionModel(SessionDeps{Store: store, Preset: preset}, rt)
	t.Cleanup(m.Close)
	return m
}

func sessionKey(m SessionModel, msg tea.KeyMsg) (SessionModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(SessionModel), cmd
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	m := newTestSession(t)
	if !strings.Contains(m.View(), "A R E N A") {
		t.Fatal("session does not open on the menu")
	}

	m, cmd := sessionKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.game == nil {
		t.Fatal("enter did not start a game")
	}
	if cmd == nil {
		t.Error("starting a game returned no frame command")
	}
	if got := m.game.Engine().Config().ID; got != "bluezone" {
		t.Errorf("started %q, want bluezone (first in the list)", got)
	}

	m, _ = sessionKey(m, runeKey('p'))
	next, _ := m.Update(FrameMsg{
		Owner: m.game.sched.id,
		Token: m.game.Engine().Loop().Token(),
		Time:  time.Now().Add(20 * time.Millisecond),
	})
	m = next.(SessionModel)
	if !m.game.Engine().Paused() {
		t.Fatal("game did not pause")
	}

	m, _ = sessionKey(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.game != nil {
		t.Fatal("back did not return to the menu")
	}
	if m.quitting {
		t.Error("back ended the session")
	}
}

func TestSessionRunsBoard(t *testing.T) {
	m := newTestSession(t)

	m, _ = sessionKey(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.runs == nil {
		t.Fatal("tab did not open the runs board")
	}
	if !strings.Contains(m.View(), "LONGEST RUNS") {
		t.Error("runs board view missing title")
	}

	m, _ = sessionKey(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.runs != nil || m.quitting {
		t.Fatal("back from runs board did not return to the menu")
	}
}

func TestSessionQuit(t *testing.T) {
	m := newTestSession(t)
	m, cmd := sessionKey(m, runeKey('q'))
	if !m.quitting || cmd == nil {
		t.Fatal("q did not end the session")
	}
}

func TestSessionWalletCarriesAcrossGames(t *testing.T) {
	m := newTestSession(t)
	if !strings.Contains(m.View(), "wallet: 0 soft") {
		t.Error("menu does not show the session wallet")
	}

	m, _ = sessionKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.game == nil {
		t.Fatal("enter did not start a game")
	}
	if err := m.wallet.Credit(economy.Soft, 120); err != nil {
		t.Fatal(err)
	}
	if got := m.game.Engine().HUD().Soft; got != 120 {
		t.Errorf("first game HUD soft = %d, want 120", got)
	}

	m, _ = sessionKey(m, runeKey('p'))
	next, _ := m.Update(FrameMsg{
		Owner: m.game.sched.id,
		Token: m.game.Engine().Loop().Token(),
		Time:  time.Now().Add(20 * time.Millisecond),
	})
	m = next.(SessionModel)
	m, _ = sessionKey(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.game != nil {
		t.Fatal("back did not return to the menu")
	}
	if !strings.Contains(m.View(), "wallet: 120 soft") {
		t.Errorf("menu lost the wallet:\n%s", m.View())
	}

	m, _ = sessionKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.game == nil {
		t.Fatal("enter did not start a second game")
	}
	if got := m.game.Engine().HUD().Soft; got != 120 {
		t.Errorf("second game HUD soft = %d, want 120", got)
	}
	if got := m.Wallet(); got.Soft != 120 {
		t.Errorf("Wallet() = %+v, want 120 soft", got)
	}
}
