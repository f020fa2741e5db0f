// Package tui provides the Bubble Tea host for the arena engine.
// It schedules frames, maps keys and mouse to engine actions, and paints
// the rasterized arena with a HUD.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is the host frame callback. Owner identifies the scheduler that
// produced it and Token the engine run that requested it.
type FrameMsg struct {
	Owner uint64
	Token uint64
	Time  time.Time
}

var schedulerIDs atomic.Uint64

// frameScheduler collects engine frame requests and turns them into
// Bubble Tea tick commands.
type frameScheduler struct {
	id        uint64
	interval  time.Duration
	requested []uint64
}

func newFrameScheduler(fps int) *frameScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &frameScheduler{
		id:       schedulerIDs.Add(1),
		interval: time.Second / time.Duration(fps),
	}
}

// RequestFrame records a request; cmd delivers it.
func (s *frameScheduler) RequestFrame(token uint64) {
	s.requested = append(s.requested, token)
}

// cmd returns the tick commands for all pending requests.
func (s *frameScheduler) cmd() tea.Cmd {
	if len(s.requested) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.requested))
	for _, token := range s.requested {
		cmds = append(cmds, tickCmd(s.interval, s.id, token))
	}
	s.requested = s.requested[:0]
	return tea.Batch(cmds...)
}

func tickCmd(interval time.Duration, owner, token uint64) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Owner: owner, Token: token, Time: t}
	})
}
