// Package audio plays short synthesized cues for engine events.
// Sound is optional: when disabled or when the speaker cannot be opened,
// every call is a silent no-op.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/arena-survival/internal/engine"
)

const sampleRate = beep.SampleRate(44100)

// cue is a pitch sweep with a decaying envelope.
type cue struct {
	from, to float64 // Hz
	length   time.Duration
	gain     float64
}

var cues = map[engine.EventKind]cue{
	engine.EventHit:      {from: 220, to: 110, length: 90 * time.Millisecond, gain: 0.25},
	engine.EventPickup:   {from: 660, to: 990, length: 80 * time.Millisecond, gain: 0.2},
	engine.EventKill:     {from: 330, to: 165, length: 70 * time.Millisecond, gain: 0.2},
	engine.EventBlast:    {from: 90, to: 40, length: 250 * time.Millisecond, gain: 0.35},
	engine.EventPhase:    {from: 440, to: 880, length: 200 * time.Millisecond, gain: 0.2},
	engine.EventAnnounce: {from: 880, to: 440, length: 300 * time.Millisecond, gain: 0.25},
	engine.EventDeath:    {from: 300, to: 60, length: 600 * time.Millisecond, gain: 0.3},
}

// Cues maps engine events to sounds.
type Cues struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	active bool
	logger *log.Logger
}

// New opens the speaker when enabled. Failure is logged and leaves the
// cues silent.
func New(enabled bool, logger *log.Logger) *Cues {
	c := &Cues{mixer: &beep.Mixer{}, logger: logger}
	if !enabled {
		return c
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		if logger != nil {
			logger.Warn("audio: speaker unavailable, sound disabled", "error", err)
		}
		return c
	}
	speaker.Play(c.mixer)
	c.active = true
	return c
}

// Active reports whether sound is playing through the speaker.
func (c *Cues) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Handle plays the cue of every event. Repeated kinds in one batch play once.
func (c *Cues) Handle(events []engine.Event) {
	if len(events) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}

	seen := make(map[engine.EventKind]bool, len(events))
	speaker.Lock()
	for _, ev := range events {
		q, ok := cues[ev.Kind]
		if !ok || seen[ev.Kind] {
			continue
		}
		seen[ev.Kind] = true
		c.mixer.Add(newSweep(q, sampleRate))
	}
	speaker.Unlock()
}

// Close silences all cues.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.active = false
}

// sweep streams one cue and then ends.
type sweep struct {
	q     cue
	sr    beep.SampleRate
	pos   int
	total int
	phase float64
}

func newSweep(q cue, sr beep.SampleRate) *sweep {
	return &sweep{q: q, sr: sr, total: sr.N(q.length)}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.pos >= s.total {
			return i, true
		}
		p := float64(s.pos) / float64(s.total)
		freq := s.q.from + (s.q.to-s.q.from)*p
		s.phase += 2 * math.Pi * freq / float64(s.sr)

		// quick attack, linear decay
		env := math.Min(1, p*20) * (1 - p)
		v := s.q.gain * env * math.Sin(s.phase)
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error {
	return nil
}
