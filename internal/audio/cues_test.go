package audio

import (
	"testing"

	"github.com/vovakirdan/arena-survival/internal/engine"
)

func TestSweepEnds(t *testing.T) {
	q := cues[engine.EventHit]
	s := newSweep(q, sampleRate)
	want := sampleRate.N(q.length)

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		for i := 0; i < n; i++ {
			if buf[i][0] > q.gain || buf[i][0] < -q.gain {
				t.Fatalf("sample %v exceeds gain %v", buf[i][0], q.gain)
			}
		}
		if !ok {
			break
		}
	}
	if total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v", s.Err())
	}
}

func TestEveryEventHasCue(t *testing.T) {
	kinds := []engine.EventKind{
		engine.EventPhase, engine.EventHit, engine.EventPickup, engine.EventKill,
		engine.EventBlast, engine.EventAnnounce, engine.EventDeath,
	}
	for _, k := range kinds {
		if q, ok := cues[k]; !ok || q.length <= 0 {
			t.Errorf("event %d has no cue", k)
		}
	}
}

func TestDisabledCuesAreSilent(t *testing.T) {
	c := New(false, nil)
	if c.Active() {
		t.Fatal("disabled cues report active")
	}
	c.Handle([]engine.Event{{Kind: engine.EventHit}})
	c.Close()
}
