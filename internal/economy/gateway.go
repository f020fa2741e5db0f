// Package economy owns the durable currency totals that outlive a run.
// Credits land in memory immediately; durable writes are coalesced and
// performed by a background writer so the frame loop never waits on storage.
package economy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Currency names a durable counter.
type Currency string

const (
	Soft    Currency = "soft"
	Premium Currency = "premium"
)

// Currencies lists every known currency.
var Currencies = []Currency{Soft, Premium}

var (
	// ErrNegativeAmount is returned when a credit would decrease a total.
	ErrNegativeAmount = errors.New("economy: negative credit amount")
	// ErrUnknownCurrency is returned for a currency outside Currencies.
	ErrUnknownCurrency = errors.New("economy: unknown currency")
	// ErrCorrupt marks stored totals that can be read but not decoded.
	// They load as zero and are overwritten by the next write.
	ErrCorrupt = errors.New("economy: stored totals are corrupt")
)

// DefaultDebounce is the coalescing window when none is configured.
const DefaultDebounce = 1500 * time.Millisecond

// Totals is a snapshot of every currency.
type Totals struct {
	Soft    int64
	Premium int64
}

// Get returns the total for c, or 0 for unknown currencies.
func (t Totals) Get(c Currency) int64 {
	switch c {
	case Soft:
		return t.Soft
	case Premium:
		return t.Premium
	}
	return 0
}

func (t *Totals) add(c Currency, n int64) {
	switch c {
	case Soft:
		t.Soft += n
	case Premium:
		t.Premium += n
	}
}

func (t Totals) toMap() map[string]int64 {
	return map[string]int64{string(Soft): t.Soft, string(Premium): t.Premium}
}

// Store is the durable key-value layer behind the gateway.
type Store interface {
	LoadTotals(ctx context.Context) (map[string]int64, error)
	SaveTotals(ctx context.Context, totals map[string]int64) error
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger for transient storage failures.
func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithDebounce sets the coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(g *Gateway) {
		if d >= 0 {
			g.debounce = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

type snapshot struct {
	totals  Totals
	version uint64
}

// Gateway converts credits into debounced durable writes.
type Gateway struct {
	store    Store
	logger   *log.Logger
	debounce time.Duration
	now      func() time.Time

	mu      sync.Mutex
	totals  Totals
	version uint64
	dirty   bool
	dueAt   time.Time
	closed  bool
	unread  bool // Last Load failed; durable totals are unknown

	writeMu sync.Mutex
	saved   uint64
	writes  int

	queue chan snapshot
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// New creates a gateway and starts its writer.
func New(store Store, opts ...Option) *Gateway {
	g := &Gateway{
		store:    store,
		logger:   log.New(io.Discard),
		debounce: DefaultDebounce,
		now:      time.Now,
		queue:    make(chan snapshot, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.wg.Add(1)
	go g.writer()
	return g
}

// Load reads durable totals. Missing, unreadable or malformed data yields
// zero totals; the failure is logged and never returned. After a failed
// read (other than ErrCorrupt) the stored totals are unknown, so no write
// happens until a later read succeeds and the credits earned meanwhile are
// merged onto it.
func (g *Gateway) Load(ctx context.Context) Totals {
	var t Totals
	raw, err := g.store.LoadTotals(ctx)
	if err != nil {
		g.logger.Warn("economy: load failed, starting from zero", "error", err)
	} else {
		t = g.parse(raw)
	}

	g.mu.Lock()
	g.totals = t
	g.dirty = false
	g.unread = err != nil && !errors.Is(err, ErrCorrupt)
	g.version++
	v := g.version
	g.mu.Unlock()

	g.writeMu.Lock()
	g.saved = v
	g.writeMu.Unlock()
	return t
}

func (g *Gateway) parse(raw map[string]int64) Totals {
	var t Totals
	for key, n := range raw {
		c := Currency(key)
		if !known(c) {
			g.logger.Warn("economy: ignoring unknown currency", "currency", key)
			continue
		}
		if n < 0 {
			g.logger.Warn("economy: ignoring negative total", "currency", key, "amount", n)
			continue
		}
		t.add(c, n)
	}
	return t
}

// reread retries a failed Load and merges the stored totals into memory.
// It returns the merged snapshot to write. Callers hold writeMu.
func (g *Gateway) reread(ctx context.Context) (snapshot, error) {
	var stored Totals
	raw, err := g.store.LoadTotals(ctx)
	switch {
	case errors.Is(err, ErrCorrupt):
	case err != nil:
		return snapshot{}, fmt.Errorf("totals never loaded: %w", err)
	default:
		stored = g.parse(raw)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unread {
		for _, c := range Currencies {
			g.totals.add(c, stored.Get(c))
		}
		g.unread = false
		g.version++
		g.logger.Info("economy: stored totals recovered", "soft", g.totals.Soft, "premium", g.totals.Premium)
	}
	return snapshot{totals: g.totals, version: g.version}, nil
}

// SetDebounce changes the coalescing window for credits not yet scheduled.
// Negative durations are ignored.
func (g *Gateway) SetDebounce(d time.Duration) {
	if d < 0 {
		return
	}
	g.mu.Lock()
	g.debounce = d
	g.mu.Unlock()
}

// Debounce returns the coalescing window.
func (g *Gateway) Debounce() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.debounce
}

// Totals returns the in-memory totals.
func (g *Gateway) Totals() Totals {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.totals
}

// Credit adds amount to a currency and schedules a durable write.
// Negative amounts and unknown currencies are refused without side effects.
func (g *Gateway) Credit(c Currency, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: %d %s", ErrNegativeAmount, amount, c)
	}
	if !known(c) {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, c)
	}
	if amount == 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.totals.add(c, amount)
	g.version++
	if !g.dirty {
		g.dirty = true
		g.dueAt = g.now().Add(g.debounce)
	}
	return nil
}

// Pending reports whether credits are waiting for a durable write.
func (g *Gateway) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dirty
}

// Pump hands the totals to the writer once the debounce window has passed.
// It never blocks on storage; the frame loop calls it every tick.
func (g *Gateway) Pump() {
	g.mu.Lock()
	if g.closed || !g.dirty || g.now().Before(g.dueAt) {
		g.mu.Unlock()
		return
	}
	s := snapshot{totals: g.totals, version: g.version}
	g.dirty = false
	g.mu.Unlock()

	g.enqueue(s)
}

// Flush makes pending credits due now and pumps them, without waiting for
// the write.
func (g *Gateway) Flush() {
	g.mu.Lock()
	if g.dirty {
		g.dueAt = g.now()
	}
	g.mu.Unlock()
	g.Pump()
}

// FlushNow writes the current totals synchronously.
func (g *Gateway) FlushNow(ctx context.Context) error {
	g.mu.Lock()
	s := snapshot{totals: g.totals, version: g.version}
	g.dirty = false
	g.mu.Unlock()

	if err := g.write(ctx, s); err != nil {
		g.markDirty()
		return fmt.Errorf("economy: flush: %w", err)
	}
	return nil
}

// Writes returns how many durable writes succeeded.
func (g *Gateway) Writes() int {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	return g.writes
}

// Close stops the writer after it drains any queued snapshot.
// It does not flush; call FlushNow first to persist pending credits.
func (g *Gateway) Close() error {
	g.once.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()
		close(g.done)
	})
	g.wg.Wait()
	return nil
}

// enqueue replaces any stale queued snapshot with s.
func (g *Gateway) enqueue(s snapshot) {
	for {
		select {
		case g.queue <- s:
			return
		default:
		}
		select {
		case <-g.queue:
		default:
		}
	}
}

func (g *Gateway) writer() {
	defer g.wg.Done()
	for {
		select {
		case s := <-g.queue:
			g.writeAsync(s)
		case <-g.done:
			select {
			case s := <-g.queue:
				g.writeAsync(s)
			default:
			}
			return
		}
	}
}

func (g *Gateway) writeAsync(s snapshot) {
	if err := g.write(context.Background(), s); err != nil {
		g.logger.Warn("economy: save failed, will retry", "error", err)
		g.markDirty()
	}
}

// write persists s unless a newer snapshot already landed.
func (g *Gateway) write(ctx context.Context, s snapshot) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if s.version < g.saved {
		return nil
	}
	g.mu.Lock()
	unread := g.unread
	g.mu.Unlock()
	if unread {
		merged, err := g.reread(ctx)
		if err != nil {
			return err
		}
		s = merged
	}
	if err := g.store.SaveTotals(ctx, s.totals.toMap()); err != nil {
		return err
	}
	g.saved = s.version
	g.writes++
	return nil
}

// markDirty schedules a retry on the next coalesced flush.
func (g *Gateway) markDirty() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.dirty {
		g.dirty = true
		g.dueAt = g.now().Add(g.debounce)
	}
}

func known(c Currency) bool {
	for _, k := range Currencies {
		if k == c {
			return true
		}
	}
	return false
}
