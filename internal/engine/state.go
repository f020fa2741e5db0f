package engine

import (
	"time"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
)

// Player is the controlled body.
type Player struct {
	Pos     core.Vec2
	Radius  float64
	HP      float64
	MaxHP   float64
	Speed   float64
	Facing  core.Direction
	Invuln  time.Duration // Remaining invulnerability
	Aim     core.Vec2     // Last aim direction, unit length
	FireAt  time.Duration // Next allowed shot, run clock
	Boost   int           // Boosted shots left from an ammo pickup
	Grenade int           // Grenade charges

	// Currency earned during this run.
	Soft    int64
	Premium int64
}

// Owner identifies who fired a projectile.
type Owner uint8

const (
	OwnerHazard Owner = iota
	OwnerPlayer
)

// Hazard is any entity that can hurt the player.
type Hazard struct {
	ID       uint64
	Kind     string
	Behavior HazardBehavior
	Pos      core.Vec2
	Vel      core.Vec2 // Unit heading for drifters and turrets
	Radius   float64
	Inner    float64 // Ring zones: inner radius. Zero for solid shapes.
	HP       float64 // Zero for indestructible hazards
	MaxHP    float64
	Speed    float64 // Base speed before the phase multiplier

	BornAt    time.Duration
	ArmedAt   time.Duration // Zones are harmless before this
	ExpiresAt time.Duration // Zero means no lifetime

	ContactAt time.Duration // Next allowed contact hit
	FireAt    time.Duration
	Shots     int
	Wobble    float64
	WobbleT   float64

	Glyph string
	Color core.Color
	Dead  bool

	def *config.HazardDef
}

// Destructible reports whether player fire can kill the hazard.
func (h *Hazard) Destructible() bool {
	return h.MaxHP > 0
}

// Projectile is a bullet fired by the player or a hazard.
type Projectile struct {
	Pos       core.Vec2
	Vel       core.Vec2 // Units per second
	Radius    float64
	ExpiresAt time.Duration
	Owner     Owner
	Damage    float64
	Dead      bool
}

// Pickup is a collectible.
type Pickup struct {
	Kind      PickupKind
	Pos       core.Vec2
	Radius    float64
	Value     float64
	FallSpeed float64
	BornAt    time.Duration
	ExpiresAt time.Duration
	Progress  float64 // Fade-in progress in [0, 1]
	Glyph     string
	Color     core.Color
	Dead      bool
}

// Grenade is a thrown explosive.
type Grenade struct {
	Pos       core.Vec2
	Vel       core.Vec2
	ExplodeAt time.Duration
	Dead      bool
}

// EffectKind tags transient visuals.
type EffectKind uint8

const (
	EffectAlert EffectKind = iota // Centered banner text
	EffectBlast                   // Grenade explosion
	EffectHit                     // Damage flash at a position
)

// Effect is a visual that lives until ExpiresAt and is retired by the
// same sweep as every other entity.
type Effect struct {
	Kind      EffectKind
	Text      string
	Pos       core.Vec2
	Radius    float64
	Color     core.Color
	ExpiresAt time.Duration
}

// RunState is everything that belongs to one run. A new run gets a fresh
// value; nothing is carried over.
type RunState struct {
	Player      Player
	Hazards     []Hazard
	Projectiles []Projectile
	Pickups     []Pickup
	Grenades    []Grenade
	Effects     []Effect

	Phase   PhaseScheduler
	Elapsed time.Duration
	Running bool
	Dead    bool
	Kills   int
	Debug   bool // Hitbox overlay, toggled by the debug action

	areaTickAt [behaviorCount]time.Duration
	nextID     uint64
}

// NewRunState creates the state for a fresh run with the player centred.
func NewRunState(cfg *config.ArenaConfig) *RunState {
	bounds := core.Bounds{W: cfg.Arena.Width, H: cfg.Arena.Height}
	st := &RunState{
		Player: Player{
			Pos:    bounds.Center(),
			Radius: cfg.Player.Radius,
			HP:     cfg.Player.MaxHP,
			MaxHP:  cfg.Player.MaxHP,
			Speed:  cfg.Player.Speed,
			Aim:    core.V(1, 0),
		},
		Phase: NewPhaseScheduler(cfg.Phase),
	}
	if cfg.Player.Grenades.Enabled {
		st.Player.Grenade = cfg.Player.Grenades.Start
	}
	return st
}

// AddHazard appends h with a fresh id and returns the id.
func (st *RunState) AddHazard(h Hazard) uint64 {
	st.nextID++
	h.ID = st.nextID
	st.Hazards = append(st.Hazards, h)
	return h.ID
}

// CountKind returns the live hazards of a kind.
func (st *RunState) CountKind(kind string) int {
	n := 0
	for i := range st.Hazards {
		if !st.Hazards[i].Dead && st.Hazards[i].Kind == kind {
			n++
		}
	}
	return n
}

// LiveHazards returns the number of live mobile hazards.
func (st *RunState) LiveHazards() int {
	n := 0
	for i := range st.Hazards {
		h := &st.Hazards[i]
		if !h.Dead && !behaviors[h.Behavior].area {
			n++
		}
	}
	return n
}

// Alert adds a banner effect.
func (st *RunState) Alert(text string, c core.Color, d time.Duration) {
	st.Effects = append(st.Effects, Effect{
		Kind:      EffectAlert,
		Text:      text,
		Color:     c,
		ExpiresAt: st.Elapsed + d,
	})
}

// LatestAlert returns the newest live banner text.
func (st *RunState) LatestAlert() string {
	for i := len(st.Effects) - 1; i >= 0; i-- {
		if st.Effects[i].Kind == EffectAlert {
			return st.Effects[i].Text
		}
	}
	return ""
}
