package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/arena-survival/internal/core"
)

const frame = 16 * time.Millisecond

func TestSingleHitPerInvulnWindow(t *testing.T) {
	w := newTestWorld(t, testConfig())
	place(t, w, "A", w.st.Player.Pos)

	run(w, 3, frame)

	if got := w.st.Player.HP; got != 94 {
		t.Errorf("HP = %v, want 94", got)
	}
	if w.st.Player.Invuln <= 0 {
		t.Error("expected an open invulnerability window")
	}
}

func TestDamageSummedOnce(t *testing.T) {
	w := newTestWorld(t, testConfig())
	center := w.st.Player.Pos

	place(t, w, "A", center)
	for i := 0; i < 2; i++ {
		w.st.AddHazard(Hazard{Kind: "zone", Behavior: HazardZone, Pos: center, Radius: 50})
	}
	w.st.Projectiles = append(w.st.Projectiles, Projectile{
		Pos: center, Radius: 3, Owner: OwnerHazard, Damage: 8, ExpiresAt: time.Hour,
	})

	run(w, 1, frame)

	// contact 6 + two zones at 6 per tick + one projectile at 8
	if got := w.st.Player.HP; got != 100-6-12-8 {
		t.Errorf("HP = %v, want %v", got, 100-6-12-8)
	}
	if got := len(w.st.Projectiles); got != 0 {
		t.Errorf("projectile not consumed, %d left", got)
	}

	hits := 0
	for _, ev := range w.events {
		if ev.Kind == EventHit {
			hits++
		}
	}
	if hits != 1 {
		t.Errorf("hit events = %d, want 1", hits)
	}
}

func TestProjectilesPassThroughWhileInvulnerable(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.st.Player.Invuln = time.Second
	w.st.Projectiles = append(w.st.Projectiles, Projectile{
		Pos: w.st.Player.Pos, Radius: 3, Owner: OwnerHazard, Damage: 8, ExpiresAt: time.Hour,
	})

	w.resolve()

	if w.st.Player.HP != 100 {
		t.Errorf("HP = %v, want 100", w.st.Player.HP)
	}
	if w.st.Projectiles[0].Dead {
		t.Error("projectile consumed during invulnerability")
	}
}

func TestZoneHarmlessUntilArmed(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.st.AddHazard(Hazard{
		Kind: "zone", Behavior: HazardZone, Pos: w.st.Player.Pos, Radius: 50,
		ArmedAt: 100 * time.Millisecond, ExpiresAt: time.Hour,
	})

	run(w, 5, frame)
	if w.st.Player.HP != 100 {
		t.Fatalf("HP = %v before arming, want 100", w.st.Player.HP)
	}

	run(w, 3, frame)
	if w.st.Player.HP != 94 {
		t.Errorf("HP = %v after arming, want 94", w.st.Player.HP)
	}
}

func TestRingZoneSpareCentre(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.st.AddHazard(Hazard{
		Kind: "zone", Behavior: HazardZone, Pos: w.st.Player.Pos, Radius: 60, Inner: 40,
		ExpiresAt: time.Hour,
	})

	run(w, 5, frame)

	if w.st.Player.HP != 100 {
		t.Errorf("HP = %v inside the ring hole, want 100", w.st.Player.HP)
	}
}

func TestHPNeverNegative(t *testing.T) {
	cfg := testConfig()
	a := cfg.Hazards["A"]
	a.ContactDamage = 500
	cfg.Hazards["A"] = a

	w := newTestWorld(t, cfg)
	place(t, w, "A", w.st.Player.Pos)
	place(t, w, "A", w.st.Player.Pos)

	run(w, 10, frame)

	if w.st.Player.HP != 0 {
		t.Errorf("HP = %v, want 0", w.st.Player.HP)
	}
	if !w.st.Dead {
		t.Error("expected dead player")
	}
	if got := w.st.LatestAlert(); got != "YOU DIED" {
		t.Errorf("alert = %q, want YOU DIED", got)
	}

	elapsed := w.st.Elapsed
	run(w, 10, frame)
	if w.st.Elapsed != elapsed {
		t.Error("simulation advanced after death")
	}
}

func TestHealCappedAtMax(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.st.Player.HP = 80
	at := w.st.Player.Pos
	if !w.spawner.SpawnPickup(w.st, "heal", &at) {
		t.Fatal("SpawnPickup(heal) failed")
	}

	w.resolve()

	if got := w.st.Player.HP; got != 100 {
		t.Errorf("HP = %v, want 100", got)
	}
	if !w.st.Pickups[0].Dead {
		t.Error("pickup not collected")
	}
}

func TestSoftPickupCredits(t *testing.T) {
	w := newTestWorld(t, testConfig())
	at := w.st.Player.Pos
	w.spawner.SpawnPickup(w.st, "soft", &at)

	w.resolve()

	if got := w.ledger.Totals().Soft; got != 50 {
		t.Errorf("ledger soft = %d, want 50", got)
	}
	if w.st.Player.Soft != 50 {
		t.Errorf("run soft = %d, want 50", w.st.Player.Soft)
	}
}

func TestPhaseAdvanceAndCredit(t *testing.T) {
	w := newTestWorld(t, testConfig())

	// 1750 frames of 16ms is exactly 28s
	run(w, 1750, frame)

	if w.st.Phase.Phase != 2 {
		t.Errorf("Phase = %d, want 2", w.st.Phase.Phase)
	}
	if w.st.Phase.NextAt != 56*time.Second {
		t.Errorf("NextAt = %v, want 56s", w.st.Phase.NextAt)
	}
	if got := w.ledger.Totals().Soft; got != 100 {
		t.Errorf("soft = %d, want 100 for one phase", got)
	}
	if got := w.st.LatestAlert(); got != "PHASE 2" {
		t.Errorf("alert = %q, want PHASE 2", got)
	}
}

func TestKillRewardsAndCounts(t *testing.T) {
	w := newTestWorld(t, testConfig())
	h := place(t, w, "T", core.V(100, 100))
	w.st.Projectiles = append(w.st.Projectiles,
		Projectile{Pos: h.Pos, Radius: 2, Owner: OwnerPlayer, Damage: 20, ExpiresAt: time.Hour},
		Projectile{Pos: h.Pos, Radius: 2, Owner: OwnerPlayer, Damage: 20, ExpiresAt: time.Hour},
	)

	w.resolvePlayerFire()

	if !w.st.Hazards[0].Dead {
		t.Fatal("hazard survived 40 damage with 30 hp")
	}
	if w.st.Kills != 1 {
		t.Errorf("Kills = %d, want 1", w.st.Kills)
	}
	if got := w.ledger.Totals().Soft; got != 10 {
		t.Errorf("soft = %d, want 10", got)
	}
}

func TestIndestructibleIgnoresBullets(t *testing.T) {
	w := newTestWorld(t, testConfig())
	h := place(t, w, "A", core.V(100, 100))
	w.st.Projectiles = append(w.st.Projectiles,
		Projectile{Pos: h.Pos, Radius: 2, Owner: OwnerPlayer, Damage: 20, ExpiresAt: time.Hour})

	w.resolvePlayerFire()

	if w.st.Hazards[0].Dead {
		t.Error("indestructible hazard died")
	}
	if w.st.Projectiles[0].Dead {
		t.Error("bullet consumed by indestructible hazard")
	}
}

func TestPlayerStaysInBounds(t *testing.T) {
	w := newTestWorld(t, testConfig())
	var in InputSnapshot
	in.Held[core.ActionMoveLeft] = true
	in.Held[core.ActionMoveUp] = true

	for i := 0; i < 600; i++ {
		w.step(in, frame)
	}

	p := w.st.Player
	if p.Pos.X != p.Radius || p.Pos.Y != p.Radius {
		t.Errorf("player at %v, want clamped to (%v, %v)", p.Pos, p.Radius, p.Radius)
	}
	if p.Facing == core.DirNone {
		t.Error("facing not updated")
	}
}

func TestPlayerFireAutoAim(t *testing.T) {
	cfg := testConfig()
	cfg.Player.Weapon = testWeapon()
	w := newTestWorld(t, cfg)
	place(t, w, "T", w.st.Player.Pos.Add(core.V(0, -200)))

	var in InputSnapshot
	in.Held[core.ActionFire] = true
	w.playerFire(in)
	w.playerFire(in)

	if got := len(w.st.Projectiles); got != 1 {
		t.Fatalf("projectiles = %d, want 1 (cooldown)", got)
	}
	v := w.st.Projectiles[0].Vel
	if v.X != 0 || v.Y >= 0 {
		t.Errorf("bullet velocity %v does not point at the hazard", v)
	}
}

func TestGrenadeHurtsBoth(t *testing.T) {
	cfg := testConfig()
	cfg.Player.Grenades.Enabled = true
	cfg.Player.Grenades.Start = 1
	cfg.Player.Grenades.Max = 3
	cfg.Player.Grenades.FuseMs = 100
	cfg.Player.Grenades.Radius = 80
	cfg.Player.Grenades.Damage = 100
	cfg.Player.Grenades.SelfDamage = 35
	cfg.Player.Grenades.Friction = 0.5
	w := newTestWorld(t, cfg)
	place(t, w, "T", w.st.Player.Pos.Add(core.V(30, 0)))

	var in InputSnapshot
	in.Pressed[core.ActionGrenade] = true
	w.step(in, frame)
	if w.st.Player.Grenade != 0 || len(w.st.Grenades) != 1 {
		t.Fatalf("grenade not thrown: charges=%d live=%d", w.st.Player.Grenade, len(w.st.Grenades))
	}

	run(w, 10, frame)

	if w.st.Kills != 1 {
		t.Errorf("Kills = %d, want 1", w.st.Kills)
	}
	if w.st.Player.HP != 65 {
		t.Errorf("HP = %v, want 65", w.st.Player.HP)
	}
}
