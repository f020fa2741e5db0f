package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/arena-survival/internal/economy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestWalletRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	totals, err := store.LoadTotals(ctx)
	if err != nil {
		t.Fatalf("LoadTotals() on empty db failed: %v", err)
	}
	if len(totals) != 0 {
		t.Errorf("empty wallet = %v", totals)
	}

	if err := store.SaveTotals(ctx, map[string]int64{"soft": 150, "premium": 2}); err != nil {
		t.Fatalf("SaveTotals() failed: %v", err)
	}
	if err := store.SaveTotals(ctx, map[string]int64{"soft": 400}); err != nil {
		t.Fatalf("SaveTotals() overwrite failed: %v", err)
	}

	totals, err = store.LoadTotals(ctx)
	if err != nil {
		t.Fatalf("LoadTotals() failed: %v", err)
	}
	if totals["soft"] != 400 || totals["premium"] != 2 {
		t.Errorf("totals = %v, want soft=400 premium=2", totals)
	}
}

func TestWalletBacksGateway(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	g := economy.New(store)
	g.Load(ctx)
	if err := g.Credit(economy.Soft, 75); err != nil {
		t.Fatalf("Credit() failed: %v", err)
	}
	if err := g.FlushNow(ctx); err != nil {
		t.Fatalf("FlushNow() failed: %v", err)
	}
	g.Close()

	reloaded := economy.New(store)
	defer reloaded.Close()
	if got := reloaded.Load(ctx).Soft; got != 75 {
		t.Errorf("reloaded soft = %d, want 75", got)
	}
}

func TestStoreSaveAndRankRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{Variant: "bluezone", Phase: 2, Survived: 40 * time.Second},
		{Variant: "bluezone", Phase: 4, Survived: 95 * time.Second, Soft: 300},
		{Variant: "bluezone", Phase: 1, Survived: 12 * time.Second},
		{Variant: "crates", Phase: 3, Survived: 61 * time.Second, Kills: 14},
	}
	for _, r := range runs {
		id, err := store.SaveRun(r)
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("run id %q is not a UUID: %v", id, err)
		}
	}

	top, err := store.TopRuns("bluezone", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}
	want := []time.Duration{95 * time.Second, 40 * time.Second, 12 * time.Second}
	for i, w := range want {
		if top[i].Survived != w {
			t.Errorf("top[%d].Survived = %v, want %v", i, top[i].Survived, w)
		}
	}
	if top[0].Soft != 300 || top[0].Phase != 4 {
		t.Errorf("best run = %+v", top[0])
	}

	limited, err := store.TopRuns("bluezone", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 runs with limit, got %d", len(limited))
	}
}

func TestStoreBestRun(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestRun("smgstorm")
	if err != nil {
		t.Fatalf("BestRun() failed: %v", err)
	}
	if best != nil {
		t.Errorf("Expected no best run, got %+v", best)
	}

	store.SaveRun(RunRecord{Variant: "smgstorm", Phase: 3, Survived: 70 * time.Second})
	store.SaveRun(RunRecord{Variant: "smgstorm", Phase: 5, Survived: 130 * time.Second})

	best, err = store.BestRun("smgstorm")
	if err != nil {
		t.Fatalf("BestRun() failed: %v", err)
	}
	if best == nil || best.Phase != 5 {
		t.Errorf("BestRun() = %+v, want phase 5", best)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Variant: "bluezone", Phase: 1, Survived: time.Second})
	store.SaveRun(RunRecord{Variant: "crates", Phase: 1, Survived: time.Second})

	if err := store.ClearRuns("bluezone"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	blue, _ := store.TopRuns("bluezone", 10)
	if len(blue) != 0 {
		t.Errorf("Expected 0 bluezone runs after clear, got %d", len(blue))
	}
	crates, _ := store.TopRuns("crates", 10)
	if len(crates) != 1 {
		t.Errorf("crates runs should not be affected by clearing bluezone")
	}
}

func TestVariantStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetVariantStats("crates")
	if err != nil {
		t.Fatalf("GetVariantStats() failed: %v", err)
	}
	if empty.Runs != 0 || empty.BestSurvived != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveRun(RunRecord{Variant: "crates", Phase: 2, Survived: 20 * time.Second, Kills: 5, Soft: 50})
	store.SaveRun(RunRecord{Variant: "crates", Phase: 4, Survived: 40 * time.Second, Kills: 15, Soft: 150, Premium: 5})
	store.SaveRun(RunRecord{Variant: "bluezone", Phase: 1, Survived: 5 * time.Second})

	stats, err := store.GetVariantStats("crates")
	if err != nil {
		t.Fatalf("GetVariantStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.BestPhase != 4 || stats.TotalKills != 20 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.BestSurvived != 40*time.Second || stats.AvgSurvived != 30*time.Second {
		t.Errorf("survived best=%v avg=%v, want 40s and 30s", stats.BestSurvived, stats.AvgSurvived)
	}
	if stats.SoftEarned != 200 || stats.PremEarned != 5 {
		t.Errorf("earned soft=%d premium=%d", stats.SoftEarned, stats.PremEarned)
	}

	all, err := store.GetAllVariantStats()
	if err != nil {
		t.Fatalf("GetAllVariantStats() failed: %v", err)
	}
	if len(all) != 2 || all["bluezone"].Runs != 1 {
		t.Errorf("all stats = %v", all)
	}
}
