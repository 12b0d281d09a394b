package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkvammen/fieldplan/internal/config"
	"github.com/mkvammen/fieldplan/internal/export"
	"github.com/mkvammen/fieldplan/internal/faults"
	"github.com/mkvammen/fieldplan/internal/planner"
	"github.com/mkvammen/fieldplan/internal/report"
	"github.com/mkvammen/fieldplan/internal/repository"
	"github.com/mkvammen/fieldplan/internal/sqlite"
)

type testEnv struct {
	dir     string
	db      *sqlite.DB
	archive *sqlite.PlanArchive
	planner *planner.Planner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	return &testEnv{
		dir:     t.TempDir(),
		db:      db,
		archive: sqlite.NewPlanArchive(db),
		planner: planner.NewPlanner(nil),
	}
}

// loadConfig reads the fixture at path and points its artifacts into the
// environment's scratch directory.
func (e *testEnv) loadConfig(t *testing.T, path string) config.Config {
	t.Helper()
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Output.DeckPath = filepath.Join(e.dir, "deck.json")
	cfg.Output.ReportDir = filepath.Join(e.dir, "reports")
	return cfg
}

func (e *testEnv) writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readDeck(t *testing.T, path string) export.Deck {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var deck export.Deck
	require.NoError(t, json.Unmarshal(data, &deck))
	return deck
}

func TestIntegration_ConfiguredPlan(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	cfg := env.loadConfig(t, filepath.Join("testdata", "vestfold.yaml"))

	plan, err := env.planner.Run(ctx, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, plan.RunID)
	require.Equal(t, "Vestfold", plan.Field)
	require.Equal(t, 730, plan.Horizon)

	// Completion design lands three intervals per well with the expected
	// Peaceman numbers for 100x100 m isotropic cells.
	p1, ok := plan.Well("P-1")
	require.True(t, ok)
	require.Len(t, p1.Completions, 3)
	upper := p1.Completions[0]
	require.Equal(t, "Upper Sand", upper.Zone)
	require.Equal(t, "Middle Sand", p1.Completions[1].Zone)
	require.Equal(t, "Lower Sand", p1.Completions[2].Zone)
	require.InDelta(t, 19.79899, upper.Index.EquivRadius, 1e-4)
	require.InDelta(t, 1.41121e-12, upper.Index.Value, 1e-16)

	// Hysteresis thresholds derive from the configured limits and margins:
	// producers above the BHP floor, injectors below the BHP ceiling.
	require.Equal(t, 1450.0, plan.Policies["P-1"].RateToBHP)
	require.Equal(t, 1520.0, plan.Policies["P-1"].BHPToRate)
	require.Equal(t, 4950.0, plan.Policies["I-1"].RateToBHP)
	require.Equal(t, 4850.0, plan.Policies["I-1"].BHPToRate)

	require.NoError(t, export.WriteFile(cfg.Output.DeckPath, plan))
	require.NoError(t, report.WriteCSVs(cfg.Output.ReportDir, plan))
	require.NoError(t, report.Render(io.Discard, plan))

	deck := readDeck(t, cfg.Output.DeckPath)
	require.Equal(t, plan.RunID, deck.Run)
	require.Len(t, deck.Wells, 2)
	require.Len(t, deck.Schedule, len(plan.Steps))

	require.FileExists(t, filepath.Join(cfg.Output.ReportDir, "zones.csv"))
	require.FileExists(t, filepath.Join(cfg.Output.ReportDir, "wells.csv"))
	require.FileExists(t, filepath.Join(cfg.Output.ReportDir, "timeline.csv"))

	require.NoError(t, env.archive.SaveRun(ctx, plan))
	loaded, err := env.archive.GetRun(ctx, plan.RunID)
	require.NoError(t, err)
	require.True(t, loaded.CreatedAt.Equal(plan.CreatedAt))
	loaded.CreatedAt = plan.CreatedAt
	require.Equal(t, plan, loaded)
}

func TestIntegration_FifteenWellProgram(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	cfg := env.loadConfig(t, env.writeConfig(t, fifteenWellConfig()))

	plan, err := env.planner.Run(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, plan.Wells, 15)
	require.Equal(t, 1095, plan.Horizon)

	require.Len(t, plan.Phases, 3)
	require.Equal(t, 1, plan.Phases[0].StartDay)
	require.Equal(t, 1095, plan.Phases[2].EndDay)
	require.Len(t, plan.Phases[0].Active, 5)
	require.Len(t, plan.Phases[1].Active, 10)
	require.Len(t, plan.Phases[2].Active, 15)

	require.NoError(t, export.WriteFile(cfg.Output.DeckPath, plan))
	deck := readDeck(t, cfg.Output.DeckPath)

	names := make(map[string]bool)
	for _, w := range deck.Wells {
		names[w.Name] = true
	}
	require.Len(t, names, 15)

	total := 0
	for _, s := range deck.Schedule {
		total += s.Days
	}
	require.Equal(t, plan.Horizon, total)

	require.NoError(t, env.archive.SaveRun(ctx, plan))
	runs, err := env.archive.ListRuns(ctx, repository.ListRunsOptions{Field: "Grane"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, 15, runs[0].Wells)
	require.Equal(t, 3, runs[0].Phases)
}

func TestIntegration_VoidageImbalance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	over := env.loadConfig(t, filepath.Join("testdata", "vestfold.yaml"))
	over.Phases[1].InjectionTargetSM3D = 2640

	_, err := env.planner.Run(ctx, over)
	require.ErrorIs(t, err, faults.ErrConfiguration)
	require.ErrorContains(t, err, "would reduce-injection")

	under := env.loadConfig(t, filepath.Join("testdata", "vestfold.yaml"))
	under.Phases[1].InjectionTargetSM3D = 1800

	_, err = env.planner.Run(ctx, under)
	require.ErrorIs(t, err, faults.ErrConfiguration)
	require.ErrorContains(t, err, "would increase-injection")
}

func fifteenWellConfig() string {
	var b strings.Builder
	b.WriteString(`field:
  name: Grane
  horizon_years: 3
  pressure_envelope: {min_psi: 500, max_psi: 6000}
grid:
  nx: 20
  ny: 20
  nz: 10
  cell_dx_m: 100
  cell_dy_m: 100
  cell_dz_m: 10
  top_depth_m: 2000
  layers:
`)
	for i := 0; i < 10; i++ {
		b.WriteString("    - {perm_x_md: 200, perm_y_md: 200, perm_z_md: 20, porosity: 0.22, region: 1}\n")
	}

	b.WriteString("wells:\n  expected_producers: 10\n  expected_injectors: 5\n  items:\n")
	for n := 1; n <= 10; n++ {
		fmt.Fprintf(&b, `    - name: P-%d
      kind: producer
      trajectory: vertical
      i: %d
      j: %d
      skin: 3.5
      layers: [2, 5, 9]
      drilling_days: 40
      completion_days: 10
      control: {target_rate_sm3d: 1200, bhp_limit_psi: 1420, margin1_psi: 30, margin2_psi: 100}
`, n, 2*n, 2*n)
	}
	for n := 1; n <= 5; n++ {
		fmt.Fprintf(&b, `    - name: I-%d
      kind: injector
      trajectory: vertical
      i: %d
      j: %d
      layers: [8, 9, 10]
      drilling_days: 50
      completion_days: 15
      control: {target_rate_sm3d: 1800, bhp_limit_psi: 5000, margin1_psi: 50, margin2_psi: 150}
`, n, 2*n-1, 2*n-1)
	}

	b.WriteString(`phases:
  - name: Phase 1
    duration_years: 1
    add_wells: [P-1, P-2, P-3, P-4, I-1]
    oil_target_sm3d: 2000
  - name: Phase 2
    duration_years: 1
    add_wells: [P-5, P-6, P-7, P-8, I-2]
    oil_target_sm3d: 3500
  - name: Phase 3
    duration_years: 1
    add_wells: [P-9, P-10, I-3, I-4, I-5]
    oil_target_sm3d: 5000
log:
  level: error
`)
	return b.String()
}
