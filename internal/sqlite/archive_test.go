package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mkvammen/fieldplan/internal/domain/control"
	"github.com/mkvammen/fieldplan/internal/domain/grid"
	"github.com/mkvammen/fieldplan/internal/domain/schedule"
	"github.com/mkvammen/fieldplan/internal/domain/well"
	"github.com/mkvammen/fieldplan/internal/planner"
	"github.com/mkvammen/fieldplan/internal/repository"
)

func testPlan(runID string, created time.Time) *planner.Plan {
	producerPolicy := control.Policy{
		Well:        "P-1",
		Kind:        well.KindProducer,
		Mode:        control.ModeRate,
		TargetRate:  1200,
		BHPLimit:    1420,
		RateToBHP:   1450,
		BHPToRate:   1520,
		MaxWaterCut: 0.95,
		MaxGOR:      2000,
	}
	injectorPolicy := control.Policy{
		Well:       "I-1",
		Kind:       well.KindInjector,
		Mode:       control.ModeRate,
		TargetRate: 1800,
		BHPLimit:   5000,
		RateToBHP:  4950,
		BHPToRate:  4850,
	}

	producer := well.Well{
		Name:       "P-1",
		Kind:       well.KindProducer,
		Trajectory: well.TrajectoryVertical,
		I:          5,
		J:          5,
		SurfaceX:   450,
		SurfaceY:   450,
		Radius:     0.1,
		Skin:       3.5,
		Layers:     []int{2, 5},
		TVD:        2050,
		MD:         2050,
		Completions: []well.CompletionInterval{
			{
				Cell:          grid.Cell{I: 5, J: 5, K: 2},
				Zone:          "Upper Sand",
				Direction:     well.DirectionZ,
				TopDepth:      2010,
				BottomDepth:   2020,
				NetPay:        10,
				SegmentLength: 10,
				Perm:          grid.Perm{X: 200, Y: 200, Z: 20},
				Index:         well.WellIndex{Value: 1.41121e-12, EquivRadius: 19.79899, GeomFactor: 8.78822},
			},
			{
				Cell:          grid.Cell{I: 5, J: 5, K: 5},
				Zone:          "Middle Sand",
				Direction:     well.DirectionZ,
				TopDepth:      2040,
				BottomDepth:   2050,
				NetPay:        10,
				SegmentLength: 10,
				Perm:          grid.Perm{X: 200, Y: 200, Z: 20},
				Index:         well.WellIndex{Value: 1.41121e-12, EquivRadius: 19.79899, GeomFactor: 8.78822},
			},
		},
	}
	injector := well.Well{
		Name:       "I-1",
		Kind:       well.KindInjector,
		Trajectory: well.TrajectoryHorizontal,
		I:          15,
		J:          15,
		SurfaceX:   1450,
		SurfaceY:   1450,
		Radius:     0.1,
		Laterals:   []well.Lateral{{Layer: 8, ToeDX: 400, ToeDY: -3}},
		TVD:        2075,
		MD:         2475,
		Completions: []well.CompletionInterval{
			{
				Cell:          grid.Cell{I: 15, J: 15, K: 8},
				Zone:          "Lower Sand",
				Direction:     well.DirectionX,
				TopDepth:      2070,
				BottomDepth:   2080,
				NetPay:        10,
				SegmentLength: 400.011,
				Perm:          grid.Perm{X: 200, Y: 200, Z: 20},
				Index:         well.WellIndex{Value: 2.5282e-11, EquivRadius: 7.0554, GeomFactor: 4.2559},
			},
		},
	}

	return &planner.Plan{
		RunID:     runID,
		Field:     "Vestfold",
		CreatedAt: created,
		Horizon:   730,
		Grid: planner.GridSummary{
			NX: 20, NY: 20, NZ: 10,
			CellX: 100, CellY: 100, CellZ: 10,
			TopDepth: 2000,
		},
		Wells: []well.Well{producer, injector},
		Policies: map[string]control.Policy{
			"P-1": producerPolicy,
			"I-1": injectorPolicy,
		},
		Phases: []schedule.Phase{
			{Index: 1, Name: "Startup", StartDay: 1, EndDay: 365,
				AddWells: []string{"P-1"}, Active: []string{"P-1"},
				OilTarget: 1000},
			{Index: 2, Name: "Waterflood", StartDay: 366, EndDay: 730,
				AddWells: []string{"I-1"}, Active: []string{"I-1", "P-1"},
				OilTarget: 1800, InjectionTarget: 2160, VRRTarget: 1.0},
		},
		Activations: []schedule.Activation{
			{Well: "P-1", Phase: 1, DrillStart: 1, Startup: 51},
			{Well: "I-1", Phase: 2, DrillStart: 366, Startup: 416},
		},
		Milestones: []schedule.Milestone{
			{Day: 1, Kind: schedule.MilestonePhaseStart, Label: "Startup starts"},
			{Day: 1, Kind: schedule.MilestoneDrillStart, Label: "P-1 spuds", Well: "P-1"},
			{Day: 51, Kind: schedule.MilestoneStartup, Label: "P-1 on stream", Well: "P-1"},
			{Day: 365, Kind: schedule.MilestoneCheckpoint, Label: "day 365 checkpoint"},
		},
		Steps: []schedule.Step{
			{Index: 1, Phase: 1, StartDay: 1, Days: 91,
				Targets: schedule.FieldTargets{Oil: 1000}},
			{Index: 2, Phase: 1, StartDay: 92, Days: 91,
				Targets:  schedule.FieldTargets{Oil: 1000},
				Controls: []control.Policy{producerPolicy}},
			{Index: 3, Phase: 2, StartDay: 366, Days: 365,
				Targets:  schedule.FieldTargets{Oil: 1800, Injection: 2160, VRR: 1.0},
				Controls: []control.Policy{injectorPolicy, producerPolicy}},
		},
	}
}

func TestPlanArchive_SaveGetRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	archive := NewPlanArchive(db)

	created := time.Date(2026, 3, 14, 9, 30, 0, 123456789, time.UTC)
	plan := testPlan("run-1", created)
	require.NoError(t, archive.SaveRun(ctx, plan))

	loaded, err := archive.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, loaded.CreatedAt.Equal(plan.CreatedAt))
	loaded.CreatedAt = plan.CreatedAt
	require.Equal(t, plan, loaded)
}

func TestPlanArchive_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	archive := NewPlanArchive(db)

	_, err := archive.GetRun(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanArchive_DuplicateRun(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	archive := NewPlanArchive(db)

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, archive.SaveRun(ctx, testPlan("run-1", created)))

	err := archive.SaveRun(ctx, testPlan("run-1", created.Add(time.Hour)))
	require.ErrorIs(t, err, repository.ErrDuplicateRun)
}

func TestPlanArchive_ListRuns(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	archive := NewPlanArchive(db)

	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, archive.SaveRun(ctx, testPlan("run-1", base)))
	require.NoError(t, archive.SaveRun(ctx, testPlan("run-2", base.Add(time.Hour))))

	other := testPlan("run-3", base.Add(2*time.Hour))
	other.Field = "Brage"
	require.NoError(t, archive.SaveRun(ctx, other))

	all, err := archive.ListRuns(ctx, repository.ListRunsOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "run-3", all[0].RunID, "newest run first")
	require.Equal(t, "run-1", all[2].RunID)

	require.Equal(t, 2, all[2].Wells)
	require.Equal(t, 2, all[2].Phases)
	require.Equal(t, 3, all[2].Steps)
	require.Equal(t, 730, all[2].Horizon)
	require.True(t, all[2].CreatedAt.Equal(base))

	vestfold, err := archive.ListRuns(ctx, repository.ListRunsOptions{Field: "Vestfold"})
	require.NoError(t, err)
	require.Len(t, vestfold, 2)
	require.Equal(t, "run-2", vestfold[0].RunID)

	newest, err := archive.ListRuns(ctx, repository.ListRunsOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, newest, 1)
	require.Equal(t, "run-3", newest[0].RunID)
}

func TestPlanArchive_ListEmpty(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	archive := NewPlanArchive(db)

	runs, err := archive.ListRuns(ctx, repository.ListRunsOptions{})
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestPlanArchive_DeleteRun(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	archive := NewPlanArchive(db)

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, archive.SaveRun(ctx, testPlan("run-1", created)))
	require.NoError(t, archive.DeleteRun(ctx, "run-1"))

	_, err := archive.GetRun(ctx, "run-1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count, "completion rows should cascade")

	require.ErrorIs(t, archive.DeleteRun(ctx, "run-1"), repository.ErrNotFound)
}
