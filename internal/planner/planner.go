// Package planner runs the field-planning pipeline end to end: grid
// construction, completion design, control-policy derivation, phase
// scheduling, and step assembly. It is the only package that maps raw
// configuration onto the domain types; everything downstream consumes the
// resulting Plan.
package planner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mkvammen/fieldplan/internal/config"
	"github.com/mkvammen/fieldplan/internal/domain/control"
	"github.com/mkvammen/fieldplan/internal/domain/grid"
	"github.com/mkvammen/fieldplan/internal/domain/schedule"
	"github.com/mkvammen/fieldplan/internal/domain/well"
	"github.com/mkvammen/fieldplan/internal/faults"
)

// Planner builds a Plan from validated configuration. Completion design is
// fanned out across workers; every other stage is sequential because each
// consumes the previous stage's output.
type Planner struct {
	logger  *slog.Logger
	workers int
}

// NewPlanner creates a planner. A nil logger discards all output.
func NewPlanner(logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Planner{logger: logger, workers: runtime.NumCPU()}
}

// Run executes the pipeline and returns a self-contained Plan with a fresh
// run ID. The input configuration is not retained.
func (p *Planner) Run(ctx context.Context, cfg config.Config) (*Plan, error) {
	started := time.Now()
	p.logger.Info("planning field", "field", cfg.Field.Name,
		"wells", len(cfg.Wells.Items), "phases", len(cfg.Phases))

	g, err := buildGrid(cfg.Grid)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}
	zones, err := buildZones(cfg.Zones, g.NZ())
	if err != nil {
		return nil, fmt.Errorf("building zone table: %w", err)
	}
	wells, timings, err := buildWells(cfg.Wells)
	if err != nil {
		return nil, err
	}
	if err := checkWellCounts(cfg.Wells, wells); err != nil {
		return nil, err
	}

	designed, err := p.designCompletions(ctx, g, zones, wells)
	if err != nil {
		return nil, fmt.Errorf("designing completions: %w", err)
	}
	p.logger.Info("completions designed", "wells", len(designed), "workers", p.workers)

	policies, err := buildPolicies(cfg, designed)
	if err != nil {
		return nil, fmt.Errorf("building control policies: %w", err)
	}
	tl, err := buildTimeline(cfg, timings, designed)
	if err != nil {
		return nil, fmt.Errorf("building timeline: %w", err)
	}
	if err := checkVoidage(cfg.Control, tl.Phases); err != nil {
		return nil, err
	}

	asm, err := schedule.NewAssembler(cfg.Schedule.StepDays)
	if err != nil {
		return nil, fmt.Errorf("assembling schedule: %w", err)
	}
	steps, err := asm.Assemble(tl, policies)
	if err != nil {
		return nil, fmt.Errorf("assembling schedule: %w", err)
	}

	plan := &Plan{
		RunID:     uuid.NewString(),
		Field:     cfg.Field.Name,
		CreatedAt: time.Now().UTC(),
		Horizon:   tl.Horizon,
		Grid: GridSummary{
			NX:       cfg.Grid.NX,
			NY:       cfg.Grid.NY,
			NZ:       cfg.Grid.NZ,
			CellX:    cfg.Grid.CellDXM,
			CellY:    cfg.Grid.CellDYM,
			CellZ:    cfg.Grid.CellDZM,
			TopDepth: cfg.Grid.TopDepthM,
		},
		Wells:       designed,
		Policies:    policies,
		Phases:      tl.Phases,
		Activations: tl.Activations,
		Milestones:  tl.Milestones,
		Steps:       steps,
	}
	p.logger.Info("plan assembled", "run_id", plan.RunID, "phases", len(plan.Phases),
		"steps", len(plan.Steps), "elapsed", time.Since(started))
	return plan, nil
}

func buildGrid(gc config.GridConfig) (*grid.Grid, error) {
	spec := grid.Spec{
		NX:       gc.NX,
		NY:       gc.NY,
		NZ:       gc.NZ,
		CellX:    gc.CellDXM,
		CellY:    gc.CellDYM,
		CellZ:    gc.CellDZM,
		TopDepth: gc.TopDepthM,
	}
	for _, layer := range gc.Layers {
		spec.Layers = append(spec.Layers, grid.LayerRock{
			Perm:     grid.Perm{X: layer.PermXMD, Y: layer.PermYMD, Z: layer.PermZMD},
			Porosity: layer.Porosity,
			Region:   layer.Region,
		})
	}
	return grid.New(spec)
}

func buildZones(rows []config.ZoneConfig, nz int) (well.ZoneTable, error) {
	if len(rows) == 0 {
		return well.DefaultZoneTable(nz)
	}
	zones := make([]well.Zone, 0, len(rows))
	for _, r := range rows {
		zones = append(zones, well.Zone{Name: r.Name, From: r.FromLayer, To: r.ToLayer})
	}
	return well.NewZoneTable(nz, zones)
}

func buildWells(wc config.WellsConfig) ([]well.Well, map[string]schedule.Timing, error) {
	wells := make([]well.Well, 0, len(wc.Items))
	timings := make(map[string]schedule.Timing, len(wc.Items))
	for _, item := range wc.Items {
		kind, err := well.ParseKind(item.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("well %s: %w", item.Name, err)
		}
		traj, err := well.ParseTrajectory(item.Trajectory)
		if err != nil {
			return nil, nil, fmt.Errorf("well %s: %w", item.Name, err)
		}
		w := well.Well{
			Name:       item.Name,
			Kind:       kind,
			Trajectory: traj,
			I:          item.I,
			J:          item.J,
			SurfaceX:   item.SurfaceXM,
			SurfaceY:   item.SurfaceYM,
			Radius:     well.WellboreRadius,
			Skin:       item.Skin,
			Layers:     append([]int(nil), item.Layers...),
		}
		for _, lat := range item.Laterals {
			w.Laterals = append(w.Laterals, well.Lateral{Layer: lat.Layer, ToeDX: lat.ToeDXM, ToeDY: lat.ToeDYM})
		}
		wells = append(wells, w)
		timings[item.Name] = schedule.Timing{
			DrillingDays:   item.DrillingDays,
			CompletionDays: item.CompletionDays,
		}
	}
	return wells, timings, nil
}

// checkWellCounts reconciles the declared development scope against the
// well list before any design work starts.
func checkWellCounts(wc config.WellsConfig, wells []well.Well) error {
	var producers, injectors int
	for _, w := range wells {
		switch w.Kind {
		case well.KindProducer:
			producers++
		case well.KindInjector:
			injectors++
		}
	}
	if producers != wc.ExpectedProducers || injectors != wc.ExpectedInjectors {
		return fmt.Errorf("found %d producers and %d injectors, expected %d and %d: %w",
			producers, injectors, wc.ExpectedProducers, wc.ExpectedInjectors, faults.ErrWellCountMismatch)
	}
	return nil
}

// designCompletions designs every well concurrently. Results land in an
// index-addressed slice, so output order matches input order regardless of
// worker interleaving.
func (p *Planner) designCompletions(ctx context.Context, g *grid.Grid, zones well.ZoneTable, wells []well.Well) ([]well.Well, error) {
	designer := well.NewDesigner(g, zones)
	designed := make([]well.Well, len(wells))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for i, w := range wells {
		i, w := i, w
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := designer.Design(w)
			if err != nil {
				return err
			}
			designed[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return designed, nil
}

func buildPolicies(cfg config.Config, wells []well.Well) (map[string]control.Policy, error) {
	builder, err := control.NewBuilder(
		control.PressureRange{Min: cfg.Field.Pressure.MinPSI, Max: cfg.Field.Pressure.MaxPSI},
		marginBounds(cfg.Control.ProducerMargins, control.DefaultProducerMargins),
		marginBounds(cfg.Control.InjectorMargins, control.DefaultInjectorMargins),
	)
	if err != nil {
		return nil, err
	}
	policies := make(map[string]control.Policy, len(wells))
	for i, item := range cfg.Wells.Items {
		pol, err := builder.Build(wells[i].Name, wells[i].Kind, control.Limits{
			TargetRate:  item.Control.TargetRateSM3D,
			BHPLimit:    item.Control.BHPLimitPSI,
			Margin1:     item.Control.Margin1PSI,
			Margin2:     item.Control.Margin2PSI,
			MaxWaterCut: item.Control.MaxWaterCut,
			MaxGOR:      item.Control.MaxGOR,
		})
		if err != nil {
			return nil, err
		}
		policies[pol.Well] = pol
	}
	return policies, nil
}

// marginBounds maps configured bounds, falling back to the representative
// defaults when the configuration leaves them zero.
func marginBounds(mc config.MarginConfig, fallback control.MarginBounds) control.MarginBounds {
	if mc.MinPSI == 0 && mc.MaxPSI == 0 {
		return fallback
	}
	return control.MarginBounds{Min: mc.MinPSI, Max: mc.MaxPSI}
}

func buildTimeline(cfg config.Config, timings map[string]schedule.Timing, wells []well.Well) (schedule.Timeline, error) {
	known := make(map[string]bool, len(wells))
	for _, w := range wells {
		known[w.Name] = true
	}
	specs := make([]schedule.PhaseSpec, 0, len(cfg.Phases))
	for i, pc := range cfg.Phases {
		for _, name := range pc.AddWells {
			if !known[name] {
				return schedule.Timeline{}, fmt.Errorf("phase %d adds unknown well %s: %w",
					i+1, name, faults.ErrConfiguration)
			}
		}
		specs = append(specs, schedule.PhaseSpec{
			Name:            pc.Name,
			DurationDays:    pc.DurationDays,
			DurationYears:   pc.DurationYears,
			AddWells:        append([]string(nil), pc.AddWells...),
			OilTarget:       pc.OilTargetSM3D,
			InjectionTarget: pc.InjectionTargetSM3D,
			VRRTarget:       pc.VRRTarget,
		})
	}

	sched, err := schedule.NewScheduler(cfg.HorizonDays(), cfg.Schedule.OilRegressTolSM3D, cfg.Schedule.CheckpointDays)
	if err != nil {
		return schedule.Timeline{}, err
	}
	tl, err := sched.Build(specs, timings)
	if err != nil {
		return schedule.Timeline{}, err
	}
	if err := checkAllScheduled(tl, wells); err != nil {
		return schedule.Timeline{}, err
	}
	return tl, nil
}

// checkAllScheduled rejects wells that no development phase brings on
// stream. A designed well the schedule never activates is dead capital and
// almost always a configuration slip.
func checkAllScheduled(tl schedule.Timeline, wells []well.Well) error {
	activated := make(map[string]bool, len(tl.Activations))
	for _, act := range tl.Activations {
		activated[act.Well] = true
	}
	for _, w := range wells {
		if !activated[w.Name] {
			return fmt.Errorf("well %s is not added by any phase: %w", w.Name, faults.ErrConfiguration)
		}
	}
	return nil
}

// checkVoidage verifies every phase that opts into voidage replacement:
// the phase's VRR target and the ratio implied by its rate targets must
// both sit inside the field band. Phases with a zero target are skipped.
func checkVoidage(cc config.ControlConfig, phases []schedule.Phase) error {
	assessed := false
	for _, ph := range phases {
		if ph.VRRTarget > 0 {
			assessed = true
			break
		}
	}
	if !assessed {
		return nil
	}

	if cc.FormationVolume <= 0 {
		return fmt.Errorf("formation volume factor %g: %w", cc.FormationVolume, faults.ErrConfiguration)
	}
	overlay, err := control.NewOverlay(control.Band{Low: cc.VRRBand.Low, High: cc.VRRBand.High})
	if err != nil {
		return err
	}
	band := overlay.Band()
	for _, ph := range phases {
		if ph.VRRTarget == 0 {
			continue
		}
		if ph.VRRTarget < band.Low || ph.VRRTarget > band.High {
			return fmt.Errorf("phase %d vrr target %g outside band [%g, %g]: %w",
				ph.Index, ph.VRRTarget, band.Low, band.High, faults.ErrConfiguration)
		}
		a, err := overlay.Evaluate(ph.InjectionTarget, ph.OilTarget*cc.FormationVolume)
		if err != nil {
			return fmt.Errorf("phase %d: %w", ph.Index, err)
		}
		if !a.InBand {
			return fmt.Errorf("phase %d implied vrr %.3f outside band [%g, %g], would %s: %w",
				ph.Index, a.Ratio, band.Low, band.High, a.Correction, faults.ErrConfiguration)
		}
	}
	return nil
}
