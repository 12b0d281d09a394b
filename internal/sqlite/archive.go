package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkvammen/fieldplan/internal/domain/control"
	"github.com/mkvammen/fieldplan/internal/domain/schedule"
	"github.com/mkvammen/fieldplan/internal/domain/well"
	"github.com/mkvammen/fieldplan/internal/planner"
	"github.com/mkvammen/fieldplan/internal/repository"
)

// timeLayout keeps archived timestamps fixed-width so lexicographic order
// matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// PlanArchive implements repository.PlanArchive for SQLite
type PlanArchive struct {
	db *DB
}

// NewPlanArchive creates a new PlanArchive
func NewPlanArchive(db *DB) *PlanArchive {
	return &PlanArchive{db: db}
}

// SaveRun archives a complete plan in one transaction. Runs are write-once:
// saving a run ID that already exists fails with ErrDuplicateRun.
func (r *PlanArchive) SaveRun(ctx context.Context, plan *planner.Plan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (run_id, field, created_at, horizon_days, nx, ny, nz, cell_dx_m, cell_dy_m, cell_dz_m, top_depth_m)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		plan.RunID,
		plan.Field,
		plan.CreatedAt.Format(timeLayout),
		plan.Horizon,
		plan.Grid.NX,
		plan.Grid.NY,
		plan.Grid.NZ,
		plan.Grid.CellX,
		plan.Grid.CellY,
		plan.Grid.CellZ,
		plan.Grid.TopDepth,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateRun
		}
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertWells(ctx, tx, plan); err != nil {
		return err
	}
	if err := insertPolicies(ctx, tx, plan); err != nil {
		return err
	}
	if err := insertTimeline(ctx, tx, plan); err != nil {
		return err
	}
	if err := insertSteps(ctx, tx, plan); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertWells(ctx context.Context, tx *sql.Tx, plan *planner.Plan) error {
	wellQuery := `
		INSERT INTO wells (run_id, seq, name, kind, trajectory, i, j, surface_x_m, surface_y_m, radius_m, skin, layers, laterals, tvd_m, md_m)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	compQuery := `
		INSERT INTO completions (run_id, well, seq, i, j, k, zone, direction, top_depth_m, bottom_depth_m, net_pay_m, segment_m, perm_x_md, perm_y_md, perm_z_md, wi_value, wi_equiv_radius_m, wi_geom_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for seq, w := range plan.Wells {
		layers, err := json.Marshal(w.Layers)
		if err != nil {
			return fmt.Errorf("failed to encode layers for %s: %w", w.Name, err)
		}
		laterals, err := json.Marshal(w.Laterals)
		if err != nil {
			return fmt.Errorf("failed to encode laterals for %s: %w", w.Name, err)
		}

		_, err = tx.ExecContext(ctx, wellQuery,
			plan.RunID,
			seq,
			w.Name,
			w.Kind,
			w.Trajectory,
			w.I,
			w.J,
			w.SurfaceX,
			w.SurfaceY,
			w.Radius,
			w.Skin,
			string(layers),
			string(laterals),
			w.TVD,
			w.MD,
		)
		if err != nil {
			return fmt.Errorf("failed to insert well %s: %w", w.Name, err)
		}

		for i, c := range w.Completions {
			_, err = tx.ExecContext(ctx, compQuery,
				plan.RunID,
				w.Name,
				i,
				c.Cell.I,
				c.Cell.J,
				c.Cell.K,
				c.Zone,
				c.Direction,
				c.TopDepth,
				c.BottomDepth,
				c.NetPay,
				c.SegmentLength,
				c.Perm.X,
				c.Perm.Y,
				c.Perm.Z,
				c.Index.Value,
				c.Index.EquivRadius,
				c.Index.GeomFactor,
			)
			if err != nil {
				return fmt.Errorf("failed to insert completion %s/%d: %w", w.Name, c.Cell.K, err)
			}
		}
	}

	return nil
}

func insertPolicies(ctx context.Context, tx *sql.Tx, plan *planner.Plan) error {
	query := `
		INSERT INTO policies (run_id, well, kind, mode, target_rate_sm3d, bhp_limit_psi, rate_to_bhp_psi, bhp_to_rate_psi, max_water_cut, max_gor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, pol := range plan.Policies {
		_, err := tx.ExecContext(ctx, query,
			plan.RunID,
			pol.Well,
			pol.Kind,
			pol.Mode,
			pol.TargetRate,
			pol.BHPLimit,
			pol.RateToBHP,
			pol.BHPToRate,
			pol.MaxWaterCut,
			pol.MaxGOR,
		)
		if err != nil {
			return fmt.Errorf("failed to insert policy for %s: %w", pol.Well, err)
		}
	}
	return nil
}

func insertTimeline(ctx context.Context, tx *sql.Tx, plan *planner.Plan) error {
	phaseQuery := `
		INSERT INTO phases (run_id, idx, name, start_day, end_day, add_wells, active, oil_target_sm3d, injection_target_sm3d, vrr_target)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, ph := range plan.Phases {
		addWells, err := json.Marshal(ph.AddWells)
		if err != nil {
			return fmt.Errorf("failed to encode phase %d wells: %w", ph.Index, err)
		}
		active, err := json.Marshal(ph.Active)
		if err != nil {
			return fmt.Errorf("failed to encode phase %d active set: %w", ph.Index, err)
		}
		_, err = tx.ExecContext(ctx, phaseQuery,
			plan.RunID,
			ph.Index,
			ph.Name,
			ph.StartDay,
			ph.EndDay,
			string(addWells),
			string(active),
			ph.OilTarget,
			ph.InjectionTarget,
			ph.VRRTarget,
		)
		if err != nil {
			return fmt.Errorf("failed to insert phase %d: %w", ph.Index, err)
		}
	}

	actQuery := `
		INSERT INTO activations (run_id, seq, well, phase, drill_start, startup)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for seq, act := range plan.Activations {
		_, err := tx.ExecContext(ctx, actQuery,
			plan.RunID, seq, act.Well, act.Phase, act.DrillStart, act.Startup)
		if err != nil {
			return fmt.Errorf("failed to insert activation for %s: %w", act.Well, err)
		}
	}

	msQuery := `
		INSERT INTO milestones (run_id, seq, day, kind, label, well)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for seq, ms := range plan.Milestones {
		_, err := tx.ExecContext(ctx, msQuery,
			plan.RunID, seq, ms.Day, ms.Kind, ms.Label, ms.Well)
		if err != nil {
			return fmt.Errorf("failed to insert milestone %q: %w", ms.Label, err)
		}
	}

	return nil
}

func insertSteps(ctx context.Context, tx *sql.Tx, plan *planner.Plan) error {
	query := `
		INSERT INTO steps (run_id, idx, phase, start_day, days, oil_target_sm3d, injection_target_sm3d, vrr_target, controls)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, step := range plan.Steps {
		controls, err := json.Marshal(step.Controls)
		if err != nil {
			return fmt.Errorf("failed to encode controls for step %d: %w", step.Index, err)
		}
		_, err = tx.ExecContext(ctx, query,
			plan.RunID,
			step.Index,
			step.Phase,
			step.StartDay,
			step.Days,
			step.Targets.Oil,
			step.Targets.Injection,
			step.Targets.VRR,
			string(controls),
		)
		if err != nil {
			return fmt.Errorf("failed to insert step %d: %w", step.Index, err)
		}
	}
	return nil
}

// GetRun loads an archived plan by run ID
func (r *PlanArchive) GetRun(ctx context.Context, runID string) (*planner.Plan, error) {
	query := `
		SELECT run_id, field, created_at, horizon_days, nx, ny, nz, cell_dx_m, cell_dy_m, cell_dz_m, top_depth_m
		FROM runs
		WHERE run_id = ?
	`

	var plan planner.Plan
	var created string
	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&plan.RunID,
		&plan.Field,
		&created,
		&plan.Horizon,
		&plan.Grid.NX,
		&plan.Grid.NY,
		&plan.Grid.NZ,
		&plan.Grid.CellX,
		&plan.Grid.CellY,
		&plan.Grid.CellZ,
		&plan.Grid.TopDepth,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	plan.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
	}

	if plan.Wells, err = r.loadWells(ctx, runID); err != nil {
		return nil, err
	}
	if plan.Policies, err = r.loadPolicies(ctx, runID); err != nil {
		return nil, err
	}
	if plan.Phases, err = r.loadPhases(ctx, runID); err != nil {
		return nil, err
	}
	if plan.Activations, err = r.loadActivations(ctx, runID); err != nil {
		return nil, err
	}
	if plan.Milestones, err = r.loadMilestones(ctx, runID); err != nil {
		return nil, err
	}
	if plan.Steps, err = r.loadSteps(ctx, runID); err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *PlanArchive) loadWells(ctx context.Context, runID string) ([]well.Well, error) {
	query := `
		SELECT name, kind, trajectory, i, j, surface_x_m, surface_y_m, radius_m, skin, layers, laterals, tvd_m, md_m
		FROM wells
		WHERE run_id = ?
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wells: %w", err)
	}
	defer rows.Close()

	var wells []well.Well
	index := make(map[string]int)
	for rows.Next() {
		var w well.Well
		var layers, laterals string
		err := rows.Scan(
			&w.Name,
			&w.Kind,
			&w.Trajectory,
			&w.I,
			&w.J,
			&w.SurfaceX,
			&w.SurfaceY,
			&w.Radius,
			&w.Skin,
			&layers,
			&laterals,
			&w.TVD,
			&w.MD,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan well: %w", err)
		}
		if err := json.Unmarshal([]byte(layers), &w.Layers); err != nil {
			return nil, fmt.Errorf("failed to decode layers for %s: %w", w.Name, err)
		}
		if err := json.Unmarshal([]byte(laterals), &w.Laterals); err != nil {
			return nil, fmt.Errorf("failed to decode laterals for %s: %w", w.Name, err)
		}
		index[w.Name] = len(wells)
		wells = append(wells, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating well rows: %w", err)
	}

	compQuery := `
		SELECT well, i, j, k, zone, direction, top_depth_m, bottom_depth_m, net_pay_m, segment_m, perm_x_md, perm_y_md, perm_z_md, wi_value, wi_equiv_radius_m, wi_geom_factor
		FROM completions
		WHERE run_id = ?
		ORDER BY well, seq
	`

	crows, err := r.db.QueryContext(ctx, compQuery, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var name string
		var c well.CompletionInterval
		err := crows.Scan(
			&name,
			&c.Cell.I,
			&c.Cell.J,
			&c.Cell.K,
			&c.Zone,
			&c.Direction,
			&c.TopDepth,
			&c.BottomDepth,
			&c.NetPay,
			&c.SegmentLength,
			&c.Perm.X,
			&c.Perm.Y,
			&c.Perm.Z,
			&c.Index.Value,
			&c.Index.EquivRadius,
			&c.Index.GeomFactor,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		pos, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("completion references unknown well %s", name)
		}
		wells[pos].Completions = append(wells[pos].Completions, c)
	}
	if err = crows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completion rows: %w", err)
	}

	return wells, nil
}

func (r *PlanArchive) loadPolicies(ctx context.Context, runID string) (map[string]control.Policy, error) {
	query := `
		SELECT well, kind, mode, target_rate_sm3d, bhp_limit_psi, rate_to_bhp_psi, bhp_to_rate_psi, max_water_cut, max_gor
		FROM policies
		WHERE run_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	defer rows.Close()

	policies := make(map[string]control.Policy)
	for rows.Next() {
		var pol control.Policy
		err := rows.Scan(
			&pol.Well,
			&pol.Kind,
			&pol.Mode,
			&pol.TargetRate,
			&pol.BHPLimit,
			&pol.RateToBHP,
			&pol.BHPToRate,
			&pol.MaxWaterCut,
			&pol.MaxGOR,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		policies[pol.Well] = pol
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy rows: %w", err)
	}

	return policies, nil
}

func (r *PlanArchive) loadPhases(ctx context.Context, runID string) ([]schedule.Phase, error) {
	query := `
		SELECT idx, name, start_day, end_day, add_wells, active, oil_target_sm3d, injection_target_sm3d, vrr_target
		FROM phases
		WHERE run_id = ?
		ORDER BY idx
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load phases: %w", err)
	}
	defer rows.Close()

	var phases []schedule.Phase
	for rows.Next() {
		var ph schedule.Phase
		var addWells, active string
		err := rows.Scan(
			&ph.Index,
			&ph.Name,
			&ph.StartDay,
			&ph.EndDay,
			&addWells,
			&active,
			&ph.OilTarget,
			&ph.InjectionTarget,
			&ph.VRRTarget,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		if err := json.Unmarshal([]byte(addWells), &ph.AddWells); err != nil {
			return nil, fmt.Errorf("failed to decode phase %d wells: %w", ph.Index, err)
		}
		if err := json.Unmarshal([]byte(active), &ph.Active); err != nil {
			return nil, fmt.Errorf("failed to decode phase %d active set: %w", ph.Index, err)
		}
		phases = append(phases, ph)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phase rows: %w", err)
	}

	return phases, nil
}

func (r *PlanArchive) loadActivations(ctx context.Context, runID string) ([]schedule.Activation, error) {
	query := `
		SELECT well, phase, drill_start, startup
		FROM activations
		WHERE run_id = ?
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activations: %w", err)
	}
	defer rows.Close()

	var acts []schedule.Activation
	for rows.Next() {
		var act schedule.Activation
		if err := rows.Scan(&act.Well, &act.Phase, &act.DrillStart, &act.Startup); err != nil {
			return nil, fmt.Errorf("failed to scan activation: %w", err)
		}
		acts = append(acts, act)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activation rows: %w", err)
	}

	return acts, nil
}

func (r *PlanArchive) loadMilestones(ctx context.Context, runID string) ([]schedule.Milestone, error) {
	query := `
		SELECT day, kind, label, well
		FROM milestones
		WHERE run_id = ?
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones: %w", err)
	}
	defer rows.Close()

	var milestones []schedule.Milestone
	for rows.Next() {
		var ms schedule.Milestone
		if err := rows.Scan(&ms.Day, &ms.Kind, &ms.Label, &ms.Well); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, ms)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestone rows: %w", err)
	}

	return milestones, nil
}

func (r *PlanArchive) loadSteps(ctx context.Context, runID string) ([]schedule.Step, error) {
	query := `
		SELECT idx, phase, start_day, days, oil_target_sm3d, injection_target_sm3d, vrr_target, controls
		FROM steps
		WHERE run_id = ?
		ORDER BY idx
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}
	defer rows.Close()

	var steps []schedule.Step
	for rows.Next() {
		var step schedule.Step
		var controls string
		err := rows.Scan(
			&step.Index,
			&step.Phase,
			&step.StartDay,
			&step.Days,
			&step.Targets.Oil,
			&step.Targets.Injection,
			&step.Targets.VRR,
			&controls,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		if err := json.Unmarshal([]byte(controls), &step.Controls); err != nil {
			return nil, fmt.Errorf("failed to decode controls for step %d: %w", step.Index, err)
		}
		steps = append(steps, step)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating step rows: %w", err)
	}

	return steps, nil
}

// ListRuns returns summaries of archived runs, newest first
func (r *PlanArchive) ListRuns(ctx context.Context, opts repository.ListRunsOptions) ([]repository.RunSummary, error) {
	query := `
		SELECT
			r.run_id,
			r.field,
			r.created_at,
			r.horizon_days,
			COUNT(DISTINCT w.name) as well_count,
			COUNT(DISTINCT p.idx) as phase_count,
			COUNT(DISTINCT s.idx) as step_count
		FROM runs r
		LEFT JOIN wells w ON w.run_id = r.run_id
		LEFT JOIN phases p ON p.run_id = r.run_id
		LEFT JOIN steps s ON s.run_id = r.run_id
	`

	var args []any
	if opts.Field != "" {
		query += ` WHERE r.field = ?`
		args = append(args, opts.Field)
	}
	query += `
		GROUP BY r.run_id, r.field, r.created_at, r.horizon_days
		ORDER BY r.created_at DESC
	`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []repository.RunSummary
	for rows.Next() {
		var s repository.RunSummary
		var created string
		err := rows.Scan(&s.RunID, &s.Field, &created, &s.Horizon, &s.Wells, &s.Phases, &s.Steps)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		s.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return summaries, nil
}

// DeleteRun removes an archived run; dependent rows cascade
func (r *PlanArchive) DeleteRun(ctx context.Context, runID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
