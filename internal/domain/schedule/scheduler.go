package schedule

import (
	"fmt"
	"math"
	"sort"

	"github.com/mkvammen/fieldplan/internal/faults"
)

// DaysPerYear converts fractional-year phase durations.
const DaysPerYear = 365

// Engineering bounds on a well's drilling program, in days.
const (
	DrillingMin   = 30
	DrillingMax   = 120
	CompletionMin = 5
	CompletionMax = 30
)

// Scheduler lays out development phases over a fixed horizon and runs the
// one-rig-per-phase drilling program.
type Scheduler struct {
	horizon        int
	regressTol     float64
	checkpointDays int
}

// NewScheduler builds a scheduler. regressTol is the largest oil-target
// drop allowed between consecutive phases, in sm³/day; checkpointDays
// spaces the reporting checkpoints.
func NewScheduler(horizonDays int, regressTol float64, checkpointDays int) (*Scheduler, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("horizon %d days: %w", horizonDays, faults.ErrConfiguration)
	}
	if regressTol < 0 {
		return nil, fmt.Errorf("regression tolerance %g: %w", regressTol, faults.ErrConfiguration)
	}
	if checkpointDays <= 0 {
		return nil, fmt.Errorf("checkpoint interval %d days: %w", checkpointDays, faults.ErrConfiguration)
	}
	return &Scheduler{horizon: horizonDays, regressTol: regressTol, checkpointDays: checkpointDays}, nil
}

// Build lays specs out contiguously from day 1 and schedules the drilling
// program of every added well. timings maps well name to its program. The
// last phase absorbs any rounding remainder so the final end day equals
// the horizon exactly.
func (s *Scheduler) Build(specs []PhaseSpec, timings map[string]Timing) (Timeline, error) {
	if len(specs) == 0 {
		return Timeline{}, fmt.Errorf("no development phases configured: %w", faults.ErrConfiguration)
	}

	durations := make([]int, len(specs))
	for i, spec := range specs {
		d, err := phaseDuration(i, spec)
		if err != nil {
			return Timeline{}, err
		}
		durations[i] = d
	}
	consumed := 0
	for _, d := range durations[:len(durations)-1] {
		consumed += d
	}
	residual := s.horizon - consumed
	if residual <= 0 {
		return Timeline{}, fmt.Errorf("phases before the last consume %d of %d horizon days: %w",
			consumed, s.horizon, faults.ErrTimelineInconsistency)
	}
	durations[len(durations)-1] = residual

	tl := Timeline{Horizon: s.horizon}
	seen := make(map[string]bool)
	var active []string
	start := 1
	for i, spec := range specs {
		ph := Phase{
			Index:           i + 1,
			Name:            spec.Name,
			StartDay:        start,
			EndDay:          start + durations[i] - 1,
			AddWells:        append([]string(nil), spec.AddWells...),
			OilTarget:       spec.OilTarget,
			InjectionTarget: spec.InjectionTarget,
			VRRTarget:       spec.VRRTarget,
		}
		if err := validateTargets(ph); err != nil {
			return Timeline{}, err
		}
		if i > 0 && ph.OilTarget < specs[i-1].OilTarget-s.regressTol {
			return Timeline{}, fmt.Errorf("phase %d oil target %g sm³/day regresses more than %g below phase %d: %w",
				ph.Index, ph.OilTarget, s.regressTol, i, faults.ErrTimelineInconsistency)
		}

		acts, err := s.drillingProgram(ph, timings, seen)
		if err != nil {
			return Timeline{}, err
		}
		tl.Activations = append(tl.Activations, acts...)

		active = append(active, spec.AddWells...)
		sorted := append([]string(nil), active...)
		sort.Strings(sorted)
		ph.Active = sorted

		tl.Phases = append(tl.Phases, ph)
		start = ph.EndDay + 1
	}

	tl.Milestones = s.milestones(tl)
	return tl, nil
}

func phaseDuration(i int, spec PhaseSpec) (int, error) {
	switch {
	case spec.DurationDays > 0 && spec.DurationYears > 0:
		return 0, fmt.Errorf("phase %d has both day and year durations: %w", i+1, faults.ErrConfiguration)
	case spec.DurationDays > 0:
		return spec.DurationDays, nil
	case spec.DurationYears > 0:
		return int(math.Round(spec.DurationYears * DaysPerYear)), nil
	default:
		return 0, fmt.Errorf("phase %d has no duration: %w", i+1, faults.ErrConfiguration)
	}
}

func validateTargets(ph Phase) error {
	if ph.OilTarget <= 0 {
		return fmt.Errorf("phase %d oil target %g sm³/day: %w", ph.Index, ph.OilTarget, faults.ErrRangeViolation)
	}
	if ph.InjectionTarget < 0 {
		return fmt.Errorf("phase %d injection target %g sm³/day: %w", ph.Index, ph.InjectionTarget, faults.ErrRangeViolation)
	}
	if ph.VRRTarget < 0 {
		return fmt.Errorf("phase %d vrr target %g: %w", ph.Index, ph.VRRTarget, faults.ErrRangeViolation)
	}
	return nil
}

// drillingProgram runs the phase's single rig through its added wells in
// declaration order: each well spuds when the rig frees, and must be on
// stream before the phase ends.
func (s *Scheduler) drillingProgram(ph Phase, timings map[string]Timing, seen map[string]bool) ([]Activation, error) {
	var acts []Activation
	rig := ph.StartDay
	for _, name := range ph.AddWells {
		if seen[name] {
			return nil, fmt.Errorf("well %s added by more than one phase: %w", name, faults.ErrConfiguration)
		}
		seen[name] = true

		tm, ok := timings[name]
		if !ok {
			return nil, fmt.Errorf("well %s has no drilling program: %w", name, faults.ErrConfiguration)
		}
		if tm.DrillingDays < DrillingMin || tm.DrillingDays > DrillingMax {
			return nil, fmt.Errorf("well %s drilling %d days outside [%d, %d]: %w",
				name, tm.DrillingDays, DrillingMin, DrillingMax, faults.ErrRangeViolation)
		}
		if tm.CompletionDays < CompletionMin || tm.CompletionDays > CompletionMax {
			return nil, fmt.Errorf("well %s completion %d days outside [%d, %d]: %w",
				name, tm.CompletionDays, CompletionMin, CompletionMax, faults.ErrRangeViolation)
		}

		act := Activation{
			Well:       name,
			Phase:      ph.Index,
			DrillStart: rig,
			Startup:    rig + tm.DrillingDays + tm.CompletionDays,
		}
		if act.Startup > ph.EndDay {
			return nil, fmt.Errorf("well %s starts up on day %d, after phase %d ends on day %d: %w",
				name, act.Startup, ph.Index, ph.EndDay, faults.ErrTimelineInconsistency)
		}
		acts = append(acts, act)
		rig += tm.DrillingDays
	}
	return acts, nil
}

func (s *Scheduler) milestones(tl Timeline) []Milestone {
	var ms []Milestone
	for _, ph := range tl.Phases {
		ms = append(ms,
			Milestone{Day: ph.StartDay, Kind: MilestonePhaseStart, Label: fmt.Sprintf("%s starts", ph.Name)},
			Milestone{Day: ph.EndDay, Kind: MilestonePhaseEnd, Label: fmt.Sprintf("%s ends", ph.Name)},
		)
	}
	for _, act := range tl.Activations {
		ms = append(ms,
			Milestone{Day: act.DrillStart, Kind: MilestoneDrillStart, Label: fmt.Sprintf("%s spuds", act.Well), Well: act.Well},
			Milestone{Day: act.Startup, Kind: MilestoneStartup, Label: fmt.Sprintf("%s on stream", act.Well), Well: act.Well},
		)
	}
	for day := s.checkpointDays; day <= tl.Horizon; day += s.checkpointDays {
		ms = append(ms, Milestone{Day: day, Kind: MilestoneCheckpoint, Label: fmt.Sprintf("day %d checkpoint", day)})
	}
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Day < ms[j].Day })
	return ms
}
