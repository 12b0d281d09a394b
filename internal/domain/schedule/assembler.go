package schedule

import (
	"fmt"
	"sort"

	"github.com/mkvammen/fieldplan/internal/domain/control"
	"github.com/mkvammen/fieldplan/internal/faults"
)

// DefaultStepDays subdivides phases quarterly.
const DefaultStepDays = 91

// Assembler converts a timeline plus built control policies into the step
// sequence the simulation engine consumes.
type Assembler struct {
	stepDays int
}

// NewAssembler builds an assembler with a fixed step length in days. The
// final step of each phase truncates to the phase boundary.
func NewAssembler(stepDays int) (*Assembler, error) {
	if stepDays <= 0 {
		return nil, fmt.Errorf("step length %d days: %w", stepDays, faults.ErrConfiguration)
	}
	return &Assembler{stepDays: stepDays}, nil
}

// Assemble subdivides each phase into steps and freezes the control
// snapshot of every active well into each one. A well's controls enter at
// the first step whose start day is on or after the well's startup day,
// so controls never change mid-step. The assembled steps are reconciled
// against the timeline before they are returned.
func (a *Assembler) Assemble(tl Timeline, policies map[string]control.Policy) ([]Step, error) {
	if err := validateTimeline(tl); err != nil {
		return nil, err
	}

	startups := make(map[string]int, len(tl.Activations))
	byPhase := make(map[int]int, len(tl.Phases))
	for _, act := range tl.Activations {
		if _, ok := policies[act.Well]; !ok {
			return nil, fmt.Errorf("scheduled well %s has no control policy: %w",
				act.Well, faults.ErrConfiguration)
		}
		startups[act.Well] = act.Startup
		byPhase[act.Phase]++
	}

	// The cumulative active sets must agree with the activations; a
	// shrinking or padded set means the timeline was not the scheduler's.
	cumulative := 0
	for _, ph := range tl.Phases {
		cumulative += byPhase[ph.Index]
		if len(ph.Active) != cumulative {
			return nil, fmt.Errorf("phase %d lists %d active wells, activations add up to %d: %w",
				ph.Index, len(ph.Active), cumulative, faults.ErrTimelineInconsistency)
		}
	}

	var steps []Step
	for _, ph := range tl.Phases {
		remaining := ph.Duration()
		start := ph.StartDay
		phaseDays := 0
		for remaining > 0 {
			days := a.stepDays
			if days > remaining {
				days = remaining
			}
			st := Step{
				Index:    len(steps) + 1,
				Phase:    ph.Index,
				StartDay: start,
				Days:     days,
				Targets: FieldTargets{
					Oil:       ph.OilTarget,
					Injection: ph.InjectionTarget,
					VRR:       ph.VRRTarget,
				},
				Controls: snapshot(policies, startups, start),
			}
			steps = append(steps, st)
			start += days
			remaining -= days
			phaseDays += days
		}
		if phaseDays != ph.Duration() {
			return nil, fmt.Errorf("phase %d steps cover %d of %d days: %w",
				ph.Index, phaseDays, ph.Duration(), faults.ErrTimelineInconsistency)
		}
	}

	total := 0
	for _, st := range steps {
		total += st.Days
	}
	if total != tl.Horizon {
		return nil, fmt.Errorf("steps cover %d of %d horizon days: %w",
			total, tl.Horizon, faults.ErrTimelineInconsistency)
	}
	return steps, nil
}

// validateTimeline re-checks the phase layout invariants before any step
// is emitted. The assembler refuses timelines the scheduler did not
// produce, rather than papering over gaps or overlaps.
func validateTimeline(tl Timeline) error {
	if tl.Horizon <= 0 {
		return fmt.Errorf("horizon %d days: %w", tl.Horizon, faults.ErrConfiguration)
	}
	if len(tl.Phases) == 0 {
		return fmt.Errorf("timeline has no phases: %w", faults.ErrTimelineInconsistency)
	}
	if first := tl.Phases[0].StartDay; first != 1 {
		return fmt.Errorf("first phase starts on day %d, not day 1: %w",
			first, faults.ErrTimelineInconsistency)
	}
	for i, ph := range tl.Phases {
		if ph.EndDay < ph.StartDay {
			return fmt.Errorf("phase %d ends on day %d before it starts on day %d: %w",
				ph.Index, ph.EndDay, ph.StartDay, faults.ErrTimelineInconsistency)
		}
		if i > 0 {
			prev := tl.Phases[i-1]
			if ph.StartDay != prev.EndDay+1 {
				return fmt.Errorf("phase %d starts on day %d, phase %d ended on day %d: %w",
					ph.Index, ph.StartDay, prev.Index, prev.EndDay, faults.ErrTimelineInconsistency)
			}
		}
	}
	if last := tl.Phases[len(tl.Phases)-1].EndDay; last != tl.Horizon {
		return fmt.Errorf("last phase ends on day %d, horizon is %d days: %w",
			last, tl.Horizon, faults.ErrTimelineInconsistency)
	}
	return nil
}

// snapshot freezes the policies of every well on stream by startDay,
// sorted by well name.
func snapshot(policies map[string]control.Policy, startups map[string]int, startDay int) []control.Policy {
	names := make([]string, 0, len(startups))
	for name, up := range startups {
		if up <= startDay {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]control.Policy, 0, len(names))
	for _, name := range names {
		out = append(out, policies[name])
	}
	return out
}
