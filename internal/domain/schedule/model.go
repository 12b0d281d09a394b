// Package schedule partitions the operating horizon into development
// phases, fixes every well's drilling and startup dates, and assembles the
// discrete step sequence handed to the simulation engine.
package schedule

import "github.com/mkvammen/fieldplan/internal/domain/control"

// PhaseSpec is the configured description of one development phase.
// Exactly one of DurationDays and DurationYears must be set.
type PhaseSpec struct {
	Name            string
	DurationDays    int
	DurationYears   float64
	AddWells        []string
	OilTarget       float64 // sm³/day
	InjectionTarget float64 // sm³/day
	VRRTarget       float64 // 0 opts the phase out of voidage balancing
}

// Phase is one laid-out development phase. Day numbering is 1-based and
// inclusive on both ends.
type Phase struct {
	Index           int
	Name            string
	StartDay        int
	EndDay          int
	AddWells        []string
	Active          []string // cumulative well set, sorted by name
	OilTarget       float64
	InjectionTarget float64
	VRRTarget       float64
}

// Duration returns the phase length in days.
func (p Phase) Duration() int {
	return p.EndDay - p.StartDay + 1
}

// Timing is a well's drilling program input, in days.
type Timing struct {
	DrillingDays   int
	CompletionDays int
}

// Activation fixes one well's drilling and startup days inside its owning
// phase. Startup is the first day the well's controls apply.
type Activation struct {
	Well       string
	Phase      int
	DrillStart int
	Startup    int
}

// MilestoneKind classifies timeline markers.
type MilestoneKind string

const (
	MilestonePhaseStart MilestoneKind = "phase-start"
	MilestonePhaseEnd   MilestoneKind = "phase-end"
	MilestoneDrillStart MilestoneKind = "drill-start"
	MilestoneStartup    MilestoneKind = "startup"
	MilestoneCheckpoint MilestoneKind = "checkpoint"
)

// Milestone is one derived timeline marker for reporting. Milestones are
// never authoritative; the phases and activations are.
type Milestone struct {
	Day   int
	Kind  MilestoneKind
	Label string
	Well  string // empty for field-level milestones
}

// Timeline is the scheduler's output.
type Timeline struct {
	Horizon     int
	Phases      []Phase
	Activations []Activation
	Milestones  []Milestone
}

// FieldTargets are the phase-level rates a step inherits.
type FieldTargets struct {
	Oil       float64
	Injection float64
	VRR       float64
}

// Step is one discrete simulation interval. Controls are value copies
// frozen at assembly time, sorted by well name; phase boundaries always
// coincide with step boundaries.
type Step struct {
	Index    int
	Phase    int
	StartDay int
	Days     int
	Targets  FieldTargets
	Controls []control.Policy
}
