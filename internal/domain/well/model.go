// Package well provides the well entities of the planning pipeline and the
// completion designer that turns grid and rock data into per-interval well
// indices.
package well

import (
	"fmt"

	"github.com/mkvammen/fieldplan/internal/domain/grid"
)

// Kind is the operational role of a well.
type Kind string

const (
	KindProducer Kind = "producer"
	KindInjector Kind = "injector"
)

// ParseKind converts a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindProducer, KindInjector:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown well kind %q", s)
	}
}

// Trajectory is the geometric variant of a wellbore.
type Trajectory string

const (
	TrajectoryVertical     Trajectory = "vertical"
	TrajectoryHorizontal   Trajectory = "horizontal"
	TrajectoryMultilateral Trajectory = "multilateral"
)

// ParseTrajectory converts a configuration string to a Trajectory.
func ParseTrajectory(s string) (Trajectory, error) {
	switch Trajectory(s) {
	case TrajectoryVertical, TrajectoryHorizontal, TrajectoryMultilateral:
		return Trajectory(s), nil
	default:
		return "", fmt.Errorf("unknown well trajectory %q", s)
	}
}

// Direction is the grid axis a completion runs along. Vertical bores
// complete in z; laterals complete along their dominant areal axis.
type Direction string

const (
	DirectionX Direction = "x"
	DirectionY Direction = "y"
	DirectionZ Direction = "z"
)

// Lateral describes one branch of a horizontal or multilateral well: the
// layer it lands in and the toe position as an areal offset from the heel,
// in meters. The completed length and axis are derived from the offset.
type Lateral struct {
	Layer int
	ToeDX float64
	ToeDY float64
}

// Well is the validated identity and geometry of one well before and after
// completion design. Layers lists completed layers for vertical bores;
// horizontal and multilateral bores complete through Laterals instead.
// TVD, MD and Completions are filled by the Designer.
type Well struct {
	Name       string
	Kind       Kind
	Trajectory Trajectory
	I, J       int     // areal grid location, 1-based
	SurfaceX   float64 // m
	SurfaceY   float64 // m
	Radius     float64 // m wellbore radius
	Skin       float64
	Layers     []int
	Laterals   []Lateral

	TVD         float64 // m, deepest completed depth
	MD          float64 // m, measured depth along hole
	Completions []CompletionInterval
}

// CompletionInterval is one completed layer of a well. NetPay is the
// vertical thickness between the interval's depths; SegmentLength is the
// completed length along the bore (equal to NetPay for vertical
// completions, the lateral reach otherwise) and is the h of the well-index
// formula.
type CompletionInterval struct {
	Cell          grid.Cell
	Zone          string
	Direction     Direction
	TopDepth      float64 // m TVD
	BottomDepth   float64 // m TVD
	NetPay        float64 // m
	SegmentLength float64 // m
	Perm          grid.Perm
	Index         WellIndex
}

// WellIndex is the computed conductance of one completion interval.
type WellIndex struct {
	Value       float64 // m³
	EquivRadius float64 // m, Peaceman equivalent radius
	GeomFactor  float64 // ln(r_eq/r_w) + skin
}
