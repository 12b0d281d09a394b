package well

import (
	"fmt"

	"github.com/mkvammen/fieldplan/internal/domain/grid"
	"github.com/mkvammen/fieldplan/internal/faults"
)

// Engineering bounds applied before any completion is designed.
const (
	// WellboreRadius is the fixed 6-inch bore radius used for every well.
	WellboreRadius = 0.1 // m

	ProducerSkinMin = 3.0
	ProducerSkinMax = 5.0
	InjectorSkinMin = -2.5
	InjectorSkinMax = 1.0
)

// Validate checks w against the grid and the engineering bounds, returning
// the first violation wrapped with the well name. Wells that pass are safe
// to hand to the Designer.
func Validate(w *Well, g *grid.Grid) error {
	if w.Name == "" {
		return fmt.Errorf("well has no name: %w", faults.ErrConfiguration)
	}
	if _, err := ParseKind(string(w.Kind)); err != nil {
		return fmt.Errorf("well %s: unknown kind %q: %w", w.Name, w.Kind, faults.ErrConfiguration)
	}
	if _, err := ParseTrajectory(string(w.Trajectory)); err != nil {
		return fmt.Errorf("well %s: unknown trajectory %q: %w", w.Name, w.Trajectory, faults.ErrConfiguration)
	}
	if w.Radius != WellboreRadius {
		return fmt.Errorf("well %s: wellbore radius %g m, must be %g m: %w",
			w.Name, w.Radius, WellboreRadius, faults.ErrRangeViolation)
	}
	if err := validateSkin(w); err != nil {
		return err
	}
	if !g.Contains(grid.Cell{I: w.I, J: w.J, K: 1}) {
		return fmt.Errorf("well %s: location (%d,%d) outside %dx%d grid: %w",
			w.Name, w.I, w.J, g.NX(), g.NY(), faults.ErrConfiguration)
	}
	if err := validateTargets(w, g.NZ()); err != nil {
		return err
	}
	return nil
}

func validateSkin(w *Well) error {
	min, max := ProducerSkinMin, ProducerSkinMax
	if w.Kind == KindInjector {
		min, max = InjectorSkinMin, InjectorSkinMax
	}
	if w.Skin < min || w.Skin > max {
		return fmt.Errorf("well %s: %s skin %g outside [%g, %g]: %w",
			w.Name, w.Kind, w.Skin, min, max, faults.ErrRangeViolation)
	}
	return nil
}

func validateTargets(w *Well, nz int) error {
	switch w.Trajectory {
	case TrajectoryVertical:
		if len(w.Laterals) > 0 {
			return fmt.Errorf("well %s: vertical well has laterals: %w", w.Name, faults.ErrConfiguration)
		}
		if len(w.Layers) == 0 {
			return fmt.Errorf("well %s: no completion layers: %w", w.Name, faults.ErrConfiguration)
		}
	case TrajectoryHorizontal:
		if len(w.Laterals) != 1 {
			return fmt.Errorf("well %s: horizontal well needs exactly one lateral, has %d: %w",
				w.Name, len(w.Laterals), faults.ErrConfiguration)
		}
	case TrajectoryMultilateral:
		if len(w.Laterals) < 2 {
			return fmt.Errorf("well %s: multilateral well needs at least two laterals, has %d: %w",
				w.Name, len(w.Laterals), faults.ErrConfiguration)
		}
	}
	if w.Trajectory != TrajectoryVertical && len(w.Layers) > 0 {
		return fmt.Errorf("well %s: %s well completes through laterals, not a layer list: %w",
			w.Name, w.Trajectory, faults.ErrConfiguration)
	}

	seen := make(map[int]bool)
	for _, k := range w.CompletedLayers() {
		if k < 1 || k > nz {
			return fmt.Errorf("well %s: targets layer %d of a %d-layer grid: %w",
				w.Name, k, nz, faults.ErrConfiguration)
		}
		if seen[k] {
			return fmt.Errorf("well %s: layer %d completed twice: %w", w.Name, k, faults.ErrConfiguration)
		}
		seen[k] = true
	}
	for _, l := range w.Laterals {
		if l.Reach() <= 0 {
			return fmt.Errorf("well %s: lateral in layer %d has zero reach: %w",
				w.Name, l.Layer, faults.ErrRangeViolation)
		}
	}
	return nil
}

// CompletedLayers returns the layers the well completes, in declaration
// order, regardless of trajectory.
func (w *Well) CompletedLayers() []int {
	if w.Trajectory == TrajectoryVertical {
		out := make([]int, len(w.Layers))
		copy(out, w.Layers)
		return out
	}
	out := make([]int, 0, len(w.Laterals))
	for _, l := range w.Laterals {
		out = append(out, l.Layer)
	}
	return out
}
