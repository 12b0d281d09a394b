package well

import (
	"math"

	"github.com/golang/geo/r3"
)

// Field coordinates are meters with x east, y north, z up; subsurface
// depths are negative z.

// Axis returns the dominant areal axis of the lateral. Ties resolve to x
// so the derivation stays deterministic.
func (l Lateral) Axis() Direction {
	if math.Abs(l.ToeDY) > math.Abs(l.ToeDX) {
		return DirectionY
	}
	return DirectionX
}

// Reach returns the areal length of the lateral in meters.
func (l Lateral) Reach() float64 {
	return r3.Vector{X: l.ToeDX, Y: l.ToeDY}.Norm()
}

// Heel returns the top of the completed section. Meaningful only after
// completion design has filled the well's intervals.
func (w *Well) Heel() r3.Vector {
	head := r3.Vector{X: w.SurfaceX, Y: w.SurfaceY}
	if len(w.Completions) == 0 {
		return head
	}
	top := w.Completions[0].TopDepth
	for _, c := range w.Completions[1:] {
		if c.TopDepth < top {
			top = c.TopDepth
		}
	}
	head.Z = -top
	return head
}

// Toe returns the far end of the bore: the bottom of the deepest interval
// for vertical wells, the tip of the longest lateral otherwise.
func (w *Well) Toe() r3.Vector {
	if w.Trajectory == TrajectoryVertical || len(w.Laterals) == 0 {
		return r3.Vector{X: w.SurfaceX, Y: w.SurfaceY, Z: -w.TVD}
	}
	far := w.Laterals[0]
	for _, l := range w.Laterals[1:] {
		if l.Reach() > far.Reach() {
			far = l
		}
	}
	toe := r3.Vector{X: w.SurfaceX + far.ToeDX, Y: w.SurfaceY + far.ToeDY, Z: -w.TVD}
	for _, c := range w.Completions {
		if c.Cell.K == far.Layer {
			toe.Z = -(c.TopDepth + c.BottomDepth) / 2
			break
		}
	}
	return toe
}

// BoreLength returns the straight-line distance from heel to toe, used by
// reporting as a compact trajectory summary.
func (w *Well) BoreLength() float64 {
	return w.Toe().Sub(w.Heel()).Norm()
}
