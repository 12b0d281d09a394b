package well

import (
	"fmt"
	"math"

	"github.com/mkvammen/fieldplan/internal/domain/grid"
	"github.com/mkvammen/fieldplan/internal/faults"
)

// mDToM2 converts millidarcy to m² so indices come out in the SI volume
// unit the simulation engine expects.
const mDToM2 = 9.869233e-16

// Plausibility band for a single completion's well index, in m³. Values
// outside it indicate degenerate geometry or rock input, not a usable
// completion.
const (
	WellIndexMin = 1e-17
	WellIndexMax = 1e-7
)

// Designer computes completion intervals and well indices against one grid
// and zone table. Design is pure: identical inputs yield bit-identical
// results.
type Designer struct {
	grid  *grid.Grid
	zones ZoneTable
}

// NewDesigner binds a designer to its grid and zone table.
func NewDesigner(g *grid.Grid, zones ZoneTable) *Designer {
	return &Designer{grid: g, zones: zones}
}

// Design validates w and returns a copy with completions, TVD and MD
// filled. The argument is not mutated.
func (d *Designer) Design(w Well) (Well, error) {
	if err := Validate(&w, d.grid); err != nil {
		return Well{}, err
	}

	completions := make([]CompletionInterval, 0, len(w.CompletedLayers()))
	if w.Trajectory == TrajectoryVertical {
		for _, k := range w.Layers {
			ci, err := d.designInterval(&w, k, DirectionZ, 0)
			if err != nil {
				return Well{}, err
			}
			completions = append(completions, ci)
		}
	} else {
		for _, l := range w.Laterals {
			ci, err := d.designInterval(&w, l.Layer, l.Axis(), l.Reach())
			if err != nil {
				return Well{}, err
			}
			completions = append(completions, ci)
		}
	}

	w.Completions = completions
	w.TVD = completions[0].BottomDepth
	for _, c := range completions[1:] {
		if c.BottomDepth > w.TVD {
			w.TVD = c.BottomDepth
		}
	}
	w.MD = w.TVD
	for _, l := range w.Laterals {
		w.MD += l.Reach()
	}
	return w, nil
}

// designInterval completes one layer. reach is ignored for vertical
// completions, whose length is the layer thickness.
func (d *Designer) designInterval(w *Well, layer int, dir Direction, reach float64) (CompletionInterval, error) {
	zone, err := d.zones.Resolve(layer)
	if err != nil {
		return CompletionInterval{}, fmt.Errorf("well %s: %w", w.Name, err)
	}
	cell := grid.Cell{I: w.I, J: w.J, K: layer}
	top, bottom := d.grid.LayerSpan(layer)
	rock := d.grid.Rock(layer)

	netPay := bottom - top
	segment := netPay
	if dir != DirectionZ {
		segment = reach
	}
	idx, err := ComputeIndex(d.grid.CellDims(cell), rock.Perm, dir, segment, w.Radius, w.Skin)
	if err != nil {
		return CompletionInterval{}, fmt.Errorf("well %s layer %d: %w", w.Name, layer, err)
	}
	return CompletionInterval{
		Cell:          cell,
		Zone:          zone,
		Direction:     dir,
		TopDepth:      top,
		BottomDepth:   bottom,
		NetPay:        netPay,
		SegmentLength: segment,
		Perm:          rock.Perm,
		Index:         idx,
	}, nil
}

// EquivalentRadius returns the Peaceman anisotropic equivalent radius for a
// bore transverse to cell extents (d1, d2) with permeabilities (k1, k2) in
// those directions. Isotropic permeability reduces it to 0.14·sqrt(d1²+d2²)
// without a special branch.
func EquivalentRadius(d1, d2, k1, k2 float64) float64 {
	ratio := k1 / k2
	sq := math.Sqrt(ratio)
	num := math.Sqrt(d1*d1/sq + d2*d2*sq)
	den := math.Pow(ratio, 0.25) + math.Pow(1/ratio, 0.25)
	return 0.28 * num / den
}

// ComputeIndex evaluates the Peaceman well index for a completion of
// length h running along dir through a cell with the given extents and
// permeabilities. The transverse plane supplies the (d1, d2, k1, k2) of
// the equivalent-radius formula: z-completions see (dx, dy, kx, ky),
// x-completions (dy, dz, ky, kz), y-completions (dx, dz, kx, kz).
func ComputeIndex(dims grid.Dims, perm grid.Perm, dir Direction, h, rw, skin float64) (WellIndex, error) {
	var d1, d2, k1, k2 float64
	switch dir {
	case DirectionX:
		d1, d2, k1, k2 = dims.DY, dims.DZ, perm.Y, perm.Z
	case DirectionY:
		d1, d2, k1, k2 = dims.DX, dims.DZ, perm.X, perm.Z
	default:
		d1, d2, k1, k2 = dims.DX, dims.DY, perm.X, perm.Y
	}
	if k1 <= 0 || k2 <= 0 {
		return WellIndex{}, fmt.Errorf("permeability (%g, %g) mD transverse to %s: %w",
			k1, k2, dir, faults.ErrRangeViolation)
	}
	if h <= 0 {
		return WellIndex{}, fmt.Errorf("completed length %g m: %w", h, faults.ErrRangeViolation)
	}
	if rw <= 0 {
		return WellIndex{}, fmt.Errorf("wellbore radius %g m: %w", rw, faults.ErrRangeViolation)
	}

	req := EquivalentRadius(d1, d2, k1, k2)
	if req <= rw {
		return WellIndex{}, fmt.Errorf("equivalent radius %.4g m not above wellbore radius %g m: %w",
			req, rw, faults.ErrIndexComputation)
	}
	geom := math.Log(req/rw) + skin
	if geom <= 0 {
		return WellIndex{}, fmt.Errorf("geometric factor %.4g not positive: %w",
			geom, faults.ErrIndexComputation)
	}
	wi := mDToM2 * 2 * math.Pi * math.Sqrt(k1*k2) * h / geom
	if wi < WellIndexMin || wi > WellIndexMax {
		return WellIndex{}, fmt.Errorf("well index %.4g m³ outside [%g, %g]: %w",
			wi, WellIndexMin, WellIndexMax, faults.ErrIndexComputation)
	}
	return WellIndex{Value: wi, EquivRadius: req, GeomFactor: geom}, nil
}
