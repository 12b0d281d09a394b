package grid

import (
	"fmt"

	"github.com/mkvammen/fieldplan/internal/faults"
)

// Grid is the immutable lattice the completion designer runs against.
type Grid struct {
	spec Spec
}

// New validates spec and builds the grid. Dimensions, cell sizes and every
// layer's rock properties must be positive; the layer list must cover nz
// layers exactly.
func New(spec Spec) (*Grid, error) {
	if spec.NX <= 0 || spec.NY <= 0 || spec.NZ <= 0 {
		return nil, fmt.Errorf("grid dimensions %dx%dx%d must be positive: %w",
			spec.NX, spec.NY, spec.NZ, faults.ErrConfiguration)
	}
	if spec.CellX <= 0 || spec.CellY <= 0 || spec.CellZ <= 0 {
		return nil, fmt.Errorf("grid cell size (%g, %g, %g) must be positive: %w",
			spec.CellX, spec.CellY, spec.CellZ, faults.ErrConfiguration)
	}
	if spec.TopDepth < 0 {
		return nil, fmt.Errorf("grid top depth %g must not be negative: %w",
			spec.TopDepth, faults.ErrConfiguration)
	}
	if len(spec.Layers) != spec.NZ {
		return nil, fmt.Errorf("grid has %d layers for nz=%d: %w",
			len(spec.Layers), spec.NZ, faults.ErrConfiguration)
	}
	for i, layer := range spec.Layers {
		if layer.Perm.X <= 0 || layer.Perm.Y <= 0 || layer.Perm.Z <= 0 {
			return nil, fmt.Errorf("layer %d permeability (%g, %g, %g) mD must be positive: %w",
				i+1, layer.Perm.X, layer.Perm.Y, layer.Perm.Z, faults.ErrConfiguration)
		}
		if layer.Porosity <= 0 || layer.Porosity >= 1 {
			return nil, fmt.Errorf("layer %d porosity %g must be in (0, 1): %w",
				i+1, layer.Porosity, faults.ErrConfiguration)
		}
	}
	return &Grid{spec: spec}, nil
}

// NX returns the cell count along the x axis.
func (g *Grid) NX() int { return g.spec.NX }

// NY returns the cell count along the y axis.
func (g *Grid) NY() int { return g.spec.NY }

// NZ returns the number of geological layers.
func (g *Grid) NZ() int { return g.spec.NZ }

// Contains reports whether c addresses a cell inside the grid.
func (g *Grid) Contains(c Cell) bool {
	return c.I >= 1 && c.I <= g.spec.NX &&
		c.J >= 1 && c.J <= g.spec.NY &&
		c.K >= 1 && c.K <= g.spec.NZ
}

// CellDims returns the physical extent of cell c. Cell sizes are uniform
// across the lattice.
func (g *Grid) CellDims(c Cell) Dims {
	return Dims{DX: g.spec.CellX, DY: g.spec.CellY, DZ: g.spec.CellZ}
}

// Rock returns the rock properties of layer k (1-based). The caller must
// pass a layer inside the grid; see Contains.
func (g *Grid) Rock(k int) LayerRock {
	return g.spec.Layers[k-1]
}

// LayerSpan returns the top and bottom depth of layer k in meters TVD.
func (g *Grid) LayerSpan(k int) (top, bottom float64) {
	top = g.spec.TopDepth + float64(k-1)*g.spec.CellZ
	return top, top + g.spec.CellZ
}

// FlatIndex maps c to its 0-based natural-ordering index (i fastest, k
// slowest), the cell numbering scheme of the simulation engine.
func (g *Grid) FlatIndex(c Cell) int {
	return (c.K-1)*g.spec.NX*g.spec.NY + (c.J-1)*g.spec.NX + (c.I - 1)
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.I, c.J, c.K)
}
