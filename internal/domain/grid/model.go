// Package grid models the static reservoir description the planner consumes:
// a regular Cartesian lattice with uniform cell sizes and per-layer rock
// properties. The grid is built once from validated configuration and never
// mutated afterwards.
package grid

// Cell addresses a single grid block. Indices are 1-based along every axis,
// matching the (i,j,k) convention of the downstream simulation engine.
type Cell struct {
	I int `json:"i"`
	J int `json:"j"`
	K int `json:"k"`
}

// Dims is the physical extent of a cell in meters along each axis.
type Dims struct {
	DX float64
	DY float64
	DZ float64
}

// Perm is a directional permeability triple in millidarcy.
type Perm struct {
	X float64
	Y float64
	Z float64
}

// LayerRock carries the rock properties of one geological layer. Properties
// are uniform within a layer; the grid exposes them per cell through Rock.
type LayerRock struct {
	Perm     Perm
	Porosity float64
	Region   int
}

// Spec is the validated input a Grid is built from. Layers holds one entry
// per geological layer, index 0 describing layer 1.
type Spec struct {
	NX, NY, NZ int
	CellX      float64 // m
	CellY      float64 // m
	CellZ      float64 // m
	TopDepth   float64 // m TVD at the top of layer 1
	Layers     []LayerRock
}
