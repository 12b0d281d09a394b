package planner

import (
	"time"

	"github.com/mkvammen/fieldplan/internal/domain/control"
	"github.com/mkvammen/fieldplan/internal/domain/schedule"
	"github.com/mkvammen/fieldplan/internal/domain/well"
)

// Plan is the complete output of a planning run: designed wells, per-well
// control policies, the phased timeline, and the assembled simulation steps.
// A Plan is self-contained and safe to archive or export as-is.
type Plan struct {
	RunID     string    `json:"run_id"`
	Field     string    `json:"field"`
	CreatedAt time.Time `json:"created_at"`

	// Horizon is the planning horizon in days.
	Horizon int `json:"horizon_days"`

	Grid     GridSummary               `json:"grid"`
	Wells    []well.Well               `json:"wells"`
	Policies map[string]control.Policy `json:"policies"`

	Phases      []schedule.Phase      `json:"phases"`
	Activations []schedule.Activation `json:"activations"`
	Milestones  []schedule.Milestone  `json:"milestones"`
	Steps       []schedule.Step       `json:"steps"`
}

// GridSummary records the grid geometry a plan was computed against.
type GridSummary struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
	NZ int `json:"nz"`

	// Cell dimensions in metres.
	CellX float64 `json:"cell_dx_m"`
	CellY float64 `json:"cell_dy_m"`
	CellZ float64 `json:"cell_dz_m"`

	// TopDepth is the depth of the top of layer 1 in metres.
	TopDepth float64 `json:"top_depth_m"`
}

// Producers returns the designed producer wells in plan order.
func (p *Plan) Producers() []well.Well {
	return p.wellsOfKind(well.KindProducer)
}

// Injectors returns the designed injector wells in plan order.
func (p *Plan) Injectors() []well.Well {
	return p.wellsOfKind(well.KindInjector)
}

func (p *Plan) wellsOfKind(kind well.Kind) []well.Well {
	var out []well.Well
	for _, w := range p.Wells {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Well returns the designed well with the given name, if present.
func (p *Plan) Well(name string) (well.Well, bool) {
	for _, w := range p.Wells {
		if w.Name == name {
			return w, true
		}
	}
	return well.Well{}, false
}
