// Package export writes the simulation-engine deck: a single JSON document
// carrying the well definitions and the stepwise schedule of a plan.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mkvammen/fieldplan/internal/planner"
)

// Deck is the engine input document. Wells are ordered by name and schedule
// entries by step index, so identical plans encode byte-identically.
type Deck struct {
	Run      string    `json:"run"`
	Field    string    `json:"field"`
	Horizon  int       `json:"horizon_days"`
	Wells    []WellDef `json:"wells"`
	Schedule []StepDef `json:"schedule"`
}

// CellRef addresses one grid cell, 1-based.
type CellRef struct {
	I int `json:"i"`
	J int `json:"j"`
	K int `json:"k"`
}

// WellDef is the engine-facing definition of one well. Cells lists every
// completed cell in completion order.
type WellDef struct {
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	Trajectory  string          `json:"trajectory"`
	Cells       []CellRef       `json:"cells"`
	RadiusM     float64         `json:"radius_m"`
	Skin        float64         `json:"skin"`
	Completions []CompletionDef `json:"completions"`
}

// CompletionDef is one completed interval with its computed well index.
type CompletionDef struct {
	Cell      CellRef `json:"cell"`
	Direction string  `json:"direction"`
	WI        float64 `json:"wi_m3"`
	ReqM      float64 `json:"req_m"`
	Zone      string  `json:"zone"`
}

// ControlDef is the frozen control of one well during a step.
type ControlDef struct {
	Well     string  `json:"well"`
	Mode     string  `json:"mode"`
	Target   float64 `json:"target"`
	BHPLimit float64 `json:"bhp_limit"`
}

// TargetsDef carries the owning phase's field-level rates.
type TargetsDef struct {
	Oil       float64 `json:"oil_sm3d"`
	Injection float64 `json:"injection_sm3d"`
	VRR       float64 `json:"vrr"`
}

// StepDef is one simulation step with its control snapshot.
type StepDef struct {
	Step     int          `json:"step"`
	Phase    int          `json:"phase"`
	StartDay int          `json:"start_day"`
	Days     int          `json:"days"`
	Controls []ControlDef `json:"controls"`
	Targets  TargetsDef   `json:"field_targets"`
}

// Build converts an assembled plan into a deck document.
func Build(plan *planner.Plan) Deck {
	deck := Deck{
		Run:     plan.RunID,
		Field:   plan.Field,
		Horizon: plan.Horizon,
	}

	wells := make([]WellDef, 0, len(plan.Wells))
	for _, w := range plan.Wells {
		def := WellDef{
			Name:       w.Name,
			Kind:       string(w.Kind),
			Trajectory: string(w.Trajectory),
			RadiusM:    w.Radius,
			Skin:       w.Skin,
		}
		for _, c := range w.Completions {
			cell := CellRef{I: c.Cell.I, J: c.Cell.J, K: c.Cell.K}
			def.Cells = append(def.Cells, cell)
			def.Completions = append(def.Completions, CompletionDef{
				Cell:      cell,
				Direction: string(c.Direction),
				WI:        c.Index.Value,
				ReqM:      c.Index.EquivRadius,
				Zone:      c.Zone,
			})
		}
		wells = append(wells, def)
	}
	sort.Slice(wells, func(i, j int) bool { return wells[i].Name < wells[j].Name })
	deck.Wells = wells

	for _, step := range plan.Steps {
		def := StepDef{
			Step:     step.Index,
			Phase:    step.Phase,
			StartDay: step.StartDay,
			Days:     step.Days,
			Targets: TargetsDef{
				Oil:       step.Targets.Oil,
				Injection: step.Targets.Injection,
				VRR:       step.Targets.VRR,
			},
		}
		for _, pol := range step.Controls {
			def.Controls = append(def.Controls, ControlDef{
				Well:     pol.Well,
				Mode:     string(pol.Mode),
				Target:   pol.TargetRate,
				BHPLimit: pol.BHPLimit,
			})
		}
		deck.Schedule = append(deck.Schedule, def)
	}

	return deck
}

// Write encodes the deck for plan to w as indented JSON.
func Write(w io.Writer, plan *planner.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Build(plan)); err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}
	return nil
}

// WriteFile writes the deck for plan to path, creating parent directories
// as needed.
func WriteFile(path string, plan *planner.Plan) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create deck directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create deck file: %w", err)
	}

	if err := Write(f, plan); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write deck file: %w", err)
	}
	return nil
}
