// Package report renders the human-facing summary artifacts of a plan:
// completions grouped by zone, well coordinates, and the development
// timeline. Each artifact has a console table and a CSV form.
package report

import (
	"sort"

	"github.com/mkvammen/fieldplan/internal/domain/well"
	"github.com/mkvammen/fieldplan/internal/planner"
)

// ZoneSummary aggregates the completion intervals landed in one zone.
// TopDepth is the shallowest interval top and orders the zone table.
type ZoneSummary struct {
	Zone      string
	TopDepth  float64
	Wells     int
	Intervals int
	NetPay    float64
}

// WellCoordinate is one row of the coordinate listing. X and Y locate the
// heel; Bore is the straight-line heel-to-toe distance.
type WellCoordinate struct {
	Name string
	Kind well.Kind
	X    float64
	Y    float64
	TVD  float64
	MD   float64
	Bore float64
	I    int
	J    int
}

// Zones aggregates the plan's completions by zone, shallowest first.
func Zones(plan *planner.Plan) []ZoneSummary {
	byZone := make(map[string]*ZoneSummary)
	seen := make(map[string]map[string]bool)

	for _, w := range plan.Wells {
		for _, c := range w.Completions {
			zs, ok := byZone[c.Zone]
			if !ok {
				zs = &ZoneSummary{Zone: c.Zone, TopDepth: c.TopDepth}
				byZone[c.Zone] = zs
				seen[c.Zone] = make(map[string]bool)
			}
			if c.TopDepth < zs.TopDepth {
				zs.TopDepth = c.TopDepth
			}
			if !seen[c.Zone][w.Name] {
				seen[c.Zone][w.Name] = true
				zs.Wells++
			}
			zs.Intervals++
			zs.NetPay += c.NetPay
		}
	}

	zones := make([]ZoneSummary, 0, len(byZone))
	for _, zs := range byZone {
		zones = append(zones, *zs)
	}
	sort.Slice(zones, func(i, j int) bool {
		if zones[i].TopDepth != zones[j].TopDepth {
			return zones[i].TopDepth < zones[j].TopDepth
		}
		return zones[i].Zone < zones[j].Zone
	})
	return zones
}

// Coordinates returns the coordinate listing, ordered by well name.
func Coordinates(plan *planner.Plan) []WellCoordinate {
	coords := make([]WellCoordinate, 0, len(plan.Wells))
	for i := range plan.Wells {
		w := &plan.Wells[i]
		heel := w.Heel()
		coords = append(coords, WellCoordinate{
			Name: w.Name,
			Kind: w.Kind,
			X:    heel.X,
			Y:    heel.Y,
			TVD:  w.TVD,
			MD:   w.MD,
			Bore: w.BoreLength(),
			I:    w.I,
			J:    w.J,
		})
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Name < coords[j].Name })
	return coords
}
