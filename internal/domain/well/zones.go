package well

import (
	"fmt"

	"github.com/mkvammen/fieldplan/internal/faults"
)

// Zone names a contiguous run of geological layers.
type Zone struct {
	Name string
	From int // first layer, 1-based, inclusive
	To   int // last layer, inclusive
}

// ZoneTable maps layer indices to zone names. Tables are built once from
// configuration and resolve without state.
type ZoneTable struct {
	zones []Zone
	nz    int
}

// NewZoneTable validates rows against an nz-layer grid and builds the table.
// Rows must start at layer 1, be contiguous without gaps or overlaps, and
// the last row must end at nz.
func NewZoneTable(nz int, rows []Zone) (ZoneTable, error) {
	if nz <= 0 {
		return ZoneTable{}, fmt.Errorf("zone table for %d layers: %w", nz, faults.ErrConfiguration)
	}
	if len(rows) == 0 {
		return ZoneTable{}, fmt.Errorf("zone table has no rows: %w", faults.ErrConfiguration)
	}
	seen := make(map[string]bool, len(rows))
	next := 1
	for i, row := range rows {
		if row.Name == "" {
			return ZoneTable{}, fmt.Errorf("zone row %d has no name: %w", i+1, faults.ErrConfiguration)
		}
		if seen[row.Name] {
			return ZoneTable{}, fmt.Errorf("zone %q appears twice: %w", row.Name, faults.ErrConfiguration)
		}
		seen[row.Name] = true
		if row.From != next {
			return ZoneTable{}, fmt.Errorf("zone %q starts at layer %d, want %d: %w",
				row.Name, row.From, next, faults.ErrConfiguration)
		}
		if row.To < row.From {
			return ZoneTable{}, fmt.Errorf("zone %q ends at layer %d before it starts: %w",
				row.Name, row.To, faults.ErrConfiguration)
		}
		next = row.To + 1
	}
	if next != nz+1 {
		return ZoneTable{}, fmt.Errorf("zone table covers layers 1-%d of %d: %w",
			next-1, nz, faults.ErrConfiguration)
	}
	zones := make([]Zone, len(rows))
	copy(zones, rows)
	return ZoneTable{zones: zones, nz: nz}, nil
}

// DefaultZoneTable is the conventional three-zone split: layers 1-3 Upper
// Sand, 4-7 Middle Sand, 8-nz Lower Sand. It requires at least 8 layers.
func DefaultZoneTable(nz int) (ZoneTable, error) {
	return NewZoneTable(nz, []Zone{
		{Name: "Upper Sand", From: 1, To: 3},
		{Name: "Middle Sand", From: 4, To: 7},
		{Name: "Lower Sand", From: 8, To: nz},
	})
}

// Resolve returns the zone name owning layer.
func (t ZoneTable) Resolve(layer int) (string, error) {
	if layer < 1 || layer > t.nz {
		return "", fmt.Errorf("layer %d outside 1-%d: %w", layer, t.nz, faults.ErrRangeViolation)
	}
	for _, z := range t.zones {
		if layer >= z.From && layer <= z.To {
			return z.Name, nil
		}
	}
	// Unreachable for a table built by NewZoneTable.
	return "", fmt.Errorf("layer %d not covered by any zone: %w", layer, faults.ErrRangeViolation)
}

// Zones returns the table rows in layer order.
func (t ZoneTable) Zones() []Zone {
	out := make([]Zone, len(t.zones))
	copy(out, t.zones)
	return out
}
