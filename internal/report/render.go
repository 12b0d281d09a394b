package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mkvammen/fieldplan/internal/planner"
)

// Render writes the three summary tables to w in display order: zones,
// coordinates, timeline.
func Render(w io.Writer, plan *planner.Plan) error {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00BFFF"))

	sections := []struct {
		name  string
		table *table.Table
	}{
		{"COMPLETIONS BY ZONE", zoneTable(plan)},
		{"WELL COORDINATES", wellTable(plan)},
		{"TIMELINE", timelineTable(plan)},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", title.Render(s.name), s.table); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}
	return nil
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func zoneTable(plan *planner.Plan) *table.Table {
	t := newTable("ZONE", "TOP (M)", "WELLS", "INTERVALS", "NET PAY (M)")
	for _, z := range Zones(plan) {
		t.Row(z.Zone, meters(z.TopDepth), strconv.Itoa(z.Wells), strconv.Itoa(z.Intervals), meters(z.NetPay))
	}
	return t
}

func wellTable(plan *planner.Plan) *table.Table {
	t := newTable("WELL", "KIND", "X (M)", "Y (M)", "TVD (M)", "MD (M)", "BORE (M)", "CELL")
	for _, c := range Coordinates(plan) {
		t.Row(c.Name, string(c.Kind), meters(c.X), meters(c.Y), meters(c.TVD), meters(c.MD),
			meters(c.Bore), fmt.Sprintf("(%d,%d)", c.I, c.J))
	}
	return t
}

func timelineTable(plan *planner.Plan) *table.Table {
	t := newTable("DAY", "EVENT", "LABEL", "WELL")
	for _, ms := range plan.Milestones {
		t.Row(strconv.Itoa(ms.Day), string(ms.Kind), ms.Label, ms.Well)
	}
	return t
}

func meters(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
