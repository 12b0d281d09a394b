package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mkvammen/fieldplan/internal/planner"
)

// WriteCSVs writes zones.csv, wells.csv and timeline.csv under dir,
// creating it as needed.
func WriteCSVs(dir string, plan *planner.Plan) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := writeCSV(filepath.Join(dir, "zones.csv"), zoneRecords(plan)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, "wells.csv"), wellRecords(plan)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "timeline.csv"), timelineRecords(plan))
}

func zoneRecords(plan *planner.Plan) [][]string {
	records := [][]string{{"zone", "top_m", "wells", "intervals", "net_pay_m"}}
	for _, z := range Zones(plan) {
		records = append(records, []string{
			z.Zone, number(z.TopDepth), strconv.Itoa(z.Wells), strconv.Itoa(z.Intervals), number(z.NetPay),
		})
	}
	return records
}

func wellRecords(plan *planner.Plan) [][]string {
	records := [][]string{{"name", "kind", "x_m", "y_m", "tvd_m", "md_m", "bore_m", "i", "j"}}
	for _, c := range Coordinates(plan) {
		records = append(records, []string{
			c.Name, string(c.Kind), number(c.X), number(c.Y), number(c.TVD), number(c.MD),
			number(c.Bore), strconv.Itoa(c.I), strconv.Itoa(c.J),
		})
	}
	return records
}

func timelineRecords(plan *planner.Plan) [][]string {
	records := [][]string{{"day", "kind", "label", "well"}}
	for _, ms := range plan.Milestones {
		records = append(records, []string{strconv.Itoa(ms.Day), string(ms.Kind), ms.Label, ms.Well})
	}
	return records
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
