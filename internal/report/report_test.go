package report_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkvammen/fieldplan/internal/domain/grid"
	"github.com/mkvammen/fieldplan/internal/domain/schedule"
	"github.com/mkvammen/fieldplan/internal/domain/well"
	"github.com/mkvammen/fieldplan/internal/planner"
	"github.com/mkvammen/fieldplan/internal/report"
)

func reportPlan() *planner.Plan {
	completion := func(k int, zone string, top float64) well.CompletionInterval {
		return well.CompletionInterval{
			Cell:          grid.Cell{I: 5, J: 5, K: k},
			Zone:          zone,
			Direction:     well.DirectionZ,
			TopDepth:      top,
			BottomDepth:   top + 10,
			NetPay:        10,
			SegmentLength: 10,
		}
	}

	lateralCompletion := well.CompletionInterval{
		Cell:          grid.Cell{I: 15, J: 15, K: 8},
		Zone:          "Lower Sand",
		Direction:     well.DirectionX,
		TopDepth:      2070,
		BottomDepth:   2080,
		NetPay:        10,
		SegmentLength: 400.011,
	}

	return &planner.Plan{
		RunID:   "run-1",
		Field:   "Vestfold",
		Horizon: 730,
		Wells: []well.Well{
			{Name: "P-1", Kind: well.KindProducer, Trajectory: well.TrajectoryVertical,
				I: 5, J: 5, SurfaceX: 450, SurfaceY: 450, TVD: 2050, MD: 2050,
				Completions: []well.CompletionInterval{
					completion(2, "Upper Sand", 2010), completion(5, "Middle Sand", 2040),
				}},
			{Name: "P-2", Kind: well.KindProducer, Trajectory: well.TrajectoryVertical,
				I: 7, J: 7, SurfaceX: 650, SurfaceY: 650, TVD: 2020, MD: 2020,
				Completions: []well.CompletionInterval{completion(2, "Upper Sand", 2010)}},
			{Name: "I-1", Kind: well.KindInjector, Trajectory: well.TrajectoryHorizontal,
				I: 15, J: 15, SurfaceX: 1450, SurfaceY: 1450, TVD: 2075, MD: 2475,
				Laterals:    []well.Lateral{{Layer: 8, ToeDX: 400, ToeDY: -3}},
				Completions: []well.CompletionInterval{lateralCompletion}},
		},
		Milestones: []schedule.Milestone{
			{Day: 1, Kind: schedule.MilestonePhaseStart, Label: "Startup starts"},
			{Day: 1, Kind: schedule.MilestoneDrillStart, Label: "P-1 spuds", Well: "P-1"},
			{Day: 51, Kind: schedule.MilestoneStartup, Label: "P-1 on stream", Well: "P-1"},
		},
	}
}

func TestZonesAggregation(t *testing.T) {
	zones := report.Zones(reportPlan())

	require.Len(t, zones, 3)
	require.Equal(t, report.ZoneSummary{
		Zone: "Upper Sand", TopDepth: 2010, Wells: 2, Intervals: 2, NetPay: 20,
	}, zones[0])
	require.Equal(t, "Middle Sand", zones[1].Zone)
	require.Equal(t, "Lower Sand", zones[2].Zone)
	require.Equal(t, 1, zones[2].Wells)
}

func TestCoordinates(t *testing.T) {
	coords := report.Coordinates(reportPlan())

	require.Len(t, coords, 3)
	require.Equal(t, "I-1", coords[0].Name)
	require.Equal(t, "P-1", coords[1].Name)
	require.Equal(t, "P-2", coords[2].Name)

	p1 := coords[1]
	require.Equal(t, well.KindProducer, p1.Kind)
	require.Equal(t, 450.0, p1.X)
	require.Equal(t, 450.0, p1.Y)
	require.Equal(t, 2050.0, p1.TVD)
	require.Equal(t, 40.0, p1.Bore, "heel at shallowest top, toe at TVD")

	i1 := coords[0]
	require.Equal(t, 1450.0, i1.X)
	require.Equal(t, 2475.0, i1.MD)
	require.InDelta(t, 400.0425, i1.Bore, 1e-3)
	require.Equal(t, 15, i1.I)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, reportPlan()))

	out := buf.String()
	require.Contains(t, out, "COMPLETIONS BY ZONE")
	require.Contains(t, out, "WELL COORDINATES")
	require.Contains(t, out, "TIMELINE")
	require.Contains(t, out, "Upper Sand")
	require.Contains(t, out, "P-1 spuds")
	require.Contains(t, out, "injector")
}

func TestWriteCSVs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, report.WriteCSVs(dir, reportPlan()))

	zones := readCSV(t, filepath.Join(dir, "zones.csv"))
	require.Equal(t, []string{"zone", "top_m", "wells", "intervals", "net_pay_m"}, zones[0])
	require.Len(t, zones, 4)
	require.Equal(t, []string{"Upper Sand", "2010", "2", "2", "20"}, zones[1])

	wells := readCSV(t, filepath.Join(dir, "wells.csv"))
	require.Len(t, wells, 4)
	require.Equal(t, "I-1", wells[1][0])
	require.Equal(t, "P-2", wells[3][0])

	timeline := readCSV(t, filepath.Join(dir, "timeline.csv"))
	require.Len(t, timeline, 4)
	require.Equal(t, []string{"1", "phase-start", "Startup starts", ""}, timeline[1])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}
