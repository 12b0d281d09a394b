package control_test

import (
	"testing"

	"github.com/mkvammen/fieldplan/internal/domain/control"
	"github.com/mkvammen/fieldplan/internal/domain/well"
	"github.com/mkvammen/fieldplan/internal/faults"
	"github.com/stretchr/testify/require"
)

func testBuilder(t *testing.T) *control.Builder {
	t.Helper()
	b, err := control.NewBuilder(
		control.PressureRange{Min: 500, Max: 6000},
		control.DefaultProducerMargins,
		control.DefaultInjectorMargins,
	)
	require.NoError(t, err)
	return b
}

func TestBuilder_ProducerThresholds(t *testing.T) {
	b := testBuilder(t)

	p, err := b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 2400,
		BHPLimit:   1420,
		Margin1:    30,
		Margin2:    100,
	})
	require.NoError(t, err)
	require.Equal(t, control.ModeRate, p.Mode)
	require.Equal(t, 1450.0, p.RateToBHP)
	require.Equal(t, 1520.0, p.BHPToRate)
	require.Less(t, p.RateToBHP, p.BHPToRate)
}

func TestBuilder_InjectorThresholds(t *testing.T) {
	b := testBuilder(t)

	p, err := b.Build("I-1", well.KindInjector, control.Limits{
		TargetRate: 3000,
		BHPLimit:   5000,
		Margin1:    50,
		Margin2:    150,
	})
	require.NoError(t, err)
	require.Equal(t, 4950.0, p.RateToBHP)
	require.Equal(t, 4850.0, p.BHPToRate)
	require.Greater(t, p.RateToBHP, p.BHPToRate)
}

func TestBuilder_MarginOrdering(t *testing.T) {
	b := testBuilder(t)

	_, err := b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 2400, BHPLimit: 1420, Margin1: 100, Margin2: 30,
	})
	require.ErrorIs(t, err, faults.ErrConfiguration)

	_, err = b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 2400, BHPLimit: 1420, Margin1: 0, Margin2: 100,
	})
	require.ErrorIs(t, err, faults.ErrConfiguration)
}

func TestBuilder_MarginOutsideBounds(t *testing.T) {
	b := testBuilder(t)

	_, err := b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 2400, BHPLimit: 1420, Margin1: 10, Margin2: 100,
	})
	require.ErrorIs(t, err, faults.ErrRangeViolation)

	_, err = b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 2400, BHPLimit: 1420, Margin1: 30, Margin2: 250,
	})
	require.ErrorIs(t, err, faults.ErrRangeViolation)
}

func TestBuilder_ThresholdReachesEnvelopeCeiling(t *testing.T) {
	b, err := control.NewBuilder(
		control.PressureRange{Min: 500, Max: 1500},
		control.DefaultProducerMargins,
		control.DefaultInjectorMargins,
	)
	require.NoError(t, err)

	_, err = b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 2400, BHPLimit: 1420, Margin1: 30, Margin2: 100,
	})
	require.ErrorIs(t, err, faults.ErrConfiguration)
	require.Contains(t, err.Error(), "ceiling")
}

func TestBuilder_InjectorThresholdReachesEnvelopeFloor(t *testing.T) {
	b, err := control.NewBuilder(
		control.PressureRange{Min: 4800, Max: 5100},
		control.DefaultProducerMargins,
		control.DefaultInjectorMargins,
	)
	require.NoError(t, err)

	_, err = b.Build("I-1", well.KindInjector, control.Limits{
		TargetRate: 3000, BHPLimit: 5000, Margin1: 50, Margin2: 250,
	})
	require.ErrorIs(t, err, faults.ErrConfiguration)
	require.Contains(t, err.Error(), "floor")
}

func TestBuilder_NonPositiveRate(t *testing.T) {
	b := testBuilder(t)

	_, err := b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 0, BHPLimit: 1420, Margin1: 30, Margin2: 100,
	})
	require.ErrorIs(t, err, faults.ErrRangeViolation)
}

func TestBuilder_BHPLimitOutsideEnvelope(t *testing.T) {
	b := testBuilder(t)

	_, err := b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 2400, BHPLimit: 400, Margin1: 30, Margin2: 100,
	})
	require.ErrorIs(t, err, faults.ErrRangeViolation)
}

func TestBuilder_InjectorRejectsProducerConstraints(t *testing.T) {
	b := testBuilder(t)

	_, err := b.Build("I-1", well.KindInjector, control.Limits{
		TargetRate: 3000, BHPLimit: 5000, Margin1: 50, Margin2: 150,
		MaxWaterCut: 0.9,
	})
	require.ErrorIs(t, err, faults.ErrConfiguration)
}

func TestBuilder_WaterCutLimitRange(t *testing.T) {
	b := testBuilder(t)

	_, err := b.Build("P-1", well.KindProducer, control.Limits{
		TargetRate: 2400, BHPLimit: 1420, Margin1: 30, Margin2: 100,
		MaxWaterCut: 1.2,
	})
	require.ErrorIs(t, err, faults.ErrRangeViolation)
}

func TestNewBuilder_InvalidEnvelope(t *testing.T) {
	_, err := control.NewBuilder(
		control.PressureRange{Min: 2000, Max: 1000},
		control.DefaultProducerMargins,
		control.DefaultInjectorMargins,
	)
	require.ErrorIs(t, err, faults.ErrConfiguration)
}

func TestNewBuilder_InvalidMarginBounds(t *testing.T) {
	_, err := control.NewBuilder(
		control.PressureRange{Min: 500, Max: 6000},
		control.MarginBounds{Min: 200, Max: 30},
		control.DefaultInjectorMargins,
	)
	require.ErrorIs(t, err, faults.ErrConfiguration)
}
