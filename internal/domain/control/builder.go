package control

import (
	"fmt"

	"github.com/mkvammen/fieldplan/internal/domain/well"
	"github.com/mkvammen/fieldplan/internal/faults"
)

// MarginBounds limits the hysteresis margins a role may configure, in psi.
type MarginBounds struct {
	Min float64
	Max float64
}

// Representative margin bounds, used when configuration does not override
// them.
var (
	DefaultProducerMargins = MarginBounds{Min: 30, Max: 200}
	DefaultInjectorMargins = MarginBounds{Min: 50, Max: 300}
)

// PressureRange is the field's physical BHP envelope in psi. Producer
// thresholds must resolve below its ceiling, injector thresholds above its
// floor.
type PressureRange struct {
	Min float64
	Max float64
}

// Limits is the per-well control input the builder consumes. BHPLimit is
// the minimum BHP for producers and the maximum for injectors. Margin1
// offsets the rate→BHP threshold from the limit; Margin2, strictly larger,
// offsets the BHP→rate threshold.
type Limits struct {
	TargetRate  float64
	BHPLimit    float64
	Margin1     float64
	Margin2     float64
	MaxWaterCut float64
	MaxGOR      float64
}

// Builder derives hysteretic control policies for a field. Any invalid
// ordering or out-of-range value fails before a schedule exists; nothing
// is clamped.
type Builder struct {
	envelope PressureRange
	producer MarginBounds
	injector MarginBounds
}

// NewBuilder validates the field pressure envelope and margin bounds.
func NewBuilder(envelope PressureRange, producer, injector MarginBounds) (*Builder, error) {
	if envelope.Min <= 0 || envelope.Max <= envelope.Min {
		return nil, fmt.Errorf("pressure envelope [%g, %g] psi: %w",
			envelope.Min, envelope.Max, faults.ErrConfiguration)
	}
	for _, b := range []struct {
		role   string
		bounds MarginBounds
	}{{"producer", producer}, {"injector", injector}} {
		if b.bounds.Min <= 0 || b.bounds.Max <= b.bounds.Min {
			return nil, fmt.Errorf("%s margin bounds [%g, %g] psi: %w",
				b.role, b.bounds.Min, b.bounds.Max, faults.ErrConfiguration)
		}
	}
	return &Builder{envelope: envelope, producer: producer, injector: injector}, nil
}

// Build derives the policy for one well. The returned policy starts in
// rate control.
func (b *Builder) Build(name string, kind well.Kind, lim Limits) (Policy, error) {
	if lim.TargetRate <= 0 {
		return Policy{}, fmt.Errorf("well %s: target rate %g sm³/day: %w",
			name, lim.TargetRate, faults.ErrRangeViolation)
	}
	if lim.BHPLimit <= b.envelope.Min || lim.BHPLimit >= b.envelope.Max {
		return Policy{}, fmt.Errorf("well %s: bhp limit %g psi outside envelope (%g, %g): %w",
			name, lim.BHPLimit, b.envelope.Min, b.envelope.Max, faults.ErrRangeViolation)
	}
	if lim.Margin1 <= 0 || lim.Margin2 <= lim.Margin1 {
		return Policy{}, fmt.Errorf("well %s: margins (%g, %g) psi must satisfy 0 < first < second: %w",
			name, lim.Margin1, lim.Margin2, faults.ErrConfiguration)
	}

	bounds := b.producer
	if kind == well.KindInjector {
		bounds = b.injector
	}
	for _, m := range []float64{lim.Margin1, lim.Margin2} {
		if m < bounds.Min || m > bounds.Max {
			return Policy{}, fmt.Errorf("well %s: %s margin %g psi outside [%g, %g]: %w",
				name, kind, m, bounds.Min, bounds.Max, faults.ErrRangeViolation)
		}
	}

	if err := validateConstraints(name, kind, lim); err != nil {
		return Policy{}, err
	}

	p := Policy{
		Well:        name,
		Kind:        kind,
		Mode:        ModeRate,
		TargetRate:  lim.TargetRate,
		BHPLimit:    lim.BHPLimit,
		MaxWaterCut: lim.MaxWaterCut,
		MaxGOR:      lim.MaxGOR,
	}
	switch kind {
	case well.KindProducer:
		p.RateToBHP = lim.BHPLimit + lim.Margin1
		p.BHPToRate = lim.BHPLimit + lim.Margin2
		if p.BHPToRate >= b.envelope.Max {
			return Policy{}, fmt.Errorf("well %s: return threshold %g psi reaches envelope ceiling %g: %w",
				name, p.BHPToRate, b.envelope.Max, faults.ErrConfiguration)
		}
	case well.KindInjector:
		p.RateToBHP = lim.BHPLimit - lim.Margin1
		p.BHPToRate = lim.BHPLimit - lim.Margin2
		if p.BHPToRate <= b.envelope.Min {
			return Policy{}, fmt.Errorf("well %s: return threshold %g psi reaches envelope floor %g: %w",
				name, p.BHPToRate, b.envelope.Min, faults.ErrConfiguration)
		}
	default:
		return Policy{}, fmt.Errorf("well %s: unknown kind %q: %w", name, kind, faults.ErrConfiguration)
	}
	return p, nil
}

func validateConstraints(name string, kind well.Kind, lim Limits) error {
	if kind == well.KindInjector && (lim.MaxWaterCut != 0 || lim.MaxGOR != 0) {
		return fmt.Errorf("well %s: water-cut/gor limits apply to producers only: %w",
			name, faults.ErrConfiguration)
	}
	if lim.MaxWaterCut < 0 || lim.MaxWaterCut >= 1 {
		return fmt.Errorf("well %s: water cut limit %g must be in [0, 1): %w",
			name, lim.MaxWaterCut, faults.ErrRangeViolation)
	}
	if lim.MaxGOR < 0 {
		return fmt.Errorf("well %s: gor limit %g must not be negative: %w",
			name, lim.MaxGOR, faults.ErrRangeViolation)
	}
	return nil
}
