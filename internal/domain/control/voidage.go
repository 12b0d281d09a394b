package control

import (
	"fmt"

	"github.com/mkvammen/fieldplan/internal/faults"
)

// Band is the acceptable voidage-replacement-ratio envelope.
type Band struct {
	Low  float64
	High float64
}

// Correction is the direction injection targets move when the realized
// ratio leaves the band.
type Correction string

const (
	CorrectionHold              Correction = "hold"
	CorrectionIncreaseInjection Correction = "increase-injection"
	CorrectionReduceInjection   Correction = "reduce-injection"
)

// Assessment is the overlay's verdict on one injection/production pairing.
type Assessment struct {
	Ratio      float64
	InBand     bool
	Correction Correction
}

// Overlay checks field-level voidage replacement against a target band.
// It is pure policy: callers decide what an out-of-band ratio aborts or
// adjusts.
type Overlay struct {
	band Band
}

// NewOverlay validates the band. The band must sit strictly above zero
// with Low < High.
func NewOverlay(b Band) (Overlay, error) {
	if b.Low <= 0 || b.High <= b.Low {
		return Overlay{}, fmt.Errorf("vrr band [%g, %g]: %w", b.Low, b.High, faults.ErrConfiguration)
	}
	return Overlay{band: b}, nil
}

// Band returns the overlay's target band.
func (o Overlay) Band() Band {
	return o.band
}

// Evaluate compares injected reservoir volume against produced reservoir
// volume, both in rm³. Produced volume must be positive.
func (o Overlay) Evaluate(injected, produced float64) (Assessment, error) {
	if produced <= 0 {
		return Assessment{}, fmt.Errorf("produced reservoir volume %g rm³: %w",
			produced, faults.ErrRangeViolation)
	}
	if injected < 0 {
		return Assessment{}, fmt.Errorf("injected reservoir volume %g rm³: %w",
			injected, faults.ErrRangeViolation)
	}
	a := Assessment{Ratio: injected / produced}
	switch {
	case a.Ratio < o.band.Low:
		a.Correction = CorrectionIncreaseInjection
	case a.Ratio > o.band.High:
		a.Correction = CorrectionReduceInjection
	default:
		a.InBand = true
		a.Correction = CorrectionHold
	}
	return a, nil
}
