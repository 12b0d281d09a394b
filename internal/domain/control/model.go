// Package control derives per-well control policies, the hysteretic
// mode-switching machine that governs them, and the field-level voidage
// balance overlay.
package control

import "github.com/mkvammen/fieldplan/internal/domain/well"

// Mode is a well's active control mode.
type Mode string

const (
	ModeRate Mode = "RATE"
	ModeBHP  Mode = "BHP"
)

// Policy is the control envelope of one well. Pressures are psi, rates
// sm³/day. BHPLimit is a floor for producers and a ceiling for injectors;
// the two thresholds sit between the limit and the rest of the operating
// range, forming the hysteresis band. Every well starts in rate control.
type Policy struct {
	Well       string
	Kind       well.Kind
	Mode       Mode
	TargetRate float64
	BHPLimit   float64
	RateToBHP  float64 // arms the switch away from rate control
	BHPToRate  float64 // arms the switch back

	// Forced-constraint limits, producers only. Zero disables.
	MaxWaterCut float64
	MaxGOR      float64
}
