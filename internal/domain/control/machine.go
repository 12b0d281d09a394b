package control

import "github.com/mkvammen/fieldplan/internal/domain/well"

// Observation is one sampled well state fed to the machine.
type Observation struct {
	BHP      float64 // psi
	WaterCut float64 // fraction of produced liquid
	GOR      float64 // sm³/sm³
}

// Decision reports what one observation did to the machine.
type Decision struct {
	Mode     Mode
	Switched bool
	Limited  bool
	Reason   string
}

type transitionKey struct {
	kind well.Kind
	mode Mode
}

type transition struct {
	to      Mode
	trigger func(p *Policy, obs Observation) bool
	reason  string
}

// The full mode table. Producers guard a BHP floor, so pressure falling to
// the arm threshold leaves rate control and recovery above the higher
// return threshold restores it. Injectors guard a ceiling and mirror both
// comparisons.
var transitions = map[transitionKey]transition{
	{well.KindProducer, ModeRate}: {
		to:      ModeBHP,
		trigger: func(p *Policy, obs Observation) bool { return obs.BHP <= p.RateToBHP },
		reason:  "bhp at or below arm threshold",
	},
	{well.KindProducer, ModeBHP}: {
		to:      ModeRate,
		trigger: func(p *Policy, obs Observation) bool { return obs.BHP > p.BHPToRate },
		reason:  "bhp recovered above return threshold",
	},
	{well.KindInjector, ModeRate}: {
		to:      ModeBHP,
		trigger: func(p *Policy, obs Observation) bool { return obs.BHP >= p.RateToBHP },
		reason:  "bhp at or above arm threshold",
	},
	{well.KindInjector, ModeBHP}: {
		to:      ModeRate,
		trigger: func(p *Policy, obs Observation) bool { return obs.BHP < p.BHPToRate },
		reason:  "bhp eased below return threshold",
	},
}

// Machine advances one policy's control mode over successive observations.
// Because the two thresholds are strictly ordered, a pressure trace
// oscillating inside the band never switches mode.
type Machine struct {
	policy Policy
}

// NewMachine starts a machine from a built policy.
func NewMachine(p Policy) *Machine {
	return &Machine{policy: p}
}

// Mode returns the current control mode.
func (m *Machine) Mode() Mode {
	return m.policy.Mode
}

// Evaluate advances the machine with one observation. Water-cut and GOR
// breaches constrain producers independent of the BHP state.
func (m *Machine) Evaluate(obs Observation) Decision {
	d := Decision{Mode: m.policy.Mode}
	key := transitionKey{kind: m.policy.Kind, mode: m.policy.Mode}
	if tr, ok := transitions[key]; ok && tr.trigger(&m.policy, obs) {
		m.policy.Mode = tr.to
		d.Mode = tr.to
		d.Switched = true
		d.Reason = tr.reason
	}
	if m.policy.Kind == well.KindProducer {
		switch {
		case m.policy.MaxWaterCut > 0 && obs.WaterCut > m.policy.MaxWaterCut:
			d.Limited = true
			if d.Reason == "" {
				d.Reason = "water cut above limit"
			}
		case m.policy.MaxGOR > 0 && obs.GOR > m.policy.MaxGOR:
			d.Limited = true
			if d.Reason == "" {
				d.Reason = "gor above limit"
			}
		}
	}
	return d
}
