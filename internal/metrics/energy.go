package metrics

import (
	"math"

	"github.com/san-kum/swing/internal/dynamo"
)

// Energer is implemented by physics.DoublePendulum.
type Energer interface {
	Energy(s dynamo.State) float64
}

// Energy reports the mean mechanical energy over the observed steps.
type Energy struct {
	name        string
	dyn         Energer
	samples     int
	totalEnergy float64
}

func NewEnergy(dyn Energer) *Energy {
	return &Energy{name: "energy", dyn: dyn}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, step int) {
	e.totalEnergy += e.dyn.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyLoss reports how much of the first observed energy, relative to the
// hanging rest position, has been bled off by damping. 0 means none, 1 means
// the pendulum has come to rest.
type EnergyLoss struct {
	name    string
	dyn     Energer
	rest    float64
	initial float64
	current float64
	samples int
}

func NewEnergyLoss(dyn Energer) *EnergyLoss {
	return &EnergyLoss{name: "energy_loss", dyn: dyn, rest: dyn.Energy(dynamo.State{})}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(x dynamo.State, step int) {
	energy := e.dyn.Energy(x) - e.rest
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.samples == 0 || e.initial == 0 {
		return 0
	}
	return 1 - e.current/e.initial
}

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}

// PeakSpeed tracks the largest angular speed of either link.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(x dynamo.State, step int) {
	p.peak = math.Max(p.peak, math.Max(math.Abs(x.Omega1), math.Abs(x.Omega2)))
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }
