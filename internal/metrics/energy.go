package metrics

import (
	"math"

	"github.com/san-kum/sandsim/internal/dynamo"
)

// KineticEnergy averages, over observed frames, the total kinetic
// energy of movable particles measured in per-sub-step displacement
// units. Gases count with the magnitude of their mass.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(w dynamo.World, t float64) {
	sum := 0.0
	ps := w.Particles()
	for i := range ps {
		p := &ps[i]
		if p.Static || p.Sleeping {
			continue
		}
		sum += 0.5 * math.Abs(p.Mass) * p.Velocity().LenSq()
	}
	e.last = sum
	e.total += sum
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last returns the energy of the most recent frame.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}
