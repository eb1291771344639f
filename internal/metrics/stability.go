package metrics

import (
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/sim"
)

// Containment is the fraction of observed steps in which the boundary pass
// left every disk fully inside the box. Observations happen after
// integration, so positions are taken back by one step of motion before
// the check.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s *particle.System, st sim.StepStats) {
	c.samples++
	if st.Dt <= 0 {
		if !s.Contained() {
			c.violations++
		}
		return
	}
	for i, p := range s.Positions {
		if !s.Bounds.ContainsDisk(p.Sub(s.Velocities[i].Scale(st.Dt)), s.Radii[i]) {
			c.violations++
			return
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
