package metrics

import (
	"math"

	"github.com/san-kum/pidlab/internal/loop"
)

// Overshoot reports the worst overshoot past the setpoint, as a
// fraction of the setpoint magnitude. Only meaningful for step-like
// references.
type Overshoot struct {
	name  string
	worst float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (m *Overshoot) Name() string {
	return m.name
}

func (m *Overshoot) Observe(s loop.Sample) {
	if s.Setpoint == 0 {
		return
	}
	over := (s.Output - s.Setpoint) / math.Abs(s.Setpoint)
	if s.Setpoint < 0 {
		over = -over
	}
	if over > m.worst {
		m.worst = over
	}
}

func (m *Overshoot) Value() float64 {
	return m.worst
}

func (m *Overshoot) Reset() {
	m.worst = 0
}

// SettlingTime reports the earliest time after which the output never
// leaves the Band around the setpoint again. Returns the total run
// duration when the loop never settles.
type SettlingTime struct {
	name    string
	band    float64
	settled float64
	inBand  bool
	last    float64
}

// NewSettlingTime takes the band as a fraction of the setpoint (0.02
// for the usual 2% criterion).
func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{name: "settling_time", band: band}
}

func (m *SettlingTime) Name() string {
	return m.name
}

func (m *SettlingTime) Observe(s loop.Sample) {
	m.last = s.T

	tol := m.band * math.Abs(s.Setpoint)
	if tol == 0 {
		tol = m.band
	}

	if math.Abs(s.Err) <= tol {
		if !m.inBand {
			m.inBand = true
			m.settled = s.T
		}
	} else {
		m.inBand = false
	}
}

func (m *SettlingTime) Value() float64 {
	if !m.inBand {
		return m.last
	}
	return m.settled
}

func (m *SettlingTime) Reset() {
	m.settled = 0
	m.inBand = false
	m.last = 0
}
