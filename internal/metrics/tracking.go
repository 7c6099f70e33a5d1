package metrics

import (
	"math"

	"github.com/san-kum/pidlab/internal/loop"
)

// IAE is the integral of absolute tracking error.
type IAE struct {
	name  string
	sum   float64
	prevT float64
	first bool
}

func NewIAE() *IAE {
	return &IAE{name: "iae", first: true}
}

func (m *IAE) Name() string {
	return m.name
}

func (m *IAE) Observe(s loop.Sample) {
	if m.first {
		m.prevT = s.T
		m.first = false
		return
	}
	dt := s.T - m.prevT
	m.sum += math.Abs(s.Err) * dt
	m.prevT = s.T
}

func (m *IAE) Value() float64 {
	return m.sum
}

func (m *IAE) Reset() {
	m.sum = 0
	m.prevT = 0
	m.first = true
}

// ISE is the integral of squared tracking error.
type ISE struct {
	name  string
	sum   float64
	prevT float64
	first bool
}

func NewISE() *ISE {
	return &ISE{name: "ise", first: true}
}

func (m *ISE) Name() string {
	return m.name
}

func (m *ISE) Observe(s loop.Sample) {
	if m.first {
		m.prevT = s.T
		m.first = false
		return
	}
	dt := s.T - m.prevT
	m.sum += s.Err * s.Err * dt
	m.prevT = s.T
}

func (m *ISE) Value() float64 {
	return m.sum
}

func (m *ISE) Reset() {
	m.sum = 0
	m.prevT = 0
	m.first = true
}
