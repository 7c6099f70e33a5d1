// Package setpoint provides reference signal profiles for closed-loop
// runs. Each profile maps simulation time to the value the loop should
// track.
package setpoint

import "math"

// Step jumps from 0 to Level at Start.
type Step struct {
	Level float64
	Start float64
}

func NewStep(level float64) *Step {
	return &Step{Level: level}
}

func (s *Step) At(t float64) float64 {
	if t < s.Start {
		return 0
	}
	return s.Level
}

// Ramp rises from 0 at Slope per second, capped at Limit when Limit is
// non-zero.
type Ramp struct {
	Slope float64
	Limit float64
}

func NewRamp(slope float64) *Ramp {
	return &Ramp{Slope: slope}
}

func (r *Ramp) At(t float64) float64 {
	v := r.Slope * t
	if r.Limit != 0 && math.Abs(v) > math.Abs(r.Limit) {
		return r.Limit
	}
	return v
}

// Sine oscillates around Offset with the given amplitude and period.
type Sine struct {
	Amplitude float64
	Period    float64
	Offset    float64
}

func NewSine(amplitude, period float64) *Sine {
	return &Sine{Amplitude: amplitude, Period: period}
}

func (s *Sine) At(t float64) float64 {
	if s.Period == 0 {
		return s.Offset
	}
	return s.Offset + s.Amplitude*math.Sin(2*math.Pi*t/s.Period)
}

// Square alternates between +Amplitude and -Amplitude every half
// Period.
type Square struct {
	Amplitude float64
	Period    float64
}

func NewSquare(amplitude, period float64) *Square {
	return &Square{Amplitude: amplitude, Period: period}
}

func (s *Square) At(t float64) float64 {
	if s.Period == 0 {
		return s.Amplitude
	}
	if math.Mod(t, s.Period) < s.Period/2 {
		return s.Amplitude
	}
	return -s.Amplitude
}

// Constant holds a fixed value for all time.
type Constant struct {
	Value float64
}

func NewConstant(v float64) *Constant {
	return &Constant{Value: v}
}

func (c *Constant) At(t float64) float64 {
	return c.Value
}
