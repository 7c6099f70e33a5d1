package plant

import "github.com/san-kum/pidlab/internal/loop"

// Thermal is a first-order heated chamber: the control signal is
// heater power, the measured output is temperature.
//
//	dT/dt = (Gain*u - (T - Ambient)) / Tau
type Thermal struct {
	Gain    float64
	Tau     float64
	Ambient float64
}

func NewThermal() *Thermal {
	return &Thermal{
		Gain:    2.0,
		Tau:     20.0,
		Ambient: 20.0,
	}
}

func (p *Thermal) StateDim() int {
	return 1
}

func (p *Thermal) Output(x loop.State) float64 {
	return x[0]
}

func (p *Thermal) Derive(x loop.State, u, t float64) loop.State {
	temp := x[0]
	return loop.State{(p.Gain*u - (temp - p.Ambient)) / p.Tau}
}
