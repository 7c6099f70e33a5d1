package pid

import "math"

// Controller holds the gains, sampling interval, anti-windup clamp
// bounds and recurrence state of one PID loop. The zero value is not
// usable; construct with New.
type Controller struct {
	dt float64

	kp float64
	ki float64
	kd float64

	clampLo float64
	clampHi float64

	// Exponential smoothing coefficient for the derivative term:
	//   d[n] = smooth*(e[n]-e[n-1])/dt + (1-smooth)*d[n-1]
	// smooth = 1 disables smoothing.
	smooth float64

	p float64
	i float64
	d float64

	// unclamped latches whether the previous output fell strictly
	// inside (clampLo, clampHi); integration is gated on it one step
	// later.
	unclamped bool

	ePrev float64
}

// New returns a controller with the given sampling interval and
// anti-windup clamp bounds. Gains start at zero and smoothing is off
// (smooth = 1), so the controller outputs 0 until gains are set.
func New(dt, clampLo, clampHi float64) (*Controller, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) ||
		math.IsNaN(clampLo) || math.IsInf(clampLo, 0) ||
		math.IsNaN(clampHi) || math.IsInf(clampHi, 0) {
		return nil, ErrNonFinite
	}
	if dt <= 0 {
		return nil, ErrNonPositiveDt
	}
	if clampLo >= clampHi {
		return nil, ErrInvertedClamp
	}
	return &Controller{
		dt:        dt,
		clampLo:   clampLo,
		clampHi:   clampHi,
		smooth:    1.0,
		unclamped: true,
	}, nil
}

// Step consumes one error sample and returns the raw control output
// kp*e + ki*i + kd*d. The return value is not clamped; the clamp
// bounds only decide whether the NEXT call accumulates the integral.
func (c *Controller) Step(e float64) float64 {
	if c.unclamped {
		c.i += c.dt * e
	}

	c.d = c.smooth*(e-c.ePrev)/c.dt + (1.0-c.smooth)*c.d

	u := c.kp*e + c.ki*c.i + c.kd*c.d

	c.unclamped = c.clampLo < u && u < c.clampHi
	c.ePrev = e

	return u
}

// Reset clears the recurrence state (integral, derivative, previous
// error) and re-opens the integration gate. Gains, dt, clamp bounds
// and smoothing are kept.
func (c *Controller) Reset() {
	c.p = 0
	c.i = 0
	c.d = 0
	c.ePrev = 0
	c.unclamped = true
}

// SetKp sets the proportional gain. Negative values are ignored and
// the prior gain is kept.
func (c *Controller) SetKp(kp float64) {
	if kp >= 0 {
		c.kp = kp
	}
}

// SetKi sets the integral gain. Negative values are ignored.
func (c *Controller) SetKi(ki float64) {
	if ki >= 0 {
		c.ki = ki
	}
}

// SetKd sets the derivative gain. Negative values are ignored.
func (c *Controller) SetKd(kd float64) {
	if kd >= 0 {
		c.kd = kd
	}
}

// SetSmooth sets the derivative smoothing coefficient. Values outside
// [0, 1] are ignored.
func (c *Controller) SetSmooth(smooth float64) {
	if smooth >= 0 && smooth <= 1 {
		c.smooth = smooth
	}
}

func (c *Controller) Dt() float64      { return c.dt }
func (c *Controller) Kp() float64      { return c.kp }
func (c *Controller) Ki() float64      { return c.ki }
func (c *Controller) Kd() float64      { return c.kd }
func (c *Controller) ClampLo() float64 { return c.clampLo }
func (c *Controller) ClampHi() float64 { return c.clampHi }
func (c *Controller) Smooth() float64  { return c.smooth }

// P reports the stored proportional term. Step never writes this slot
// (the live proportional contribution is kp*e computed inline), so it
// stays at its reset value; it exists for diagnostic parity with I
// and D.
func (c *Controller) P() float64 { return c.p }

// I reports the accumulated integral term.
func (c *Controller) I() float64 { return c.i }

// D reports the smoothed derivative term.
func (c *Controller) D() float64 { return c.d }

// Unclamped reports whether the most recent output fell strictly
// inside the clamp bounds. True after construction and Reset.
func (c *Controller) Unclamped() bool { return c.unclamped }

// PrevErr reports the error sample from the previous Step call.
func (c *Controller) PrevErr() float64 { return c.ePrev }

// GetParams returns tunable parameters for live adjustment
func (c *Controller) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     c.kp,
		"ki":     c.ki,
		"kd":     c.kd,
		"smooth": c.smooth,
	}
}

// SetParam adjusts a named parameter through the corresponding setter,
// so out-of-domain values are silently ignored. Unknown names are a
// no-op.
func (c *Controller) SetParam(name string, value float64) {
	switch name {
	case "kp":
		c.SetKp(value)
	case "ki":
		c.SetKi(value)
	case "kd":
		c.SetKd(value)
	case "smooth":
		c.SetSmooth(value)
	}
}
