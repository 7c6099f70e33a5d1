// Package pid implements a discrete-time PID controller with
// conditional-integration anti-windup and an exponentially smoothed
// derivative term.
//
// The controller is driven by the caller: call [Controller.Step] once
// per sampling interval with the current error (setpoint minus
// measurement) and feed the returned value to the actuator:
//
//	c, err := pid.New(0.01, -1.0, 1.0)
//	if err != nil { ... }
//	c.SetKp(2.0)
//	c.SetKi(0.5)
//	for range ticker.C {
//		u := c.Step(setpoint - measure())
//		actuate(u)
//	}
//
// Step returns the raw, unclamped control signal. The clamp bounds
// given to [New] only gate integral accumulation: when an output falls
// outside them, integration is frozen on the following step until the
// output comes back inside. Saturating the actuator itself is the
// caller's job.
//
// # Thread Safety
//
// Controller instances are NOT thread-safe. Each instance assumes a
// single writer; callers driving one controller from several
// goroutines must serialize Step and setter calls externally.
package pid
