package loop

// None is a passthrough controller producing zero control, for
// open-loop runs.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Step(e float64) float64 {
	return 0
}
