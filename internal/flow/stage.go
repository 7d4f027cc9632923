package flow

// Stage is the client's position in the flow. It only ever moves forward:
// selection -> message -> reveal.
type Stage string

const (
	StageSelection Stage = "selection"
	StageMessage   Stage = "message"
	StageReveal    Stage = "reveal"
)

func (s Stage) rank() int {
	switch s {
	case StageMessage:
		return 1
	case StageReveal:
		return 2
	default:
		return 0
	}
}

// After reports whether s comes strictly after other in the flow.
func (s Stage) After(other Stage) bool {
	return s.rank() > other.rank()
}
