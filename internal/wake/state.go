package wake

// Phase records how far an engine has progressed through the tracking
// lifecycle. Continuation turns are only legal once an initial turn has run.
type Phase int

const (
	PhaseFresh Phase = iota
	PhaseTracked
)

// State carries the two running recurrence components and the arrival time
// of the most recently processed particle. It persists across turns and is
// only reset by constructing a new engine.
type State struct {
	X1       float64
	X2       float64
	LastTime float64 // [s]
}
