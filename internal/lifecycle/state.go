// Package lifecycle drives the process through
// UNSTARTED → LOADING → SERVING → SHUTTING_DOWN → STOPPED.
package lifecycle

import "fmt"

// State is a lifecycle phase.
type State int32

const (
	Unstarted State = iota
	Loading
	Serving
	ShuttingDown
	Stopped
)

var stateNames = [...]string{
	Unstarted:    "UNSTARTED",
	Loading:      "LOADING",
	Serving:      "SERVING",
	ShuttingDown: "SHUTTING_DOWN",
	Stopped:      "STOPPED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return stateNames[s]
}

// next lists the legal successors of each state. A failed load goes
// straight from LOADING to STOPPED.
var next = map[State][]State{
	Unstarted:    {Loading},
	Loading:      {Serving, Stopped},
	Serving:      {ShuttingDown},
	ShuttingDown: {Stopped},
}

func canMove(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}
