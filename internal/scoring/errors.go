package scoring

import "fmt"

// InvalidRequest reports a missing or malformed field caught at a transport
// boundary, before any reconstruction or encoding.
type InvalidRequest struct {
	Field  string
	Reason string
}

func (e *InvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}
