package model

import "fmt"

// LoadError means the artifact could not be turned into a usable model.
// It is only produced at startup and is fatal there.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// InferenceError reports input the loaded model cannot score. With a correct
// encoder it never happens; callers treat it as a bug, not a client error.
type InferenceError struct {
	Reason string
}

func (e *InferenceError) Error() string {
	return "inference invariant violated: " + e.Reason
}
