package snn

import (
	"errors"
	"fmt"
)

// ErrCorruptState is returned when a snapshot's containers do not match the
// dimensions it declares.
var ErrCorruptState = errors.New("snn: corrupt network state")

// ShapeError describes the first container whose length disagrees with the
// snapshot dimensions.
type ShapeError struct {
	Field string // "layers", "weights", "biases" or "errors"
	Index []int  // Position of the offending container, outermost first
	Got   int
	Want  int
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if len(e.Index) == 0 {
		return fmt.Sprintf("snn: %s: got %d entries, want %d", e.Field, e.Got, e.Want)
	}
	return fmt.Sprintf("snn: %s%v: got %d entries, want %d", e.Field, e.Index, e.Got, e.Want)
}

// Unwrap lets errors.Is match ErrCorruptState.
func (e *ShapeError) Unwrap() error {
	return ErrCorruptState
}
