package services

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks malformed or missing caller input. Controllers map
// it to a 400.
var ErrInvalidInput = errors.New("invalid input")

// IncompletePlanError is returned when the inference service produced fewer
// daily plans than requested. The attempt must be discarded, never persisted
// or padded; the caller can retry generation.
type IncompletePlanError struct {
	Requested int
	Returned  int
}

func (e *IncompletePlanError) Error() string {
	return fmt.Sprintf("incomplete plan: got %d of %d requested days", e.Returned, e.Requested)
}
