package oterror

import "fmt"

// StructuralError indicates a frame index that does not map into the
// script, either because it is out of range or because the script has no
// segments at all.
type StructuralError struct {
	Err string
}

func NewStructural(format string, args ...interface{}) *StructuralError {
	return &StructuralError{Err: fmt.Sprintf(format, args...)}
}

func (e *StructuralError) Error() string {
	return e.Err
}

// SimulationError indicates that the physics capability failed while
// advancing a candidate. It is non-fatal: the caller discards the candidate
// and may try another.
type SimulationError struct {
	Frame int
	Err   error
}

func NewSimulation(frame int, err error) *SimulationError {
	return &SimulationError{Frame: frame, Err: err}
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed at frame %d: %v", e.Frame, e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}

// SerializationError indicates that a finalized script failed to serialize.
// Serialization is read-only, so in-memory state is never affected.
type SerializationError struct {
	Err error
}

func NewSerialization(err error) *SerializationError {
	return &SerializationError{Err: err}
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("script serialization failed: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Error is a generic internal error used by assertions for states that the
// public operations are supposed to make unreachable.
type Error struct {
	Err string
}

func New(format string, args ...interface{}) *Error {
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err
}
