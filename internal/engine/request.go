package engine

import (
	"errors"
	"fmt"
)

// DefaultNumTracks is the track count used when a request leaves it unset.
const DefaultNumTracks = 200

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("engine: invalid input")

// ValidationError describes the first field that failed validation.
type ValidationError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("engine: invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Request is an immutable description of one scheduling run.
type Request struct {
	Policy    Policy
	Requests  []int
	Head      int
	Previous  int
	Direction Direction
	NumTracks int
}

// Tracks returns the effective track count.
func (r Request) Tracks() int {
	if r.NumTracks == 0 {
		return DefaultNumTracks
	}
	return r.NumTracks
}

// Validate rejects requests the engine refuses to schedule. Nothing is
// clamped or dropped: the first offending field is reported.
func (r Request) Validate() error {
	if !r.Policy.Valid() {
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidInput, r.Policy)
	}
	if r.Policy.Directional() && !r.Direction.Valid() {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, r.Direction)
	}
	tracks := r.Tracks()
	if tracks < 1 {
		return &ValidationError{Field: "num_tracks", Value: r.NumTracks, Reason: "must be positive"}
	}
	if err := checkTrack("head", r.Head, tracks); err != nil {
		return err
	}
	if err := checkTrack("previous", r.Previous, tracks); err != nil {
		return err
	}
	for i, track := range r.Requests {
		if err := checkTrack(fmt.Sprintf("requests[%d]", i), track, tracks); err != nil {
			return err
		}
	}
	return nil
}

func checkTrack(field string, value, tracks int) error {
	if value < 0 || value >= tracks {
		return &ValidationError{
			Field:  field,
			Value:  value,
			Reason: fmt.Sprintf("outside [0, %d)", tracks),
		}
	}
	return nil
}
