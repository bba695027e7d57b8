package calculator

import "errors"

var (
	// ErrInvalidArgument is returned for out-of-range inputs (negative totals or amounts,
	// non-positive participant counts, scores outside 0..100).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParticipantNotFound is returned when an operation names an unknown participant.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrLastParticipant is returned when removing the only participant of a session.
	ErrLastParticipant = errors.New("cannot remove the last participant")
)
