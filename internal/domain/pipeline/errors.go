package pipeline

import "errors"

var (
	// ErrNotFound is returned when an application or child record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a duplicate active child record would be
	// created, or when a concurrent write invalidated the caller's view.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition is returned when a stage/sub-stage change violates
	// the pipeline ordering rules.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrTerminalState is returned when mutating an application that is
	// already HIRED or REJECTED.
	ErrTerminalState = errors.New("application is in a terminal stage")

	// ErrPrecondition is returned when a handler-specific business rule is
	// not met.
	ErrPrecondition = errors.New("precondition not met")

	// ErrValidation is returned when a required input is missing or malformed.
	ErrValidation = errors.New("validation failed")
)
