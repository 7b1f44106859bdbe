package workflow

import "errors"

// Sentinel errors returned by the workflow engine. Controllers map these
// to HTTP status codes; nothing here is retried.
var (
	// ErrNotFound means the member or attendance record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden means the actor may not perform the requested transition.
	ErrForbidden = errors.New("not permitted")

	// ErrInvalidState means the record is not in a status that allows the
	// requested transition.
	ErrInvalidState = errors.New("record is not pending")

	// ErrDuplicateAttendance means an open (pending or approved) record
	// already exists for the member on the same calendar day.
	ErrDuplicateAttendance = errors.New("attendance already logged for this member today")

	// ErrMissingBranch means the actor or member has no branch assignment.
	ErrMissingBranch = errors.New("branch assignment missing")

	// ErrValidation means the request input is missing or invalid.
	ErrValidation = errors.New("invalid input")
)
