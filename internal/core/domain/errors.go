package domain

import "errors"

// Domain errors represent workflow and protocol failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidCredentials indicates a login attempt was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated indicates no session exists.
	// A new login is required before any authenticated call.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrSessionExpired indicates the refresh token was rejected or a
	// replayed request was still unauthorized. The session is cleared and
	// the user must log in again.
	ErrSessionExpired = errors.New("session expired")

	// ErrActionRejected indicates a workflow action is not permitted,
	// either because the server omitted it from allowed_actions or because
	// the server declined the call (e.g. a stale permission snapshot).
	// Callers must re-fetch the document before offering further actions.
	ErrActionRejected = errors.New("action rejected")

	// ErrNotFound indicates a requested document or version does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates required fields are missing or malformed.
	// Raised before any network call is made.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedImageFormat indicates a signature image that is
	// neither PNG nor JPEG.
	ErrUnsupportedImageFormat = errors.New("unsupported image format")

	// ErrCorruptSource indicates the source PDF could not be parsed.
	ErrCorruptSource = errors.New("corrupt source document")

	// ErrVersionSequence indicates a server payload whose version numbers
	// are not ascending and gap-free from 1. Such a document is never
	// rendered or acted on.
	ErrVersionSequence = errors.New("broken version sequence")

	// ErrNetworkFailure indicates a transport-level failure.
	ErrNetworkFailure = errors.New("network failure")
)
