package driven

import "github.com/docuflow-labs/docuflow-cli/internal/core/domain"

// TokenStore persists the session (token pair + cached profile) across
// CLI invocations. It carries no protocol logic beyond get, put and clear;
// the refresh protocol lives in the auth session that owns the store.
type TokenStore interface {
	// Get returns the stored session, or nil when logged out.
	Get() (*domain.Session, error)

	// Put stores a session, replacing any previous one.
	Put(session domain.Session) error

	// Clear removes the stored session.
	Clear() error
}
