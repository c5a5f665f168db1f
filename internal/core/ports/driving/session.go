package driving

import (
	"context"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
)

// AuthService drives the authentication lifecycle from the CLI.
type AuthService interface {
	// Login authenticates and persists the session.
	Login(ctx context.Context, email, password string) (*domain.Session, error)

	// Logout clears the persisted session.
	Logout() error

	// CurrentUser returns the cached profile when logged in.
	CurrentUser() (*domain.UserProfile, bool)
}
