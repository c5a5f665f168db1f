// Package auth implements the authenticated session: the login and
// refresh protocol against the EDMS auth endpoints, with a single-flight
// guarantee on refresh.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driven"
	"github.com/docuflow-labs/docuflow-cli/internal/logger"
)

// DefaultTimeout is the HTTP timeout for auth endpoint calls.
const DefaultTimeout = 30 * time.Second

// Session owns the token pair and the refresh protocol. It is safe for
// concurrent use: when several callers observe a rejected access token at
// once, exactly one refresh request is issued and every caller receives
// that refresh's outcome.
type Session struct {
	store   driven.TokenStore
	client  *http.Client
	baseURL string

	mu      sync.Mutex
	current *domain.Session
	flight  *refreshFlight
}

// refreshFlight is the in-flight refresh shared by queued callers.
type refreshFlight struct {
	done   chan struct{}
	access string
	err    error
}

// NewSession creates a session backed by the given token store.
// A nil httpClient falls back to a default with DefaultTimeout.
func NewSession(baseURL string, store driven.TokenStore, httpClient *http.Client) *Session {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Session{
		store:   store,
		client:  httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// loginResponse is the wire shape of POST /auth/login/.
type loginResponse struct {
	Access  string             `json:"access"`
	Refresh string             `json:"refresh"`
	User    domain.UserProfile `json:"user"`
}

// Login authenticates with email and password. A rejected attempt
// surfaces domain.ErrInvalidCredentials and stores nothing.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	resp, err := s.post(ctx, "/auth/login/", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return nil, domain.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if body.Access == "" || body.Refresh == "" {
		return nil, fmt.Errorf("login response missing tokens")
	}

	session := domain.Session{
		Tokens: domain.TokenPair{Access: body.Access, Refresh: body.Refresh},
		User:   body.User,
	}

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()

	if err := s.store.Put(session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	logger.Info("logged in as %s", body.User.Email)
	return &session, nil
}

// EnsureValidAccess returns an access token for the next request.
//
// With rejected=false it returns the held token, or
// domain.ErrUnauthenticated when logged out. With rejected=true the caller
// signals the current token was refused by the server: the session joins
// an in-flight refresh if one exists, otherwise starts exactly one. Every
// caller queued on the same refresh observes the same outcome — the new
// token or domain.ErrSessionExpired.
func (s *Session) EnsureValidAccess(ctx context.Context, rejected bool) (string, error) {
	s.mu.Lock()

	if f := s.flight; f != nil {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-f.done:
		}
		return f.access, f.err
	}

	if s.current == nil {
		stored, err := s.store.Get()
		if err != nil {
			s.mu.Unlock()
			return "", fmt.Errorf("load session: %w", err)
		}
		s.current = stored
	}
	if s.current == nil {
		s.mu.Unlock()
		return "", domain.ErrUnauthenticated
	}

	if !rejected {
		access := s.current.Tokens.Access
		s.mu.Unlock()
		return access, nil
	}

	f := &refreshFlight{done: make(chan struct{})}
	s.flight = f
	refreshToken := s.current.Tokens.Refresh
	s.mu.Unlock()

	access, err := s.refresh(ctx, refreshToken)

	s.mu.Lock()
	if err != nil {
		// Irrecoverable: the session transitions to logged out and every
		// waiter sees the same expiry.
		logger.Warn("token refresh failed: %v", err)
		s.current = nil
		_ = s.store.Clear()
		f.err = fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
	} else if s.current == nil {
		// Logged out while the refresh was in flight.
		f.err = domain.ErrUnauthenticated
	} else {
		s.current.Tokens.Access = access
		_ = s.store.Put(*s.current)
		f.access = access
		logger.Debug("access token refreshed")
	}
	s.flight = nil
	s.mu.Unlock()
	close(f.done)

	return f.access, f.err
}

// refresh exchanges the refresh token for a new access token.
func (s *Session) refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", fmt.Errorf("no refresh token")
	}

	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}

	resp, err := s.post(ctx, "/auth/refresh/", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var body struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if body.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return body.Access, nil
}

// Logout clears the session. Subsequent EnsureValidAccess calls fail with
// domain.ErrUnauthenticated until a new login occurs.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.store.Clear()
}

// CurrentUser returns the cached profile of the logged-in user.
func (s *Session) CurrentUser() (*domain.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		stored, err := s.store.Get()
		if err != nil || stored == nil {
			return nil, false
		}
		s.current = stored
	}
	user := s.current.User
	return &user, true
}

// post sends a JSON POST to an auth endpoint.
func (s *Session) post(ctx context.Context, path string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	return resp, nil
}
