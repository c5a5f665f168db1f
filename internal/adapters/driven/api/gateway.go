// Package api implements the HTTP layer of the docuflow CLI: the request
// gateway that keeps calls authenticated across access-token expiry, and
// the typed document client on top of it.
package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
	"github.com/docuflow-labs/docuflow-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// ProactiveRate is the proactive throttle rate for API calls.
	ProactiveRate = 10 // req/sec

	// ProactiveBurst allows short bursts of interleaved requests.
	ProactiveBurst = 5
)

// SessionSource supplies access tokens for outbound requests.
// rejected=true signals the previous token was refused and forces (or
// joins) a refresh. Implemented by auth.Session.
type SessionSource interface {
	EnsureValidAccess(ctx context.Context, rejected bool) (string, error)
	Logout() error
}

// Gateway wraps outbound API calls: it attaches the bearer credential,
// and on an authentication failure refreshes the token and replays the
// request exactly once. All other failures pass through untouched.
type Gateway struct {
	session SessionSource
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewGateway creates a gateway for the given API base URL.
// A nil httpClient falls back to a default with DefaultTimeout.
func NewGateway(baseURL string, session SessionSource, httpClient *http.Client) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Gateway{
		session: session,
		client:  httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(ProactiveRate), ProactiveBurst),
	}
}

// Do sends an authenticated request. path may be relative to the base URL
// or an absolute URL (version download links are owned by the file store).
// The body is buffered by the caller so the request can be replayed after
// a token refresh.
//
// A 401 triggers the refresh-and-replay path once; a second 401 on the
// replay forces logout and surfaces domain.ErrSessionExpired. The caller
// owns the response body.
func (g *Gateway) Do(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := g.session.EnsureValidAccess(ctx, false)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	resp, err := g.send(ctx, method, path, body, contentType, token, requestID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	// Rejected token: force or join a refresh, then replay exactly once.
	logger.Debug("401 on %s %s, refreshing and replaying", method, path)
	token, err = g.session.EnsureValidAccess(ctx, true)
	if err != nil {
		return nil, err
	}

	resp, err = g.send(ctx, method, path, body, contentType, token, requestID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		_ = g.session.Logout()
		return nil, domain.ErrSessionExpired
	}
	return resp, nil
}

// send builds and executes one HTTP attempt.
func (g *Gateway) send(
	ctx context.Context, method, path string, body []byte, contentType, token, requestID string,
) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.resolve(path), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	return resp, nil
}

// resolve joins a relative path with the base URL; absolute URLs pass
// through unchanged.
func (g *Gateway) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return g.baseURL + path
}
