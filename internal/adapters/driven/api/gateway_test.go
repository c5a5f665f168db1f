package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
)

// fakeSession is a scriptable SessionSource.
type fakeSession struct {
	tokens      []string // handed out in order
	idx         atomic.Int64
	refreshErr  error
	refreshes   atomic.Int64
	loggedOut   atomic.Bool
	unauthErr   error
}

func (f *fakeSession) EnsureValidAccess(_ context.Context, rejected bool) (string, error) {
	if f.unauthErr != nil {
		return "", f.unauthErr
	}
	if rejected {
		f.refreshes.Add(1)
		if f.refreshErr != nil {
			return "", f.refreshErr
		}
	}
	i := f.idx.Add(1) - 1
	if int(i) >= len(f.tokens) {
		i = int64(len(f.tokens) - 1)
	}
	return f.tokens[i], nil
}

func (f *fakeSession) Logout() error {
	f.loggedOut.Store(true)
	return nil
}

func TestGateway_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gw := NewGateway(server.URL, &fakeSession{tokens: []string{"tok-1"}}, nil)
	resp, err := gw.Do(context.Background(), http.MethodGet, "/documents/", nil, "")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestGateway_ReplaysOnceAfterRefresh(t *testing.T) {
	var calls atomic.Int64
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer tok-2", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	session := &fakeSession{tokens: []string{"tok-1", "tok-2"}}
	gw := NewGateway(server.URL, session, nil)

	resp, err := gw.Do(context.Background(), http.MethodPut, "/documents/42/", []byte("payload"), "application/json")
	require.NoError(t, err)
	resp.Body.Close()

	assert.EqualValues(t, 2, calls.Load())
	assert.EqualValues(t, 1, session.refreshes.Load())
	// The replay carries the same buffered body.
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.False(t, session.loggedOut.Load())
}

func TestGateway_SecondUnauthorizedForcesLogout(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := &fakeSession{tokens: []string{"tok-1", "tok-2"}}
	gw := NewGateway(server.URL, session, nil)

	_, err := gw.Do(context.Background(), http.MethodGet, "/documents/", nil, "")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	// Exactly two attempts, never a third.
	assert.EqualValues(t, 2, calls.Load())
	assert.True(t, session.loggedOut.Load())
}

func TestGateway_RefreshFailurePropagates(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := &fakeSession{tokens: []string{"tok-1"}, refreshErr: domain.ErrSessionExpired}
	gw := NewGateway(server.URL, session, nil)

	_, err := gw.Do(context.Background(), http.MethodGet, "/documents/", nil, "")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGateway_UnauthenticatedShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	}))
	defer server.Close()

	session := &fakeSession{unauthErr: domain.ErrUnauthenticated}
	gw := NewGateway(server.URL, session, nil)

	_, err := gw.Do(context.Background(), http.MethodGet, "/documents/", nil, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestGateway_NonAuthFailuresPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	session := &fakeSession{tokens: []string{"tok-1"}}
	gw := NewGateway(server.URL, session, nil)

	resp, err := gw.Do(context.Background(), http.MethodGet, "/documents/", nil, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	// 403 is not retried and not translated here.
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.EqualValues(t, 0, session.refreshes.Load())
}

func TestGateway_NetworkFailure(t *testing.T) {
	session := &fakeSession{tokens: []string{"tok-1"}}
	gw := NewGateway("http://127.0.0.1:1", session, nil)

	_, err := gw.Do(context.Background(), http.MethodGet, "/documents/", nil, "")
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestGateway_ResolvesAbsoluteURLs(t *testing.T) {
	fileServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pdf-bytes"))
	}))
	defer fileServer.Close()

	session := &fakeSession{tokens: []string{"tok-1"}}
	gw := NewGateway("http://api.invalid", session, nil)

	resp, err := gw.Do(context.Background(), http.MethodGet, fileServer.URL+"/media/v1.pdf", nil, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}
