package clubauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/boulodrome/petanque-nights/internal/platform/logging"
	"github.com/boulodrome/petanque-nights/internal/platform/resilience"
	"github.com/boulodrome/petanque-nights/internal/usecase"
)

func TestClientVerifyAccessToken_ParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		var req map[string]string
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Fatalf("unexpected token value: %s", req["token"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"active":    true,
			"player_id": "p-marcel",
			"is_admin":  true,
		})
	}))
	defer srv.Close()

	client := NewClient(
		srv.Client(),
		srv.URL,
		"/v1/auth/introspect",
		resilience.CircuitBreakerConfig{Enabled: false},
		time.Minute,
		logging.NewNop(),
	)

	actor, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if actor.PlayerID != "p-marcel" || !actor.IsAdmin {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestClientVerifyAccessToken_CachesPrincipal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"active":    true,
			"player_id": "p-odile",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect",
		resilience.CircuitBreakerConfig{Enabled: false}, time.Minute, logging.NewNop())

	for range 3 {
		if _, err := client.VerifyAccessToken(context.Background(), "token-abc"); err != nil {
			t.Fatalf("verify access token: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 introspection call, got %d", got)
	}
}

func TestClientVerifyAccessToken_InactiveToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{"active": false})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect",
		resilience.CircuitBreakerConfig{Enabled: false}, time.Minute, logging.NewNop())

	_, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestClientVerifyAccessToken_EmptyToken(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, "http://sso.local", "/introspect",
		resilience.CircuitBreakerConfig{Enabled: false}, time.Minute, logging.NewNop())

	_, err := client.VerifyAccessToken(context.Background(), "  ")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestClientVerifyAccessToken_DeniedDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect",
		resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2}, time.Minute, logging.NewNop())

	for i := range 5 {
		_, err := client.VerifyAccessToken(context.Background(), "bad-token")
		if !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("call %d: expected unauthorized error, got %v", i, err)
		}
	}
}

func TestClientVerifyAccessToken_ServerErrorsOpenBreaker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect",
		resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute}, time.Minute, logging.NewNop())

	for range 2 {
		_, err := client.VerifyAccessToken(context.Background(), "token-abc")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected dependency unavailable, got %v", err)
		}
	}

	// Breaker is open now; the next call must fail fast.
	_, err := client.VerifyAccessToken(context.Background(), "token-other")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable from open breaker, got %v", err)
	}
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		path string
		want string
	}{
		{base: "http://sso.local/", path: "/v1/auth/introspect", want: "http://sso.local/v1/auth/introspect"},
		{base: "http://sso.local", path: "v1/auth/introspect", want: "http://sso.local/v1/auth/introspect"},
		{base: "http://sso.local", path: "", want: "http://sso.local"},
		{base: "http://sso.local", path: "https://other.local/introspect", want: "https://other.local/introspect"},
	}
	for _, tc := range tests {
		if got := buildURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("buildURL(%q, %q): want %q, got %q", tc.base, tc.path, tc.want, got)
		}
	}
}
