package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/model"
	"go-storefront/internal/session"
)

const testSecret = "middleware-test-secret"

func newTestGate(t *testing.T, now func() time.Time) (*SessionGate, *session.Codec) {
	t.Helper()

	codec, err := session.NewCodec(testSecret, time.Hour, session.WithClock(now))
	require.NoError(t, err)

	carrier := session.NewCarrier(session.NewCookiePolicy(false, http.SameSiteLaxMode, "", time.Hour))
	return NewSessionGate(codec, carrier), codec
}

// echoIdentity replies 200 with the identity found in the request context.
func echoIdentity(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !assert.True(t, ok) {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identity)
	})
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	return req
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := issuedAt
	gate, codec := newTestGate(t, func() time.Time { return current })
	handler := gate.Authenticate(echoIdentity(t))

	token, err := codec.Encode(model.Identity{UserID: "u-1", Role: model.RoleManager})
	require.NoError(t, err)

	t.Run("valid cookie attaches identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithToken(token))

		require.Equal(t, http.StatusOK, rec.Code)
		var got model.Identity
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, model.Identity{UserID: "u-1", Role: model.RoleManager}, got)
	})

	t.Run("missing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithToken(""))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "no active session", errorMessage(t, rec))
	})

	t.Run("tampered token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithToken(token+"x"))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid or expired session", errorMessage(t, rec))
	})

	t.Run("expired token looks like an invalid one", func(t *testing.T) {
		current = issuedAt.Add(2 * time.Hour)
		defer func() { current = issuedAt }()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithToken(token))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid or expired session", errorMessage(t, rec))
	})
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	gate, _ := newTestGate(t, time.Now)
	reached := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	adminOnly := gate.RequireRoles(model.RoleAdmin)(reached)

	tests := []struct {
		name   string
		role   model.Role
		status int
	}{
		{name: "admin proceeds", role: model.RoleAdmin, status: http.StatusNoContent},
		{name: "manager is not admin", role: model.RoleManager, status: http.StatusForbidden},
		{name: "user is not admin", role: model.RoleUser, status: http.StatusForbidden},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req = req.WithContext(WithIdentity(req.Context(), model.Identity{UserID: "u-1", Role: tc.role}))
			rec := httptest.NewRecorder()

			adminOnly.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusForbidden {
				assert.Equal(t, "insufficient permissions", errorMessage(t, rec))
			}
		})
	}

	t.Run("no identity is forbidden", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		adminOnly.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no hierarchy between roles", func(t *testing.T) {
		t.Parallel()

		managerOnly := gate.RequireRoles(model.RoleManager)(reached)
		req := httptest.NewRequest(http.MethodGet, "/stock", nil)
		req = req.WithContext(WithIdentity(req.Context(), model.Identity{UserID: "u-1", Role: model.RoleAdmin}))
		rec := httptest.NewRecorder()

		managerOnly.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGatesCompose(t *testing.T) {
	t.Parallel()

	gate, codec := newTestGate(t, time.Now)
	chain := gate.Authenticate(gate.RequireRoles(model.RoleAdmin, model.RoleManager)(echoIdentity(t)))

	token, err := codec.Encode(model.Identity{UserID: "m-1", Role: model.RoleManager})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, requestWithToken(token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, requestWithToken(""))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	handler := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rec))
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
