package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go-storefront/internal/metrics"
	"go-storefront/internal/model"
	"go-storefront/internal/session"
	"go-storefront/pkg/apierror"
)

const (
	msgNoSession      = "no active session"
	msgInvalidSession = "invalid or expired session"
	msgForbidden      = "insufficient permissions"
)

type tokenDecoder interface {
	Decode(token string) (model.Identity, error)
}

type tokenExtractor interface {
	Extract(r *http.Request) (string, bool)
}

type contextKey string

const identityContextKey contextKey = "identity"

// SessionGate authenticates requests from the session cookie and authorizes
// them against per-route role allow-lists. It never touches the store.
type SessionGate struct {
	decoder   tokenDecoder
	extractor tokenExtractor
}

func NewSessionGate(decoder tokenDecoder, extractor tokenExtractor) *SessionGate {
	return &SessionGate{decoder: decoder, extractor: extractor}
}

// Authenticate attaches the decoded identity to the request context or ends
// the request with 401. Expired and invalid tokens look the same to the
// client; the reason is only logged.
func (g *SessionGate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := g.extractor.Extract(r)
		if !ok {
			rejectUnauthenticated(w, r, "missing", msgNoSession)
			return
		}

		identity, err := g.decoder.Decode(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, session.ErrExpired) {
				reason = "expired"
			}
			rejectUnauthenticated(w, r, reason, msgInvalidSession)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireRoles lets a request through only when the attached identity's role
// is one of allowed. Roles are matched exactly; no role implies another.
func (g *SessionGate) RequireRoles(allowed ...model.Role) func(http.Handler) http.Handler {
	roleSet := make(map[model.Role]struct{}, len(allowed))
	for _, role := range allowed {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				rejectForbidden(w, r, "no_identity", "")
				return
			}

			if _, exists := roleSet[identity.Role]; !exists {
				rejectForbidden(w, r, "role", identity.Role)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	if !ok || identity.UserID == "" {
		return model.Identity{}, false
	}
	return identity, true
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request, reason string, message string) {
	metrics.GateRejectionsTotal.WithLabelValues(metrics.GateAuthentication, reason).Inc()
	slog.Warn("authentication rejected", "reason", reason, "method", r.Method, "path", r.URL.Path)
	writeAPIError(w, apierror.Unauthenticated(message))
}

func rejectForbidden(w http.ResponseWriter, r *http.Request, reason string, role model.Role) {
	metrics.GateRejectionsTotal.WithLabelValues(metrics.GateAuthorization, reason).Inc()
	slog.Warn("authorization rejected", "reason", reason, "role", role, "method", r.Method, "path", r.URL.Path)
	writeAPIError(w, apierror.Forbidden(msgForbidden))
}
