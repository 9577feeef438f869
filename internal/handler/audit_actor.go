package handler

import (
	"net"
	"net/http"
	"strings"

	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

// actorFromRequest returns the identity attached by the authentication gate.
// Handlers mounted behind the gate always have one.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("no active session"))
		return model.Identity{}, false
	}
	return identity, true
}

func clientIP(r *http.Request) string {
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}

	return strings.TrimSpace(r.RemoteAddr)
}
