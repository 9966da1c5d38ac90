package middleware

import (
	"net/http"
	"strings"

	"botflow-backend/pkg/auth"
	"botflow-backend/pkg/common"
	apperrors "botflow-backend/pkg/errors"

	"go.uber.org/zap"
)

// Authenticate rejects requests that do not carry a valid bearer
// token. The auth context is attached to the request context for
// downstream permission checks.
func Authenticate(svc *auth.Service, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(300)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ipLimiter.Allow(getClientIP(r)) {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
				return
			}

			ac := svc.FromHeader(r.Header.Get("Authorization"))
			if !ac.Authenticated {
				logger.Warn("Unauthenticated request",
					zap.String("path", r.URL.Path),
					zap.String("reason", ac.Error),
				)
				common.RespondError(w, http.StatusUnauthorized, errorCode(ac.Error), ac.Error)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

// RequirePermission rejects authenticated requests whose role lacks
// the given access to the resource.
func RequirePermission(resource string, perm auth.Permission) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := auth.FromContext(r.Context())
			if !ac.Authenticated {
				common.RespondError(w, http.StatusUnauthorized, apperrors.CodeAuthenticationRequired, "Authentication required")
				return
			}
			if !auth.HasPermission(ac.User.Role, resource, perm) {
				common.RespondError(w, http.StatusForbidden, apperrors.CodeInsufficientPermissions, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// errorCode maps an authentication failure message to its stable
// code. The auth context carries only the message text, so match on
// the sentinel strings.
func errorCode(message string) string {
	switch message {
	case "No token provided":
		return apperrors.CodeAuthenticationRequired
	case auth.ErrExpiredToken.Error():
		return apperrors.CodeTokenExpired
	default:
		return apperrors.CodeInvalidToken
	}
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
