package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"vivaah_server/models"
	"vivaah_server/utils"
)

// AuthJWT verifies the bearer token and puts the caller into the request context
func AuthJWT(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := utils.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid Authorization header")
				return
			}
			caller, err := utils.VerifyToken(secret, raw)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "requestId", RequestIDFromContext(r.Context()), "error", err)
				utils.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// RequireAdmin blocks routes reserved for administrators
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromContext(r.Context())
		if !caller.Authenticated() {
			utils.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid Authorization header")
			return
		}
		if !caller.IsAdmin() {
			utils.WriteError(w, http.StatusForbidden, "FORBIDDEN", "administrator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithCaller stores caller in ctx
func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, ctxKeyCaller, caller)
}

// CallerFromContext returns the authenticated caller, or the zero Caller
func CallerFromContext(ctx context.Context) models.Caller {
	caller, _ := ctx.Value(ctxKeyCaller).(models.Caller)
	return caller
}
