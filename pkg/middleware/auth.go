package middleware

import (
	"context"
	"net/http"
	"strings"

	"slotbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// TokenVerifier checks a bearer token and returns the subject email and
// role it carries. The auth service satisfies this interface.
type TokenVerifier interface {
	VerifyToken(tokenString string) (email string, role string, err error)
}

type authContextKey string

const (
	AuthEmailKey authContextKey = "auth_email"
	AuthRoleKey  authContextKey = "auth_role"
)

// AdminAuth gates a handler behind a valid bearer token with the admin
// role. Unauthenticated requests get 401, authenticated non-admins 403.
func AdminAuth(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing or malformed Authorization header"}`))
				return
			}

			email, role, err := verifier.VerifyToken(token)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid or expired token"}`))
				return
			}

			if role != "admin" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"Insufficient permissions"}`))
				return
			}

			ctx := context.WithValue(r.Context(), AuthEmailKey, email)
			ctx = context.WithValue(ctx, AuthRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthEmail returns the authenticated subject from the request context,
// or an empty string outside an AdminAuth-gated handler.
func AuthEmail(ctx context.Context) string {
	if email, ok := ctx.Value(AuthEmailKey).(string); ok {
		return email
	}
	return ""
}

// AdminHandle is the per-route variant of AdminAuth for httprouter
// handlers registered individually.
func AdminHandle(verifier TokenVerifier, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := bearerToken(r)
			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing or malformed Authorization header"}`))
				return
			}

			email, role, err := verifier.VerifyToken(token)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid or expired token"}`))
				return
			}

			if role != "admin" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"Insufficient permissions"}`))
				return
			}

			ctx := context.WithValue(r.Context(), AuthEmailKey, email)
			ctx = context.WithValue(ctx, AuthRoleKey, role)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
