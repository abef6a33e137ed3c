package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/asifmahmud/parceltrack-backend/api/responses"
	pkgAuth "github.com/asifmahmud/parceltrack-backend/pkg/auth"
	"github.com/asifmahmud/parceltrack-backend/pkg/config"
	pkgerrors "github.com/asifmahmud/parceltrack-backend/pkg/errors"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
// A missing token is unauthorized; a token that fails verification is forbidden.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxActorEmail, claims.Email)
			ctx = context.WithValue(ctx, ctxActorRole, string(claims.Role))
			ctx = context.WithValue(ctx, ctxActorName, claims.Name)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"actor_email": claims.Email,
					"actor_role":  string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
