package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/tourvisto-admin/pkg/auth"
	"github.com/diagnosis/tourvisto-admin/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// OptionalSession resolves the admin session from a bearer token or the
// session cookie. Requests without a valid session pass through anonymously.
func OptionalSession(secret, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := ""
			if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
				tok = strings.TrimPrefix(authz, "Bearer ")
			} else if c, err := r.Cookie(cookieName); err == nil {
				tok = c.Value
			}
			if tok != "" {
				claims, err := auth.Parse(tok, secret)
				if err != nil {
					logger.DebugContext(r.Context(), "Ignoring invalid session token", "error", err)
				} else {
					ctx := context.WithValue(r.Context(), CtxClaims, claims)
					ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Claims(r *http.Request) *auth.Claims {
	if v := r.Context().Value(CtxClaims); v != nil {
		if c, ok := v.(*auth.Claims); ok {
			return c
		}
	}
	return nil
}
