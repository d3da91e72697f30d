package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/frostlake/snowgate/pkg/errors"
	"github.com/frostlake/snowgate/pkg/httputil"
)

type contextKeyType string

const (
	emailKey contextKeyType = "email"
	roleKey  contextKeyType = "role"
)

// Claims represents the token claims extracted by the auth middleware.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenValidator validates a bearer token and returns its claims. Validation
// failures should be returned as AppErrors so the middleware can surface a
// distinguishing message (expired vs invalid) without importing the token
// package.
type TokenValidator func(token string) (*Claims, error)

// Auth middleware validates bearer tokens and injects claims into context.
// Missing and malformed Authorization headers are reported distinctly from
// verification failures.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "token not provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, "token format invalid")
				return
			}

			claims, err := validate(parts[1])
			if err != nil {
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) && appErr.Status == http.StatusUnauthorized {
					writeAuthError(w, appErr.Message)
					return
				}
				writeAuthError(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), emailKey, claims.Email)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole middleware checks that the authenticated caller has one of the
// required roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if _, ok := roleSet[role]; !ok {
				httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "FORBIDDEN",
						Message: "insufficient permissions",
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EmailFromContext extracts the authenticated subject from the request context.
func EmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(emailKey).(string); ok {
		return email
	}
	return ""
}

// RoleFromContext extracts the caller role from the request context.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}

// writeAuthError denies the request using the same response envelope the
// handlers produce, so clients see one error shape across the API.
func writeAuthError(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}
