package http

import (
	"errors"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frostlake/snowgate/internal/domain"
	"github.com/frostlake/snowgate/internal/service"
	"github.com/frostlake/snowgate/internal/token"
	apperrors "github.com/frostlake/snowgate/pkg/errors"
	"github.com/frostlake/snowgate/pkg/health"
	"github.com/frostlake/snowgate/pkg/middleware"
)

// NewRouter builds the gateway's HTTP routing tree. Registration and login
// are public; every other gateway endpoint requires a verified bearer token,
// and user deletion additionally requires the admin role.
func NewRouter(
	svc *service.AccessService,
	tokens *token.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
) chi.Router {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("snowgate"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator(tokens)))

		r.Get("/protected", h.Protected)
		r.Get("/users", h.ListUsers)
		r.Post("/decrypt", h.Decrypt)
		r.Post("/read_snowflake_query", h.RunQuery)
		r.Post("/send_alert", h.SendAlert)
		r.Post("/cortex", h.Cortex)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Delete("/delete_user", h.DeleteUser)
		})
	})

	return r
}

// tokenValidator adapts the token manager to the auth middleware, keeping the
// expired and invalid denials distinguishable in responses.
func tokenValidator(tokens *token.Manager) middleware.TokenValidator {
	return func(raw string) (*middleware.Claims, error) {
		claims, err := tokens.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				return nil, apperrors.Unauthorized("token has expired")
			}
			return nil, apperrors.Unauthorized("invalid token")
		}
		return &middleware.Claims{Email: claims.Email, Role: claims.Role}, nil
	}
}
