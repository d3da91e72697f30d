// Package http exposes the gateway over HTTP.
package http

import (
	"log/slog"
	"net/http"

	"github.com/frostlake/snowgate/internal/service"
)

// Request bodies larger than this are rejected during decoding.
const maxBodyBytes = 1 << 20

// Handler serves the gateway endpoints.
type Handler struct {
	svc    *service.AccessService
	logger *slog.Logger
}

// NewHandler creates the gateway HTTP handler.
func NewHandler(svc *service.AccessService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
}
