package http

import (
	"net/http"

	"github.com/frostlake/snowgate/pkg/httputil"
	"github.com/frostlake/snowgate/pkg/validator"
)

// QueryRequest is the body for POST /read_snowflake_query.
type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

// AlertRequest is the body for POST /send_alert.
type AlertRequest struct {
	Query   string `json:"query" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message"`
}

// RunQuery handles POST /read_snowflake_query.
func (h *Handler) RunQuery(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req QueryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	records, err := h.svc.RunQuery(r.Context(), req.Query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: records})
}

// Cortex handles POST /cortex: runs the fixed warehouse LLM demo query.
func (h *Handler) Cortex(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Cortex(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: records})
}

// SendAlert handles POST /send_alert.
func (h *Handler) SendAlert(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req AlertRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rows, err := h.svc.SendAlert(r.Context(), req.Query, req.Email, req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"message":   "alert processed",
		"rows_sent": rows,
	}})
}
