package http

import (
	"fmt"
	"net/http"

	"github.com/frostlake/snowgate/pkg/httputil"
	"github.com/frostlake/snowgate/pkg/validator"
)

// DeleteUserRequest is the body for DELETE /delete_user.
type DeleteUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: users})
}

// DeleteUser handles DELETE /delete_user. Any admin may delete any identity;
// the body is not required to match the caller.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req DeleteUserRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.svc.DeleteUser(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"message": fmt.Sprintf("user %s deleted", req.Email),
	}})
}
