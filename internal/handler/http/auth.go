package http

import (
	"fmt"
	"net/http"

	"github.com/frostlake/snowgate/pkg/httputil"
	"github.com/frostlake/snowgate/pkg/middleware"
	"github.com/frostlake/snowgate/pkg/validator"
)

// RegisterRequest is the body for POST /register.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

// LoginRequest is the body for POST /login.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// DecryptRequest is the body for POST /decrypt. The key is supplied by the
// caller, never read from server configuration.
type DecryptRequest struct {
	Token         string `json:"token" validate:"required"`
	EncryptionKey string `json:"encryption_key" validate:"required"`
}

// CredentialResponse is the body returned by register and login. Token holds
// the encrypted envelope for admin identities only; the plaintext token always
// goes out by email.
type CredentialResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cred, err := h.svc.Register(r.Context(), req.Email, req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: CredentialResponse{
		Message: fmt.Sprintf("access token sent to %s", cred.User.Email),
		Token:   cred.Envelope,
	}})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cred, err := h.svc.Login(r.Context(), req.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CredentialResponse{
		Message: fmt.Sprintf("access token sent to %s", cred.User.Email),
		Token:   cred.Envelope,
	}})
}

// Protected handles GET /protected: a smoke endpoint proving the presented
// token verifies.
func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"message": fmt.Sprintf("Hello, %s! You have access to this protected route.", email),
	}})
}

// Decrypt handles POST /decrypt. Success only proves the key opens the
// envelope; the returned token must still pass verification to grant access.
func (h *Handler) Decrypt(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	var req DecryptRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	plaintext, err := h.svc.DecryptToken(r.Context(), req.Token, req.EncryptionKey)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"token": plaintext,
	}})
}
