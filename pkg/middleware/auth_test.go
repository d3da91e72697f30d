package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/frostlake/snowgate/pkg/errors"
)

func okValidator(claims *Claims) TokenValidator {
	return func(token string) (*Claims, error) { return claims, nil }
}

func failValidator(err error) TokenValidator {
	return func(token string) (*Claims, error) { return nil, err }
}

func authedEcho(t *testing.T, validate TokenValidator, header string, extra ...func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	t.Helper()

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"email": EmailFromContext(r.Context()),
			"role":  RoleFromContext(r.Context()),
		})
	})
	for i := len(extra) - 1; i >= 0; i-- {
		h = extra[i](h)
	}
	h = Auth(validate)(h)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// errorEnvelope mirrors the httputil response shape; middleware denials must
// decode into it so clients see one error format across the API.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestAuth_MissingHeader(t *testing.T) {
	rec := authedEcho(t, okValidator(&Claims{}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.Equal(t, "token not provided", body.Error.Message)
}

func TestAuth_MalformedHeader(t *testing.T) {
	rec := authedEcho(t, okValidator(&Claims{}), "justonetoken")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token format invalid")
}

func TestAuth_ExpiredTokenMessagePassedThrough(t *testing.T) {
	rec := authedEcho(t, failValidator(apperrors.Unauthorized("token has expired")), "Bearer abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token has expired")
}

func TestAuth_GenericValidatorErrorIsOpaque(t *testing.T) {
	rec := authedEcho(t, failValidator(assert.AnError), "Bearer abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestAuth_InjectsClaims(t *testing.T) {
	rec := authedEcho(t, okValidator(&Claims{Email: "a@b.com", Role: "admin"}), "Bearer abc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "a@b.com", body["email"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_Forbidden(t *testing.T) {
	rec := authedEcho(t, okValidator(&Claims{Email: "a@b.com", Role: "user"}), "Bearer abc", RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Equal(t, "insufficient permissions", body.Error.Message)
}

func TestRequireRole_Allowed(t *testing.T) {
	rec := authedEcho(t, okValidator(&Claims{Email: "a@b.com", Role: "admin"}), "Bearer abc", RequireRole("admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
