package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(registerForm{Email: "alice@example.com", Name: "Alice"})
	assert.NoError(t, err)
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(registerForm{})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Email"])
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_BadEmail(t *testing.T) {
	err := Validate(registerForm{Email: "not-an-email", Name: "Alice"})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
	assert.Contains(t, valErr.Error(), "Email")
}
