package response

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"login": "alice"})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","data":{"login":"alice"}}`, string(raw))
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Login    string `validate:"required,alphanum"`
		Password string `validate:"required,min=6"`
	}

	err := validator.New().Struct(form{Email: "not-an-email", Login: "with space"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Login can contain only numbers and letters")
	assert.Contains(t, resp.Error, "field Password is a required field")
}
