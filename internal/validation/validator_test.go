package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Name     string `json:"display_name" validate:"required"`
}

func TestValidateSuccess(t *testing.T) {
	v := validation.New()

	req := registerRequest{
		Email:    "reader@example.com",
		Password: "password123",
		Name:     "Reader",
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       registerRequest
		wantField string
	}{
		{
			name:      "missing required field",
			req:       registerRequest{Email: "reader@example.com", Password: "password123"},
			wantField: "display_name",
		},
		{
			name:      "invalid email",
			req:       registerRequest{Email: "not-an-email", Password: "password123", Name: "R"},
			wantField: "email",
		},
		{
			name:      "short password",
			req:       registerRequest{Email: "reader@example.com", Password: "short", Name: "R"},
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			assert.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.Code.HTTPStatus())

			// JSON tag names surface in the details map.
			details, ok := domainErr.Details.(map[string]string)
			assert.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}
