package validators

import (
	"testing"

	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.CreateLeadRequest{Email: "not-an-email", Images: 9})
	require.ErrorIs(t, err, models.ErrValidation)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, fe := range verr.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "email must be a valid email address", fields["email"])
	assert.Equal(t, "images must be at most 4", fields["images"])
	assert.NotContains(t, fields, "name")
}

func TestValidator_Required(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.LoginRequest{Email: "ops@example.com"})
	require.Error(t, err)
	assert.Equal(t, "password is required", err.Error())

	assert.NoError(t, v.Validate(&models.MarkReadRequest{ID: "abc"}))
}
