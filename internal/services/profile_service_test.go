package services

import (
	"testing"

	"github.com/carevault/practice-server/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateProfile(t *testing.T) {
	valid := &models.CompleteProfileRequest{
		FirstName: "Ama",
		LastName:  "Mensah",
		Phone:     "+233201234567",
	}
	assert.NoError(t, validateProfile(valid))

	tests := []struct {
		name string
		req  models.CompleteProfileRequest
	}{
		{"missing first name", models.CompleteProfileRequest{LastName: "Mensah", Phone: "+233201234567"}},
		{"missing last name", models.CompleteProfileRequest{FirstName: "Ama", Phone: "+233201234567"}},
		{"missing phone", models.CompleteProfileRequest{FirstName: "Ama", LastName: "Mensah"}},
		{"whitespace only", models.CompleteProfileRequest{FirstName: "  ", LastName: "Mensah", Phone: "+233201234567"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, validateProfile(&tt.req), ErrMissingRequiredField)
		})
	}
}

func TestValidateProfileOptionalFields(t *testing.T) {
	// Date of birth, gender and blood group never block completion.
	req := &models.CompleteProfileRequest{
		FirstName: "Kofi",
		LastName:  "Asante",
		Phone:     "+233501234567",
	}
	assert.NoError(t, validateProfile(req))
}
