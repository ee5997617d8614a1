package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Name     string `json:"name" validate:"required,min=3,alpha_space"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,numeric,min=10,max=15"`
	Password string `json:"password" validate:"required,min=6,has_digit"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func validPayload() registerPayload {
	return registerPayload{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "5551234567",
		Password: "secret1",
		Role:     "user",
	}
}

func TestValidator_ValidPayload(t *testing.T) {
	t.Parallel()
	v := NewValidator()
	require.NoError(t, v.Validate(validPayload()))

	// Optional role may be omitted entirely.
	p := validPayload()
	p.Role = ""
	require.NoError(t, v.Validate(p))
}

func TestValidator_Failures(t *testing.T) {
	t.Parallel()
	v := NewValidator()

	tests := []struct {
		name    string
		mutate  func(*registerPayload)
		wantMsg string
	}{
		{
			name:    "missing name",
			mutate:  func(p *registerPayload) { p.Name = "" },
			wantMsg: "name is required",
		},
		{
			name:    "name with digits",
			mutate:  func(p *registerPayload) { p.Name = "Jane 2" },
			wantMsg: "name must contain only letters and spaces",
		},
		{
			name:    "bad email",
			mutate:  func(p *registerPayload) { p.Email = "not-an-email" },
			wantMsg: "email must be a valid email address",
		},
		{
			name:    "phone with letters",
			mutate:  func(p *registerPayload) { p.Phone = "555123456a" },
			wantMsg: "phone must contain only digits",
		},
		{
			name:    "phone too short",
			mutate:  func(p *registerPayload) { p.Phone = "12345" },
			wantMsg: "phone must be at least 10 characters",
		},
		{
			name:    "password too short",
			mutate:  func(p *registerPayload) { p.Password = "ab1" },
			wantMsg: "password must be at least 6 characters",
		},
		{
			name:    "password without digit",
			mutate:  func(p *registerPayload) { p.Password = "secrets" },
			wantMsg: "password must contain at least one digit",
		},
		{
			name:    "unknown role",
			mutate:  func(p *registerPayload) { p.Role = "root" },
			wantMsg: "role must be one of: user admin",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validPayload()
			tt.mutate(&p)

			err := v.Validate(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidator_UsesJSONTagNames(t *testing.T) {
	t.Parallel()
	v := NewValidator()

	payload := struct {
		FullName string `json:"full_name" validate:"required"`
	}{}

	err := v.Validate(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full_name is required")
}
