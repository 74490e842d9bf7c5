package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  CreateUserRequest{Name: "Dana Owner", Email: "dana@example.com", Password: "password123"},
		},
		{
			name: "valid with phone",
			req:  CreateUserRequest{Name: "Dana Owner", Email: "dana@example.com", Password: "password123", Phone: "555-0100"},
		},
		{
			name:    "missing name",
			req:     CreateUserRequest{Email: "dana@example.com", Password: "password123"},
			wantErr: true,
		},
		{
			name:    "bad email",
			req:     CreateUserRequest{Name: "Dana Owner", Email: "not-an-email", Password: "password123"},
			wantErr: true,
		},
		{
			name:    "short password",
			req:     CreateUserRequest{Name: "Dana Owner", Email: "dana@example.com", Password: "short"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{Email: "dana@example.com", Password: "password123"}
	assert.NoError(t, valid.Validate())

	missing := LoginRequest{Email: "dana@example.com"}
	assert.Error(t, missing.Validate())

	badEmail := LoginRequest{Email: "nope", Password: "password123"}
	assert.Error(t, badEmail.Validate())
}

func TestUpdatePasswordRequest_Validate(t *testing.T) {
	valid := UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}
	assert.NoError(t, valid.Validate())

	shortNew := UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "short"}
	assert.Error(t, shortNew.Validate())

	missingCurrent := UpdatePasswordRequest{NewPassword: "new-password"}
	assert.Error(t, missingCurrent.Validate())
}
