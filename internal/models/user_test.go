package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Password(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("correct horse"))

	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, user.CheckPassword("correct horse"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.False(t, user.CheckPassword(""))
}

func TestUser_Roles(t *testing.T) {
	tests := []struct {
		name    string
		role    UserRole
		isAdmin bool
		isOwner bool
	}{
		{name: "Admin", role: RoleAdmin, isAdmin: true},
		{name: "Owner", role: RoleOwner, isOwner: true},
		{name: "User", role: RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			assert.Equal(t, tt.isAdmin, user.IsAdmin())
			assert.Equal(t, tt.isOwner, user.IsOwner())
		})
	}
}

func TestUser_ToProfile(t *testing.T) {
	user := &User{
		BaseModel:    BaseModel{ID: 9},
		FullName:     "Renter One",
		Username:     "renter1",
		Email:        "renter1@example.com",
		Phone:        "612345678",
		Role:         RoleUser,
		IsActive:     true,
		PasswordHash: "secret-hash",
	}

	profile := user.ToProfile()

	assert.Equal(t, 9, profile.ID)
	assert.Equal(t, "renter1", profile.Username)
	assert.Equal(t, RoleUser, profile.Role)
	assert.True(t, profile.IsActive)
}
