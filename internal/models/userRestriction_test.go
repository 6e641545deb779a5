package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRestriction_AddComplaint(t *testing.T) {
	now := time.Now()

	t.Run("Blocks at the complaint limit", func(t *testing.T) {
		restriction := &UserRestriction{UserID: 1}

		assert.False(t, restriction.AddComplaint(now))
		assert.False(t, restriction.AddComplaint(now))
		assert.True(t, restriction.AddComplaint(now))

		assert.Equal(t, RestrictionComplaintLimit, restriction.ComplaintsCount)
		assert.True(t, restriction.Restricted)
		require.NotNil(t, restriction.BlockedUntil)
		assert.Equal(t, now.Add(RestrictionBlockDuration), *restriction.BlockedUntil)
	})

	t.Run("Does not re-block an already blocked user", func(t *testing.T) {
		restriction := &UserRestriction{UserID: 1, ComplaintsCount: 3, Restricted: true}

		assert.False(t, restriction.AddComplaint(now))
		assert.Equal(t, 4, restriction.ComplaintsCount)
	})
}

func TestUserRestriction_IsBlocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name         string
		restricted   bool
		blockedUntil *time.Time
		expected     bool
	}{
		{name: "Not restricted", restricted: false, expected: false},
		{name: "Blocked with future deadline", restricted: true, blockedUntil: &future, expected: true},
		{name: "Block lapsed", restricted: true, blockedUntil: &past, expected: false},
		{name: "Blocked indefinitely", restricted: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restriction := &UserRestriction{Restricted: tt.restricted, BlockedUntil: tt.blockedUntil}
			assert.Equal(t, tt.expected, restriction.IsBlocked(now))
		})
	}
}

func TestUserRestriction_Unblock(t *testing.T) {
	now := time.Now()
	restriction := &UserRestriction{UserID: 1}
	restriction.AddComplaint(now)
	restriction.AddComplaint(now)
	restriction.AddComplaint(now)
	restriction.AddWarning()

	restriction.Unblock()

	assert.False(t, restriction.Restricted)
	assert.Nil(t, restriction.BlockedUntil)
	assert.Zero(t, restriction.ComplaintsCount)
	assert.Equal(t, 1, restriction.WarningCount)
}
