package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerRequest_Decisions(t *testing.T) {
	now := time.Now()

	t.Run("Approve", func(t *testing.T) {
		request := &OwnerRequest{UserID: 3, Status: OwnerRequestPending}

		request.Approve(now)

		assert.Equal(t, OwnerRequestApproved, request.Status)
		assert.False(t, request.IsPending())
		require.NotNil(t, request.DecidedAt)
		assert.Equal(t, now, *request.DecidedAt)
	})

	t.Run("Reject records the reason", func(t *testing.T) {
		request := &OwnerRequest{UserID: 3, Status: OwnerRequestPending}

		request.Reject("incomplete documents", now)

		assert.Equal(t, OwnerRequestRejected, request.Status)
		assert.Equal(t, "incomplete documents", request.RejectionReason)
		require.NotNil(t, request.DecidedAt)
	})
}
