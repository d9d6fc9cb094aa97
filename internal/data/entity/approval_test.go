package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    ApprovalStatus
		to      ApprovalStatus
		allowed bool
	}{
		{ApprovalPending, ApprovalApproved, true},
		{ApprovalPending, ApprovalRejected, true},
		{ApprovalPending, ApprovalPending, false},
		{ApprovalApproved, ApprovalRejected, false},
		{ApprovalApproved, ApprovalPending, false},
		{ApprovalApproved, ApprovalApproved, false},
		{ApprovalRejected, ApprovalApproved, false},
		{ApprovalRejected, ApprovalPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			next, err := tt.from.TransitionTo(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, next)
		})
	}
}

func TestApprovalStatus_Terminal(t *testing.T) {
	assert.False(t, ApprovalPending.IsTerminal())
	assert.True(t, ApprovalApproved.IsTerminal())
	assert.True(t, ApprovalRejected.IsTerminal())
}

func TestApprovalStatus_AllowsLogin(t *testing.T) {
	assert.False(t, ApprovalPending.AllowsLogin())
	assert.True(t, ApprovalApproved.AllowsLogin())
	assert.False(t, ApprovalRejected.AllowsLogin())
}

func TestParseApprovalStatus(t *testing.T) {
	s, err := ParseApprovalStatus("rejected")
	require.NoError(t, err)
	assert.Equal(t, ApprovalRejected, s)

	_, err = ParseApprovalStatus("deactivated")
	assert.Error(t, err)
}
