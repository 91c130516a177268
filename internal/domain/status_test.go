package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo_FullGraph(t *testing.T) {
	all := []AppointmentStatus{
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow,
	}

	allowed := map[AppointmentStatus][]AppointmentStatus{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
		StatusInProgress: {StatusCompleted, StatusCancelled},
		StatusCompleted:  {},
		StatusCancelled:  {},
		StatusNoShow:     {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestValidateTransition_InvalidEdgeNamesBothStatuses(t *testing.T) {
	err := ValidateTransition(StatusCompleted, StatusPending)
	require.Error(t, err)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusCompleted, transitionErr.From)
	assert.Equal(t, StatusPending, transitionErr.To)
	assert.Contains(t, err.Error(), "completed")
	assert.Contains(t, err.Error(), "pending")
}

func TestValidateTransition_ValidEdge(t *testing.T) {
	require.NoError(t, ValidateTransition(StatusPending, StatusConfirmed))
	require.NoError(t, ValidateTransition(StatusConfirmed, StatusNoShow))
	require.NoError(t, ValidateTransition(StatusInProgress, StatusCompleted))
}

func TestStatus_SelfTransitionForbidden(t *testing.T) {
	for status := range statusTransitions {
		assert.False(t, status.CanTransitionTo(status), "%s -> %s must be forbidden", status, status)
	}
}

func TestStatus_Classification(t *testing.T) {
	tests := []struct {
		status   AppointmentStatus
		active   bool
		terminal bool
	}{
		{StatusPending, true, false},
		{StatusConfirmed, true, false},
		{StatusInProgress, true, false},
		{StatusCompleted, false, true},
		{StatusCancelled, false, true},
		{StatusNoShow, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.active, tt.status.IsActive())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.True(t, tt.status.IsValid())
		})
	}
}

func TestStatus_UnknownIsInvalid(t *testing.T) {
	assert.False(t, AppointmentStatus("archived").IsValid())
	assert.False(t, AppointmentStatus("").IsValid())
}
