package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestAppointment_Overlaps(t *testing.T) {
	appt := &Appointment{
		ScheduledTime:   types.TimeString("10:00"),
		DurationMinutes: 60,
	}

	tests := []struct {
		name     string
		start    types.TimeString
		duration int
		want     bool
	}{
		{"identical interval", "10:00", 60, true},
		{"starts inside", "10:59", 31, true},
		{"ends inside", "09:30", 31, true},
		{"contains", "09:00", 180, true},
		{"touching end boundary", "11:00", 60, false},
		{"touching start boundary", "09:00", 60, false},
		{"fully before", "08:00", 60, false},
		{"fully after", "12:00", 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := appt.Overlaps(tt.start, tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppointment_EndTime(t *testing.T) {
	appt := &Appointment{
		ScheduledTime:   types.TimeString("10:30"),
		DurationMinutes: 90,
	}

	end, err := appt.EndTime()
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("12:00"), end)
}

func TestAppointment_CanBeRescheduled(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusInProgress, false},
		{StatusCompleted, false},
		{StatusCancelled, false},
		{StatusNoShow, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			appt := &Appointment{Status: tt.status}
			assert.Equal(t, tt.want, appt.CanBeRescheduled())
		})
	}
}

func TestAppointmentType_IsValid(t *testing.T) {
	assert.True(t, TypeMaintenance.IsValid())
	assert.True(t, TypeEmergency.IsValid())
	assert.False(t, AppointmentType("detailing").IsValid())
}

func TestValidationError_AggregatesViolations(t *testing.T) {
	verr := &ValidationError{}
	assert.False(t, verr.HasViolations())

	verr.Add("customerId", "must be a positive integer")
	verr.Add("scheduledTime", "must be in HH:MM format")

	require.True(t, verr.HasViolations())
	assert.Len(t, verr.Violations, 2)
	assert.Contains(t, verr.Error(), "customerId")
	assert.Contains(t, verr.Error(), "scheduledTime")
}
