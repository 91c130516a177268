package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentType represents the kind of service work requested
type AppointmentType string

const (
	TypeMaintenance AppointmentType = "maintenance"
	TypeRepair      AppointmentType = "repair"
	TypeInspection  AppointmentType = "inspection"
	TypeDiagnostic  AppointmentType = "diagnostic"
	TypeEmergency   AppointmentType = "emergency"
)

// IsValid reports whether the value is a known appointment type
func (t AppointmentType) IsValid() bool {
	switch t {
	case TypeMaintenance, TypeRepair, TypeInspection, TypeDiagnostic, TypeEmergency:
		return true
	}
	return false
}

// Appointment represents a scheduled service appointment
type Appointment struct {
	ID                 int64
	CustomerID         int64
	VehicleID          int64
	AssignedEmployeeID *int64
	CreatedBy          int64

	Type            AppointmentType
	ScheduledDate   time.Time
	ScheduledTime   types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	ServiceDescription string
	CustomerNotes      *string
	InternalNotes      *string
	EstimatedCost      *float64

	CompletedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the appointment counts toward capacity and
// conflict checks
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// CanBeRescheduled reports whether the appointment may still be moved to a
// different slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// EndTime returns the exclusive end of the appointment interval
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.ScheduledTime.AddMinutes(a.DurationMinutes)
}

// Overlaps reports whether the appointment interval intersects the half-open
// candidate interval [start, start+durationMinutes). Touching boundaries do
// not count as an overlap.
func (a *Appointment) Overlaps(start types.TimeString, durationMinutes int) (bool, error) {
	candidateEnd, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false, err
	}
	end, err := a.EndTime()
	if err != nil {
		return false, err
	}
	return a.ScheduledTime.IsBefore(candidateEnd) && end.IsAfter(start), nil
}

// AppointmentsFilter is a flexible filter for appointment listings
type AppointmentsFilter struct {
	CustomerID         *int64
	AssignedEmployeeID *int64
	Date               *time.Time
	Time               *types.TimeString
	Statuses           []AppointmentStatus
	IncludeInactive    bool
}
