package domain

import "time"

// AppointmentHistory is an immutable audit entry. Exactly one row is written
// per mutating operation; rows are never updated or deleted. For non-status
// mutations (reschedule, assignment) PreviousStatus equals NewStatus.
type AppointmentHistory struct {
	ID             int64
	AppointmentID  int64
	ChangedBy      int64
	PreviousStatus AppointmentStatus
	NewStatus      AppointmentStatus
	ChangeReason   string
	ChangedAt      time.Time
}
