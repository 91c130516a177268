package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeSlot is an explicit capacity override for a date and time window.
// (SlotDate, StartTime) pairs are unique. When no slot covers a requested
// time, the default capacity applies.
type TimeSlot struct {
	ID                        int64
	SlotDate                  time.Time
	StartTime                 types.TimeString
	EndTime                   types.TimeString
	IsAvailable               bool
	MaxConcurrentAppointments int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Capacity returns the number of concurrent appointments the slot accepts.
// An unavailable slot accepts zero regardless of its configured maximum.
func (s *TimeSlot) Capacity() int {
	if !s.IsAvailable {
		return 0
	}
	return s.MaxConcurrentAppointments
}

// Contains reports whether t falls within [StartTime, EndTime]
func (s *TimeSlot) Contains(t types.TimeString) bool {
	return !t.IsBefore(s.StartTime) && !t.IsAfter(s.EndTime)
}
