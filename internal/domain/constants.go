package domain

import "time"

// Default scheduling values
const (
	DefaultSlotCapacity       = 3
	DefaultDurationMinutes    = 60
	DefaultConflictWindowMins = 30
)

// Business hours for synthesized slots (no explicit TimeSlot rows).
// Weekends are skipped entirely.
const (
	BusinessDayStartHour = 9
	BusinessDayEndHour   = 17
	SlotStepMinutes      = 60
)

// Business validation constants
const (
	MinDurationMinutes       = 15
	MaxDurationMinutes       = 480 // 8 hours
	MaxServiceDescriptionLen = 1000
	MaxNotesLength           = 500
	MaxChangeReasonLength    = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses count toward capacity and conflict checks
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses permit no further transitions
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// EmployeeBlockingStatuses are the statuses that make an employee unavailable
// for an overlapping interval
var EmployeeBlockingStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusInProgress,
}

// IsBusinessDay reports whether synthesized slots exist for the given date
func IsBusinessDay(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
