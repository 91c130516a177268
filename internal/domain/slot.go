package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailableSlot represents a bookable time slot with remaining capacity
type AvailableSlot struct {
	Date              time.Time
	StartTime         types.TimeString
	EndTime           types.TimeString
	AvailableCapacity int
	TotalCapacity     int
}

// IsFull returns true if the slot has no remaining capacity
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableCapacity <= 0
}

// IsFullyAvailable returns true if no active appointment occupies the slot
func (s *AvailableSlot) IsFullyAvailable() bool {
	return s.AvailableCapacity == s.TotalCapacity
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.TotalCapacity == 0 {
		return 0
	}
	occupied := s.TotalCapacity - s.AvailableCapacity
	return float64(occupied) / float64(s.TotalCapacity) * 100
}
