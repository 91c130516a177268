package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса списка доступных слотов
type Request struct {
	StartDate       time.Time // Начало диапазона (включительно)
	EndDate         time.Time // Конец диапазона (включительно)
	DurationMinutes int       // Длительность обслуживания (0 = дефолт)
}

// Slot позиция в списке доступных слотов
type Slot struct {
	Date              string `json:"date"`      // "2025-10-15"
	StartTime         string `json:"startTime"` // "10:00"
	EndTime           string `json:"endTime"`   // "11:00"
	AvailableCapacity int    `json:"availableCapacity"`
	TotalCapacity     int    `json:"totalCapacity"`
}

// Response модель ответа со списком слотов
type Response struct {
	Slots []Slot `json:"slots"`
}

func newResponse(slots []domain.AvailableSlot) *Response {
	resp := &Response{Slots: make([]Slot, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{
			Date:              s.Date.Format(domain.DateFormat),
			StartTime:         s.StartTime.String(),
			EndTime:           s.EndTime.String(),
			AvailableCapacity: s.AvailableCapacity,
			TotalCapacity:     s.TotalCapacity,
		})
	}
	return resp
}
