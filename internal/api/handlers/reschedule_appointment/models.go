package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	ScheduledDate string `json:"scheduledDate"` // "2025-10-16"
	ScheduledTime string `json:"scheduledTime"` // "14:00"
}

// RescheduleAppointmentResponse HTTP response model
type RescheduleAppointmentResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	ScheduledDate   string `json:"scheduledDate"`
	ScheduledTime   string `json:"scheduledTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	UpdatedAt       string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID, actorID int64) (*rescheduleAppointment.Request, error) {
	// Парсим дату
	newDate, err := time.Parse(domain.DateFormat, r.ScheduledDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	newStartTime, err := types.NewTimeStringFromString(r.ScheduledTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		ActorID:       actorID,
		NewDate:       newDate,
		NewStartTime:  newStartTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleAppointmentResponse {
	return &RescheduleAppointmentResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		ScheduledDate:   resp.Date.Format(domain.DateFormat),
		ScheduledTime:   resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
