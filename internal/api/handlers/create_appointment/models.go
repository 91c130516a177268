package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CustomerID         int64    `json:"customerId"`
	VehicleID          int64    `json:"vehicleId"`
	AssignedEmployeeID *int64   `json:"assignedEmployeeId,omitempty"`
	Type               string   `json:"type"`
	ScheduledDate      string   `json:"scheduledDate"` // "2025-10-15"
	ScheduledTime      string   `json:"scheduledTime"` // "10:00"
	DurationMinutes    int      `json:"durationMinutes,omitempty"`
	ServiceDescription string   `json:"serviceDescription"`
	CustomerNotes      *string  `json:"customerNotes,omitempty"`
	InternalNotes      *string  `json:"internalNotes,omitempty"`
	EstimatedCost      *float64 `json:"estimatedCost,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                 int64    `json:"id"`
	CustomerID         int64    `json:"customerId"`
	VehicleID          int64    `json:"vehicleId"`
	AssignedEmployeeID *int64   `json:"assignedEmployeeId,omitempty"`
	CreatedBy          int64    `json:"createdBy"`
	Type               string   `json:"type"`
	ScheduledDate      string   `json:"scheduledDate"`
	ScheduledTime      string   `json:"scheduledTime"`
	DurationMinutes    int      `json:"durationMinutes"`
	Status             string   `json:"status"`
	ServiceDescription string   `json:"serviceDescription"`
	CustomerNotes      *string  `json:"customerNotes,omitempty"`
	InternalNotes      *string  `json:"internalNotes,omitempty"`
	EstimatedCost      *float64 `json:"estimatedCost,omitempty"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(createdBy int64) (*createAppointment.Request, error) {
	// Парсим дату
	scheduledDate, err := time.Parse(domain.DateFormat, r.ScheduledDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	scheduledTime, err := types.NewTimeStringFromString(r.ScheduledTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CustomerID:         r.CustomerID,
		VehicleID:          r.VehicleID,
		AssignedEmployeeID: r.AssignedEmployeeID,
		CreatedBy:          createdBy,
		Type:               r.Type,
		Date:               scheduledDate,
		StartTime:          scheduledTime,
		DurationMinutes:    r.DurationMinutes,
		ServiceDescription: r.ServiceDescription,
		CustomerNotes:      r.CustomerNotes,
		InternalNotes:      r.InternalNotes,
		EstimatedCost:      r.EstimatedCost,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 resp.ID,
		CustomerID:         resp.CustomerID,
		VehicleID:          resp.VehicleID,
		AssignedEmployeeID: resp.AssignedEmployeeID,
		CreatedBy:          resp.CreatedBy,
		Type:               resp.Type,
		ScheduledDate:      resp.Date.Format(domain.DateFormat),
		ScheduledTime:      resp.StartTime.String(),
		DurationMinutes:    resp.DurationMinutes,
		Status:             resp.Status,
		ServiceDescription: resp.ServiceDescription,
		CustomerNotes:      resp.CustomerNotes,
		InternalNotes:      resp.InternalNotes,
		EstimatedCost:      resp.EstimatedCost,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}
}
