package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64  `json:"id"`
	CustomerID         int64  `json:"customerId"`
	VehicleID          int64  `json:"vehicleId"`
	AssignedEmployeeID *int64 `json:"assignedEmployeeId,omitempty"`
	CreatedBy          int64  `json:"createdBy"`

	Type            string `json:"type"`
	ScheduledDate   string `json:"scheduledDate"` // "2025-10-15"
	ScheduledTime   string `json:"scheduledTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	ServiceDescription string   `json:"serviceDescription"`
	CustomerNotes      *string  `json:"customerNotes,omitempty"`
	InternalNotes      *string  `json:"internalNotes,omitempty"`
	EstimatedCost      *float64 `json:"estimatedCost,omitempty"`

	CompletedAt *string   `json:"completedAt,omitempty"` // ISO 8601
	CancelledAt *string   `json:"cancelledAt,omitempty"` // ISO 8601
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HistoryEntryResponse строка журнала изменений
type HistoryEntryResponse struct {
	ID             int64     `json:"id"`
	AppointmentID  int64     `json:"appointmentId"`
	ChangedBy      int64     `json:"changedBy"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	ChangeReason   string    `json:"changeReason"`
	ChangedAt      time.Time `json:"changedAt"`
}

// HistoryListResponse ответ с журналом изменений записи
type HistoryListResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

// StatisticsResponse агрегаты по записям
type StatisticsResponse struct {
	ByStatus map[string]int64 `json:"byStatus"`
	ByType   map[string]int64 `json:"byType"`
	ByDate   map[string]int64 `json:"byDate"`
	Upcoming int64            `json:"upcoming"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		VehicleID:          a.VehicleID,
		AssignedEmployeeID: a.AssignedEmployeeID,
		CreatedBy:          a.CreatedBy,
		Type:               string(a.Type),
		ScheduledDate:      a.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:      a.ScheduledTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ServiceDescription: a.ServiceDescription,
		CustomerNotes:      a.CustomerNotes,
		InternalNotes:      a.InternalNotes,
		EstimatedCost:      a.EstimatedCost,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CompletedAt != nil {
		completedStr := a.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedStr
	}
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainHistoryList конвертирует журнал изменений в DTO
func FromDomainHistoryList(entries []*domain.AppointmentHistory) *HistoryListResponse {
	resp := &HistoryListResponse{
		Entries: make([]HistoryEntryResponse, 0, len(entries)),
	}

	for _, entry := range entries {
		resp.Entries = append(resp.Entries, HistoryEntryResponse{
			ID:             entry.ID,
			AppointmentID:  entry.AppointmentID,
			ChangedBy:      entry.ChangedBy,
			PreviousStatus: string(entry.PreviousStatus),
			NewStatus:      string(entry.NewStatus),
			ChangeReason:   entry.ChangeReason,
			ChangedAt:      entry.ChangedAt,
		})
	}

	return resp
}

// NewStatisticsResponse собирает DTO агрегатов
func NewStatisticsResponse(
	byStatus map[domain.AppointmentStatus]int64,
	byType map[domain.AppointmentType]int64,
	byDate map[string]int64,
	upcoming int64,
) *StatisticsResponse {
	resp := &StatisticsResponse{
		ByStatus: make(map[string]int64, len(byStatus)),
		ByType:   make(map[string]int64, len(byType)),
		ByDate:   byDate,
		Upcoming: upcoming,
	}

	for status, count := range byStatus {
		resp.ByStatus[string(status)] = count
	}
	for apptType, count := range byType {
		resp.ByType[string(apptType)] = count
	}

	return resp
}
