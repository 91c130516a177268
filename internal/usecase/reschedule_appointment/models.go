package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64            // ID переносимой записи
	ActorID       int64            // ID пользователя, выполняющего перенос
	NewDate       time.Time        // Новая дата
	NewStartTime  types.TimeString // Новое время начала
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID              int64            // ID записи
	CustomerID      int64            // ID клиента
	Date            time.Time        // Новая дата
	StartTime       types.TimeString // Новое время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус (перенос его не меняет)
	UpdatedAt       time.Time        // Время обновления
}
