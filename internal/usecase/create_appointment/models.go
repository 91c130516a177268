package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID         int64            // ID клиента
	VehicleID          int64            // ID автомобиля
	AssignedEmployeeID *int64           // ID сотрудника (опционально)
	CreatedBy          int64            // ID создателя записи
	Type               string           // Тип обслуживания
	Date               time.Time        // Дата записи (без времени)
	StartTime          types.TimeString // Время начала (например, "10:00")
	DurationMinutes    int              // Длительность в минутах (0 = дефолт)
	ServiceDescription string           // Описание работ
	CustomerNotes      *string          // Заметки клиента (опционально)
	InternalNotes      *string          // Служебные заметки (опционально)
	EstimatedCost      *float64         // Предварительная стоимость (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID                 int64            // ID созданной записи
	CustomerID         int64            // ID клиента
	VehicleID          int64            // ID автомобиля
	AssignedEmployeeID *int64           // ID сотрудника
	CreatedBy          int64            // ID создателя
	Type               string           // Тип обслуживания
	Date               time.Time        // Дата записи
	StartTime          types.TimeString // Время начала
	DurationMinutes    int              // Длительность в минутах
	Status             string           // Статус записи
	ServiceDescription string           // Описание работ
	CustomerNotes      *string          // Заметки клиента
	InternalNotes      *string          // Служебные заметки
	EstimatedCost      *float64         // Предварительная стоимость
	CreatedAt          time.Time        // Время создания
	UpdatedAt          time.Time        // Время обновления
}
