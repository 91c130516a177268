package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	GetActiveBetween(ctx context.Context, startDate, endDate time.Time) ([]*domain.Appointment, error)
}

// TimeSlotRepository интерфейс репозитория явных временных слотов
type TimeSlotRepository interface {
	GetByDateAndTime(ctx context.Context, date time.Time, t types.TimeString) (*domain.TimeSlot, error)
	ListByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*domain.TimeSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
