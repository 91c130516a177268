package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AvailabilityChecker интерфейс проверки доступности слотов
type AvailabilityChecker interface {
	ListAvailableSlots(ctx context.Context, startDate, endDate time.Time, durationMinutes int) ([]domain.AvailableSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
