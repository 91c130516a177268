package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime types.TimeString) error
}

// HistoryRepository интерфейс репозитория журнала изменений
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.AppointmentHistory) (*domain.AppointmentHistory, error)
}

// AvailabilityChecker интерфейс проверки доступности слотов
type AvailabilityChecker interface {
	IsSlotAvailable(ctx context.Context, date time.Time, t types.TimeString, durationMinutes int) (bool, error)
}

// ConflictDetector интерфейс детектора конфликтов расписания
type ConflictDetector interface {
	EmployeeIsAvailable(ctx context.Context, employeeID int64, date time.Time, t types.TimeString, durationMinutes int, excludeID *int64) (bool, error)
}

// NotificationClient интерфейс клиента уведомлений
type NotificationClient interface {
	Send(ctx context.Context, notification *notifyservice.Notification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
