package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, completedAt, cancelledAt *time.Time) error
	CountByStatus(ctx context.Context) (map[domain.AppointmentStatus]int64, error)
	CountByType(ctx context.Context) (map[domain.AppointmentType]int64, error)
	CountByDate(ctx context.Context, startDate, endDate time.Time) (map[string]int64, error)
	CountUpcoming(ctx context.Context, today time.Time) (int64, error)
}

// HistoryRepository интерфейс репозитория журнала изменений
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.AppointmentHistory) (*domain.AppointmentHistory, error)
	ListByAppointmentID(ctx context.Context, appointmentID int64) ([]*domain.AppointmentHistory, error)
}

// NotificationClient интерфейс клиента уведомлений
type NotificationClient interface {
	Send(ctx context.Context, notification *notifyservice.Notification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
