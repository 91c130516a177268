package assign_employee

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identityservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateAssignedEmployee(ctx context.Context, id int64, employeeID int64) error
}

// HistoryRepository интерфейс репозитория журнала изменений
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.AppointmentHistory) (*domain.AppointmentHistory, error)
}

// ConflictDetector интерфейс детектора конфликтов расписания
type ConflictDetector interface {
	EmployeeIsAvailable(ctx context.Context, employeeID int64, date time.Time, t types.TimeString, durationMinutes int, excludeID *int64) (bool, error)
}

// IdentityServiceClient интерфейс клиента IdentityService
type IdentityServiceClient interface {
	VerifyEmployee(ctx context.Context, employeeID int64) (*identityservice.Employee, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
