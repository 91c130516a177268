package assign_employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identityservice"
)

// Config бизнес-настройки назначения сотрудника
type Config struct {
	// FailClosed политика при недоступности IdentityService:
	// true - отклонять назначение, false - пропускать проверку существования
	FailClosed bool
}

// UseCase назначение или замена сотрудника на записи.
// Статус записи не меняется; проверяется существование сотрудника
// (через IdentityService) и отсутствие пересечений с его другими записями.
type UseCase struct {
	appointmentRepo AppointmentRepository
	historyRepo     HistoryRepository
	conflicts       ConflictDetector
	identityClient  IdentityServiceClient
	txManager       TransactionManager
	cfg             Config
	logger          Logger
}

// NewUseCase создает новый экземпляр usecase назначения сотрудника
func NewUseCase(
	appointmentRepo AppointmentRepository,
	historyRepo HistoryRepository,
	conflicts ConflictDetector,
	identityClient IdentityServiceClient,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		historyRepo:     historyRepo,
		conflicts:       conflicts,
		identityClient:  identityClient,
		txManager:       txManager,
		cfg:             cfg,
		logger:          logger,
	}
}

// Execute назначает сотрудника на запись
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.AppointmentID <= 0 || req.EmployeeID <= 0 {
		return nil, fmt.Errorf("%w: appointment_id and employee_id must be positive", ErrInvalidInput)
	}

	if err := uc.verifyEmployee(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	var updated *domain.Appointment
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, req.AppointmentID)
			}
			return fmt.Errorf("%w: Execute - get appointment: %v", ErrInternal, err)
		}

		if appt.Status.IsTerminal() {
			return fmt.Errorf("%w: id=%d, status=%s", ErrAppointmentFinished, appt.ID, appt.Status)
		}

		free, err := uc.conflicts.EmployeeIsAvailable(txCtx, req.EmployeeID,
			appt.ScheduledDate, appt.ScheduledTime, appt.DurationMinutes, &appt.ID)
		if err != nil {
			return fmt.Errorf("%w: Execute - employee availability: %v", ErrInternal, err)
		}
		if !free {
			return fmt.Errorf("%w: employee_id=%d, appointment id=%d", ErrEmployeeNotAvailable, req.EmployeeID, appt.ID)
		}

		if err := uc.appointmentRepo.UpdateAssignedEmployee(txCtx, appt.ID, req.EmployeeID); err != nil {
			return fmt.Errorf("%w: Execute - update assigned employee: %v", ErrInternal, err)
		}

		reason := fmt.Sprintf("employee assigned: %s -> %d", formatEmployee(appt.AssignedEmployeeID), req.EmployeeID)

		_, err = uc.historyRepo.Create(txCtx, &domain.AppointmentHistory{
			AppointmentID:  appt.ID,
			ChangedBy:      req.ActorID,
			PreviousStatus: appt.Status,
			NewStatus:      appt.Status,
			ChangeReason:   reason,
		})
		if err != nil {
			return fmt.Errorf("%w: Execute - create history entry: %v", ErrInternal, err)
		}

		appt.AssignedEmployeeID = &req.EmployeeID
		appt.UpdatedAt = time.Now()
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Execute: employee id=%d assigned to appointment id=%d", req.EmployeeID, updated.ID)

	return &Response{
		ID:                 updated.ID,
		AssignedEmployeeID: req.EmployeeID,
		Status:             string(updated.Status),
		UpdatedAt:          updated.UpdatedAt,
	}, nil
}

// verifyEmployee проверяет существование сотрудника через IdentityService.
// Недоступность сервиса трактуется по политике fail_open / fail_closed.
func (uc *UseCase) verifyEmployee(ctx context.Context, employeeID int64) error {
	_, err := uc.identityClient.VerifyEmployee(ctx, employeeID)
	if err == nil {
		return nil
	}

	if errors.Is(err, identityservice.ErrEmployeeNotFound) {
		return fmt.Errorf("%w: employee_id=%d", ErrEmployeeNotFound, employeeID)
	}

	if errors.Is(err, identityservice.ErrServiceDegraded) {
		if uc.cfg.FailClosed {
			uc.logger.Error("verifyEmployee: identity check for employee id=%d failed, rejecting (fail_closed): %v", employeeID, err)
			return fmt.Errorf("%w: employee_id=%d: %v", ErrIdentityUnavailable, employeeID, err)
		}
		uc.logger.Warn("verifyEmployee: identity check for employee id=%d skipped (fail_open): %v", employeeID, err)
		return nil
	}

	return fmt.Errorf("%w: verifyEmployee - identity service error: %v", ErrInternal, err)
}

func formatEmployee(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}
