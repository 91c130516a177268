package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// UseCase перенос записи на новые дату и время.
// Статус записи не меняется; доступность нового слота и занятость сотрудника
// проверяются в одной serializable-транзакции с обновлением. При любом отказе
// запись остаётся на прежних дате и времени.
type UseCase struct {
	appointmentRepo AppointmentRepository
	historyRepo     HistoryRepository
	availability    AvailabilityChecker
	conflicts       ConflictDetector
	notifyClient    NotificationClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр usecase переноса записи
func NewUseCase(
	appointmentRepo AppointmentRepository,
	historyRepo HistoryRepository,
	availability AvailabilityChecker,
	conflicts ConflictDetector,
	notifyClient NotificationClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		historyRepo:     historyRepo,
		availability:    availability,
		conflicts:       conflicts,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute переносит запись на новые дату и время
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if verr := uc.validateRequest(req); verr != nil {
		return nil, verr
	}

	var updated *domain.Appointment
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, req.AppointmentID)
			}
			return fmt.Errorf("%w: Execute - get appointment: %v", ErrInternal, err)
		}

		if !appt.CanBeRescheduled() {
			return fmt.Errorf("%w: id=%d, status=%s", ErrNotReschedulable, appt.ID, appt.Status)
		}

		if verr, err := uc.checkNewSlot(txCtx, appt, req); err != nil {
			return err
		} else if verr != nil {
			return verr
		}

		oldDate, oldTime := appt.ScheduledDate, appt.ScheduledTime

		if err := uc.appointmentRepo.UpdateSchedule(txCtx, appt.ID, req.NewDate, req.NewStartTime); err != nil {
			return fmt.Errorf("%w: Execute - update schedule: %v", ErrInternal, err)
		}

		reason := fmt.Sprintf("rescheduled from %s %s to %s %s",
			oldDate.Format(domain.DateFormat), oldTime,
			req.NewDate.Format(domain.DateFormat), req.NewStartTime)

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

		appt.ScheduledDate = req.NewDate
		appt.ScheduledTime = req.NewStartTime
		appt.UpdatedAt = uc.timeProvider.Now()
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Execute: appointment id=%d rescheduled to %s %s",
		updated.ID, updated.ScheduledDate.Format(domain.DateFormat), updated.ScheduledTime)

	uc.notifyRescheduled(ctx, updated)

	return &Response{
		ID:              updated.ID,
		CustomerID:      updated.CustomerID,
		Date:            updated.ScheduledDate,
		StartTime:       updated.ScheduledTime,
		DurationMinutes: updated.DurationMinutes,
		Status:          string(updated.Status),
		UpdatedAt:       updated.UpdatedAt,
	}, nil
}

// validateRequest проверяет статические поля запроса
func (uc *UseCase) validateRequest(req *Request) *domain.ValidationError {
	verr := &domain.ValidationError{}

	if req.AppointmentID <= 0 {
		verr.Add("appointmentId", "must be a positive integer")
	}
	if req.NewDate.IsZero() {
		verr.Add("scheduledDate", "is required")
	}
	if err := req.NewStartTime.Validate(); err != nil {
		verr.Add("scheduledTime", "must be in HH:MM format")
	}

	if verr.HasViolations() {
		return verr
	}
	return nil
}

// checkNewSlot проверяет доступность новых даты и времени внутри транзакции.
// Сама переносимая запись исключается из проверки занятости сотрудника.
func (uc *UseCase) checkNewSlot(ctx context.Context, appt *domain.Appointment, req *Request) (*domain.ValidationError, error) {
	verr := &domain.ValidationError{}

	if !uc.scheduledInFuture(req) {
		verr.Add("scheduledDate", "appointment must be rescheduled to a future time")
	}

	available, err := uc.availability.IsSlotAvailable(ctx, req.NewDate, req.NewStartTime, appt.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: checkNewSlot - slot availability: %v", ErrInternal, err)
	}
	if !available {
		verr.Add("scheduledTime", "no capacity available for the requested slot")
	}

	if appt.AssignedEmployeeID != nil {
		free, err := uc.conflicts.EmployeeIsAvailable(ctx, *appt.AssignedEmployeeID, req.NewDate, req.NewStartTime, appt.DurationMinutes, &appt.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: checkNewSlot - employee availability: %v", ErrInternal, err)
		}
		if !free {
			verr.Add("scheduledTime", "assigned employee is not available for the requested interval")
		}
	}

	if verr.HasViolations() {
		return verr, nil
	}
	return nil, nil
}

// scheduledInFuture проверяет, что новые дата и время строго в будущем
func (uc *UseCase) scheduledInFuture(req *Request) bool {
	minutes, err := req.NewStartTime.Minutes()
	if err != nil {
		return false
	}

	scheduledAt := time.Date(
		req.NewDate.Year(), req.NewDate.Month(), req.NewDate.Day(),
		0, 0, 0, 0, time.UTC,
	).Add(time.Duration(minutes) * time.Minute)

	return scheduledAt.After(uc.timeProvider.Now().UTC())
}

// notifyRescheduled отправляет клиенту уведомление о переносе записи.
// Сбой доставки не влияет на результат операции.
func (uc *UseCase) notifyRescheduled(ctx context.Context, appt *domain.Appointment) {
	notification := &notifyservice.Notification{
		Type:            notifyservice.TypeRescheduled,
		RecipientUserID: appt.CustomerID,
		Title:           "Запись перенесена",
		Message: fmt.Sprintf("Ваша запись перенесена на %s в %s",
			appt.ScheduledDate.Format(domain.DateFormat), appt.ScheduledTime),
		Data: map[string]interface{}{
			"appointment_id": appt.ID,
			"status":         string(appt.Status),
		},
	}

	if err := uc.notifyClient.Send(ctx, notification); err != nil {
		uc.logger.Warn("notifyRescheduled: failed to send notification for appointment id=%d: %v", appt.ID, err)
	}
}
