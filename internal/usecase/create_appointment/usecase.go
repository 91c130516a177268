package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identityservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

const historyReasonCreated = "appointment created"

// Config бизнес-настройки создания записи
type Config struct {
	// DefaultDurationMinutes длительность, подставляемая при
	// отсутствии значения в запросе
	DefaultDurationMinutes int

	// FailClosed политика при недоступности IdentityService:
	// true - отклонять создание записи, false - пропускать проверку
	FailClosed bool
}

// UseCase создание записи на обслуживание.
// Проверка доступности слота, конфликтов клиента и занятости сотрудника
// выполняется в одной serializable-транзакции с самой вставкой - две
// конкурирующие брони не смогут обе пройти проверку ёмкости.
type UseCase struct {
	appointmentRepo AppointmentRepository
	historyRepo     HistoryRepository
	availability    AvailabilityChecker
	conflicts       ConflictDetector
	identityClient  IdentityServiceClient
	notifyClient    NotificationClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	cfg             Config
	logger          Logger
}

// NewUseCase создает новый экземпляр usecase создания записи
func NewUseCase(
	appointmentRepo AppointmentRepository,
	historyRepo HistoryRepository,
	availability AvailabilityChecker,
	conflicts ConflictDetector,
	identityClient IdentityServiceClient,
	notifyClient NotificationClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = domain.DefaultDurationMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		historyRepo:     historyRepo,
		availability:    availability,
		conflicts:       conflicts,
		identityClient:  identityClient,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    timeProvider,
		cfg:             cfg,
		logger:          logger,
	}
}

// Execute создает новую запись на обслуживание в статусе pending
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if verr := uc.validateRequest(req); verr != nil {
		return nil, verr
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = uc.cfg.DefaultDurationMinutes
	}

	if err := uc.verifyIdentities(ctx, req); err != nil {
		return nil, err
	}

	var created *domain.Appointment
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if verr, err := uc.checkSchedule(txCtx, req, duration); err != nil {
			return err
		} else if verr != nil {
			return verr
		}

		appt := &domain.Appointment{
			CustomerID:         req.CustomerID,
			VehicleID:          req.VehicleID,
			AssignedEmployeeID: req.AssignedEmployeeID,
			CreatedBy:          req.CreatedBy,
			Type:               domain.AppointmentType(req.Type),
			ScheduledDate:      req.Date,
			ScheduledTime:      req.StartTime,
			DurationMinutes:    duration,
			Status:             domain.StatusPending,
			ServiceDescription: req.ServiceDescription,
			CustomerNotes:      req.CustomerNotes,
			InternalNotes:      req.InternalNotes,
			EstimatedCost:      req.EstimatedCost,
		}

		var err error
		created, err = uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			return fmt.Errorf("%w: Execute - create appointment: %v", ErrInternal, err)
		}

		_, err = uc.historyRepo.Create(txCtx, &domain.AppointmentHistory{
			AppointmentID:  created.ID,
			ChangedBy:      req.CreatedBy,
			PreviousStatus: domain.StatusPending,
			NewStatus:      domain.StatusPending,
			ChangeReason:   historyReasonCreated,
		})
		if err != nil {
			return fmt.Errorf("%w: Execute - create history entry: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Execute: appointment id=%d created for customer=%d at %s %s",
		created.ID, created.CustomerID, created.ScheduledDate.Format(domain.DateFormat), created.ScheduledTime)

	uc.notifyCreated(ctx, created)

	return uc.buildResponse(created), nil
}

// verifyIdentities проверяет существование клиента, автомобиля и сотрудника.
// Недоступность IdentityService трактуется по политике fail_open / fail_closed.
func (uc *UseCase) verifyIdentities(ctx context.Context, req *Request) error {
	if _, err := uc.identityClient.GetCustomer(ctx, req.CustomerID); err != nil {
		if errors.Is(err, identityservice.ErrCustomerNotFound) {
			return fmt.Errorf("%w: customer_id=%d", ErrCustomerNotFound, req.CustomerID)
		}
		if degradeErr := uc.degrade(err, "customer", req.CustomerID); degradeErr != nil {
			return degradeErr
		}
	}

	if _, err := uc.identityClient.GetVehicle(ctx, req.VehicleID); err != nil {
		if errors.Is(err, identityservice.ErrVehicleNotFound) {
			return fmt.Errorf("%w: vehicle_id=%d", ErrVehicleNotFound, req.VehicleID)
		}
		if degradeErr := uc.degrade(err, "vehicle", req.VehicleID); degradeErr != nil {
			return degradeErr
		}
	}

	if req.AssignedEmployeeID != nil {
		if _, err := uc.identityClient.GetEmployee(ctx, *req.AssignedEmployeeID); err != nil {
			if errors.Is(err, identityservice.ErrEmployeeNotFound) {
				return fmt.Errorf("%w: employee_id=%d", ErrEmployeeNotFound, *req.AssignedEmployeeID)
			}
			if degradeErr := uc.degrade(err, "employee", *req.AssignedEmployeeID); degradeErr != nil {
				return degradeErr
			}
		}
	}

	return nil
}

// degrade применяет политику graceful degradation к ошибке IdentityService
func (uc *UseCase) degrade(err error, entity string, id int64) error {
	if uc.cfg.FailClosed {
		uc.logger.Error("verifyIdentities: identity check for %s id=%d failed, rejecting (fail_closed): %v", entity, id, err)
		return fmt.Errorf("%w: %s id=%d: %v", ErrIdentityUnavailable, entity, id, err)
	}

	uc.logger.Warn("verifyIdentities: identity check for %s id=%d skipped (fail_open): %v", entity, id, err)
	return nil
}

// checkSchedule выполняет проверки расписания внутри транзакции.
// Нарушения собираются в общий ValidationError.
func (uc *UseCase) checkSchedule(ctx context.Context, req *Request, duration int) (*domain.ValidationError, error) {
	verr := &domain.ValidationError{}

	if !uc.scheduledInFuture(req) {
		verr.Add("scheduledDate", "appointment must be scheduled in the future")
	}

	available, err := uc.availability.IsSlotAvailable(ctx, req.Date, req.StartTime, duration)
	if err != nil {
		return nil, fmt.Errorf("%w: checkSchedule - slot availability: %v", ErrInternal, err)
	}
	if !available {
		verr.Add("scheduledTime", "no capacity available for the requested slot")
	}

	hasConflict, err := uc.conflicts.CustomerHasConflict(ctx, req.CustomerID, req.Date, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: checkSchedule - customer conflict: %v", ErrInternal, err)
	}
	if hasConflict {
		verr.Add("scheduledTime", "customer already has an appointment too close to the requested time")
	}

	if req.AssignedEmployeeID != nil {
		free, err := uc.conflicts.EmployeeIsAvailable(ctx, *req.AssignedEmployeeID, req.Date, req.StartTime, duration, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: checkSchedule - employee availability: %v", ErrInternal, err)
		}
		if !free {
			verr.Add("assignedEmployeeId", "employee is not available for the requested interval")
		}
	}

	if verr.HasViolations() {
		return verr, nil
	}
	return nil, nil
}

// scheduledInFuture проверяет, что дата и время записи строго в будущем
func (uc *UseCase) scheduledInFuture(req *Request) bool {
	minutes, err := req.StartTime.Minutes()
	if err != nil {
		return false
	}

	scheduledAt := time.Date(
		req.Date.Year(), req.Date.Month(), req.Date.Day(),
		0, 0, 0, 0, time.UTC,
	).Add(time.Duration(minutes) * time.Minute)

	return scheduledAt.After(uc.timeProvider.Now().UTC())
}

// notifyCreated отправляет клиенту уведомление о создании записи.
// Сбой доставки не влияет на результат операции.
func (uc *UseCase) notifyCreated(ctx context.Context, appt *domain.Appointment) {
	notification := &notifyservice.Notification{
		Type:            notifyservice.TypeCreated,
		RecipientUserID: appt.CustomerID,
		Title:           "Запись создана",
		Message: fmt.Sprintf("Ваша запись на %s в %s создана и ожидает подтверждения",
			appt.ScheduledDate.Format(domain.DateFormat), appt.ScheduledTime),
		Data: map[string]interface{}{
			"appointment_id": appt.ID,
			"status":         string(appt.Status),
		},
	}

	if err := uc.notifyClient.Send(ctx, notification); err != nil {
		uc.logger.Warn("notifyCreated: failed to send notification for appointment id=%d: %v", appt.ID, err)
	}
}

func (uc *UseCase) buildResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:                 appt.ID,
		CustomerID:         appt.CustomerID,
		VehicleID:          appt.VehicleID,
		AssignedEmployeeID: appt.AssignedEmployeeID,
		CreatedBy:          appt.CreatedBy,
		Type:               string(appt.Type),
		Date:               appt.ScheduledDate,
		StartTime:          appt.ScheduledTime,
		DurationMinutes:    appt.DurationMinutes,
		Status:             string(appt.Status),
		ServiceDescription: appt.ServiceDescription,
		CustomerNotes:      appt.CustomerNotes,
		InternalNotes:      appt.InternalNotes,
		EstimatedCost:      appt.EstimatedCost,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}
