package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service управляет жизненным циклом записи: граф переходов статусов,
// метки completed_at/cancelled_at, строка журнала на каждую мутацию и
// best-effort уведомление клиента.
type Service struct {
	appointmentRepo AppointmentRepository
	historyRepo     HistoryRepository
	notifyClient    NotificationClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	historyRepo HistoryRepository,
	notifyClient NotificationClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		historyRepo:     historyRepo,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Transition переводит запись в новый статус.
// Недопустимый переход отклоняется с *domain.InvalidTransitionError,
// называющей оба статуса. На успешном переходе:
//   - статус обновляется;
//   - completed_at / cancelled_at устанавливаются один раз и никогда
//     не сбрасываются;
//   - в журнал добавляется ровно одна строка;
//   - после коммита отправляется best-effort уведомление - его сбой
//     логируется и никогда не откатывает переход.
func (s *Service) Transition(ctx context.Context, appointmentID int64, to domain.AppointmentStatus, actorID int64, reason string) (*models.AppointmentResponse, error) {
	s.logger.Info("Transition: appointment id=%d to status=%s by user=%d", appointmentID, to, actorID)

	if !to.IsValid() {
		s.logger.Warn("Transition: unknown status=%s for appointment id=%d", to, appointmentID)
		return nil, ErrInvalidStatus
	}

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Transition - get appointment: %v", ErrInternal, err)
		}

		if err := domain.ValidateTransition(appt.Status, to); err != nil {
			s.logger.Warn("Transition: rejected for appointment id=%d: %v", appointmentID, err)
			return err
		}

		now := s.timeProvider.Now()
		var completedAt, cancelledAt *time.Time
		if to == domain.StatusCompleted && appt.CompletedAt == nil {
			completedAt = &now
		}
		if to == domain.StatusCancelled && appt.CancelledAt == nil {
			cancelledAt = &now
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointmentID, to, completedAt, cancelledAt); err != nil {
			return fmt.Errorf("%w: Transition - update status: %v", ErrInternal, err)
		}

		entry := &domain.AppointmentHistory{
			AppointmentID:  appointmentID,
			ChangedBy:      actorID,
			PreviousStatus: appt.Status,
			NewStatus:      to,
			ChangeReason:   reason,
		}
		if _, err := s.historyRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("%w: Transition - create history entry: %v", ErrInternal, err)
		}

		appt.Status = to
		appt.UpdatedAt = now
		if completedAt != nil {
			appt.CompletedAt = completedAt
		}
		if cancelledAt != nil {
			appt.CancelledAt = cancelledAt
		}
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Transition: appointment id=%d moved to status=%s", appointmentID, to)

	// Уведомление отправляется вне транзакции: доставка не влияет на
	// результат перехода
	s.notifyStatusChange(ctx, result, reason)

	return models.FromDomainAppointment(result), nil
}

// Confirm подтверждает запись (pending -> confirmed)
func (s *Service) Confirm(ctx context.Context, appointmentID, actorID int64, reason string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, appointmentID, domain.StatusConfirmed, actorID, reason)
}

// Start начинает обслуживание (confirmed -> in_progress)
func (s *Service) Start(ctx context.Context, appointmentID, actorID int64, reason string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, appointmentID, domain.StatusInProgress, actorID, reason)
}

// Complete завершает обслуживание (in_progress -> completed)
func (s *Service) Complete(ctx context.Context, appointmentID, actorID int64, reason string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, appointmentID, domain.StatusCompleted, actorID, reason)
}

// Cancel отменяет запись с указанием причины
func (s *Service) Cancel(ctx context.Context, appointmentID, actorID int64, reason string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, appointmentID, domain.StatusCancelled, actorID, reason)
}

// MarkNoShow отмечает неявку клиента (confirmed -> no_show)
func (s *Service) MarkNoShow(ctx context.Context, appointmentID, actorID int64, reason string) (*models.AppointmentResponse, error) {
	return s.Transition(ctx, appointmentID, domain.StatusNoShow, actorID, reason)
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetHistory получает журнал изменений записи, сначала самые свежие строки
func (s *Service) GetHistory(ctx context.Context, appointmentID int64) (*models.HistoryListResponse, error) {
	// Проверяем существование записи, чтобы отличить пустой журнал от
	// несуществующего ID
	if _, err := s.appointmentRepo.GetByID(ctx, appointmentID); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetHistory: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetHistory: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	entries, err := s.historyRepo.ListByAppointmentID(ctx, appointmentID)
	if err != nil {
		s.logger.Error("GetHistory: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainHistoryList(entries), nil
}

// GetStatistics возвращает агрегаты по записям: количество по статусам,
// типам, датам ближайшего месяца и количество предстоящих записей
func (s *Service) GetStatistics(ctx context.Context) (*models.StatisticsResponse, error) {
	byStatus, err := s.appointmentRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("GetStatistics: count by status failed: %v", err)
		return nil, fmt.Errorf("%w: GetStatistics - count by status: %v", ErrInternal, err)
	}

	byType, err := s.appointmentRepo.CountByType(ctx)
	if err != nil {
		s.logger.Error("GetStatistics: count by type failed: %v", err)
		return nil, fmt.Errorf("%w: GetStatistics - count by type: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	byDate, err := s.appointmentRepo.CountByDate(ctx, today, today.AddDate(0, 1, 0))
	if err != nil {
		s.logger.Error("GetStatistics: count by date failed: %v", err)
		return nil, fmt.Errorf("%w: GetStatistics - count by date: %v", ErrInternal, err)
	}

	upcoming, err := s.appointmentRepo.CountUpcoming(ctx, today)
	if err != nil {
		s.logger.Error("GetStatistics: count upcoming failed: %v", err)
		return nil, fmt.Errorf("%w: GetStatistics - count upcoming: %v", ErrInternal, err)
	}

	return models.NewStatisticsResponse(byStatus, byType, byDate, upcoming), nil
}
