package appointments

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// notifyStatusChange отправляет клиенту уведомление о смене статуса.
// Статусы без клиентского события (in_progress, no_show) пропускаются.
// Сбой доставки логируется и никогда не влияет на результат операции.
func (s *Service) notifyStatusChange(ctx context.Context, appt *domain.Appointment, reason string) {
	var notificationType notifyservice.NotificationType
	var title, message string

	switch appt.Status {
	case domain.StatusConfirmed:
		notificationType = notifyservice.TypeConfirmed
		title = "Запись подтверждена"
		message = fmt.Sprintf("Ваша запись на %s в %s подтверждена",
			appt.ScheduledDate.Format(domain.DateFormat), appt.ScheduledTime)
	case domain.StatusCancelled:
		notificationType = notifyservice.TypeCancelled
		title = "Запись отменена"
		message = fmt.Sprintf("Ваша запись на %s в %s отменена",
			appt.ScheduledDate.Format(domain.DateFormat), appt.ScheduledTime)
		if reason != "" {
			message += ": " + reason
		}
	case domain.StatusCompleted:
		notificationType = notifyservice.TypeCompleted
		title = "Обслуживание завершено"
		message = fmt.Sprintf("Работы по записи от %s завершены",
			appt.ScheduledDate.Format(domain.DateFormat))
	default:
		return
	}

	notification := &notifyservice.Notification{
		Type:            notificationType,
		RecipientUserID: appt.CustomerID,
		Title:           title,
		Message:         message,
		Data: map[string]interface{}{
			"appointment_id": appt.ID,
			"status":         string(appt.Status),
		},
	}

	if err := s.notifyClient.Send(ctx, notification); err != nil {
		s.logger.Warn("notifyStatusChange: failed to send %s notification for appointment id=%d: %v",
			notificationType, appt.ID, err)
	}
}
