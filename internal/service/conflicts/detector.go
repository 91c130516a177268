package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Config бизнес-настройки детектора конфликтов
type Config struct {
	// CustomerConflictWindowMinutes защитное окно двойного бронирования:
	// активная запись клиента в тот же день ближе этого количества минут
	// к запрошенному времени считается конфликтом
	CustomerConflictWindowMinutes int
}

// Detector обнаруживает конфликты расписания: двойное бронирование клиента
// в защитном окне и пересечение интервалов записей сотрудника.
type Detector struct {
	appointmentRepo AppointmentRepository
	cfg             Config
	logger          Logger
}

// NewDetector создает новый экземпляр детектора конфликтов
func NewDetector(appointmentRepo AppointmentRepository, cfg Config, logger Logger) *Detector {
	if cfg.CustomerConflictWindowMinutes <= 0 {
		cfg.CustomerConflictWindowMinutes = domain.DefaultConflictWindowMins
	}
	return &Detector{
		appointmentRepo: appointmentRepo,
		cfg:             cfg,
		logger:          logger,
	}
}

// CustomerHasConflict проверяет двойное бронирование клиента.
// Конфликт - активная запись клиента на ту же дату, время которой отличается
// от запрошенного СТРОГО меньше чем на защитное окно (в любую сторону):
// при окне 30 минут запись на 10:00 конфликтует с запросом на 10:29,
// но не с запросом на 10:30.
func (d *Detector) CustomerHasConflict(ctx context.Context, customerID int64, date time.Time, t types.TimeString) (bool, error) {
	appointments, err := d.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		CustomerID: &customerID,
		Date:       &date,
	})
	if err != nil {
		return false, fmt.Errorf("%w: CustomerHasConflict - get appointments: %v", ErrInternal, err)
	}

	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}

		diff, err := appt.ScheduledTime.MinutesBetween(t)
		if err != nil {
			// Запись с некорректным временем не участвует в проверке
			d.logger.Warn("CustomerHasConflict: skipping appointment id=%d with invalid time %q",
				appt.ID, appt.ScheduledTime)
			continue
		}

		if diff < d.cfg.CustomerConflictWindowMinutes {
			d.logger.Info("CustomerHasConflict: customer=%d has appointment id=%d at %s, %d minutes from requested %s",
				customerID, appt.ID, appt.ScheduledTime, diff, t)
			return true, nil
		}
	}

	return false, nil
}

// EmployeeIsAvailable проверяет, свободен ли сотрудник для интервала
// [t, t+durationMinutes) на указанную дату.
// Учитываются только записи со статусами confirmed и in_progress;
// excludeID исключает саму запись при проверке переноса.
// Пересечение интервалов: start_A < start+duration И start_A+dur_A > start.
func (d *Detector) EmployeeIsAvailable(ctx context.Context, employeeID int64, date time.Time, t types.TimeString, durationMinutes int, excludeID *int64) (bool, error) {
	appointments, err := d.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		AssignedEmployeeID: &employeeID,
		Date:               &date,
		Statuses:           domain.EmployeeBlockingStatuses,
	})
	if err != nil {
		return false, fmt.Errorf("%w: EmployeeIsAvailable - get appointments: %v", ErrInternal, err)
	}

	for _, appt := range appointments {
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}

		overlaps, err := appt.Overlaps(t, durationMinutes)
		if err != nil {
			d.logger.Warn("EmployeeIsAvailable: skipping appointment id=%d with invalid time %q",
				appt.ID, appt.ScheduledTime)
			continue
		}

		if overlaps {
			d.logger.Info("EmployeeIsAvailable: employee=%d busy, appointment id=%d [%s +%dm] overlaps [%s +%dm]",
				employeeID, appt.ID, appt.ScheduledTime, appt.DurationMinutes, t, durationMinutes)
			return false, nil
		}
	}

	return true, nil
}
