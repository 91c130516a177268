package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	timeslotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Config бизнес-настройки проверки доступности.
// Передаётся явно при создании - без глобального состояния.
type Config struct {
	DefaultSlotCapacity    int
	DefaultDurationMinutes int
}

// Checker проверяет доступность слотов для записи.
// Ёмкость определяется явным TimeSlot, покрывающим запрошенное время,
// либо дефолтным значением из конфигурации.
type Checker struct {
	appointmentRepo AppointmentRepository
	timeSlotRepo    TimeSlotRepository
	cfg             Config
	logger          Logger
}

// NewChecker создает новый экземпляр проверки доступности
func NewChecker(
	appointmentRepo AppointmentRepository,
	timeSlotRepo TimeSlotRepository,
	cfg Config,
	logger Logger,
) *Checker {
	if cfg.DefaultSlotCapacity <= 0 {
		cfg.DefaultSlotCapacity = domain.DefaultSlotCapacity
	}
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = domain.DefaultDurationMinutes
	}
	return &Checker{
		appointmentRepo: appointmentRepo,
		timeSlotRepo:    timeSlotRepo,
		cfg:             cfg,
		logger:          logger,
	}
}

// CapacityFor возвращает допустимое количество одновременных записей на
// дату и время. Явный слот с is_available=false даёт ёмкость 0; отсутствие
// явного слота - дефолтную ёмкость.
func (c *Checker) CapacityFor(ctx context.Context, date time.Time, t types.TimeString) (int, error) {
	slot, err := c.timeSlotRepo.GetByDateAndTime(ctx, date, t)
	if err != nil {
		if errors.Is(err, timeslotRepo.ErrSlotNotFound) {
			return c.cfg.DefaultSlotCapacity, nil
		}
		return 0, fmt.Errorf("%w: CapacityFor - get time slot: %v", ErrInternal, err)
	}

	return slot.Capacity(), nil
}

// IsSlotAvailable проверяет, есть ли свободное место на точные дату и время.
// Считаются только активные записи с совпадающими (scheduled_date,
// scheduled_time) - записи на 10:00 и 10:30 относятся к разным слотам,
// даже если их интервалы пересекаются.
//
// Внутри транзакции подсчитываемые строки блокируются (FOR UPDATE),
// что делает последовательность check-and-book атомарной.
func (c *Checker) IsSlotAvailable(ctx context.Context, date time.Time, t types.TimeString, durationMinutes int) (bool, error) {
	capacity, err := c.CapacityFor(ctx, date, t)
	if err != nil {
		return false, err
	}

	if capacity == 0 {
		c.logger.Info("IsSlotAvailable: slot %s %s is closed", date.Format(domain.DateFormat), t)
		return false, nil
	}

	count, err := c.countActiveAt(ctx, date, t)
	if err != nil {
		return false, err
	}

	c.logger.Info("IsSlotAvailable: slot %s %s - %d/%d spots taken",
		date.Format(domain.DateFormat), t, count, capacity)

	return count < capacity, nil
}

// countActiveAt подсчитывает активные записи на точные дату и время
func (c *Checker) countActiveAt(ctx context.Context, date time.Time, t types.TimeString) (int, error) {
	appointments, err := c.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		Date: &date,
		Time: &t,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: countActiveAt - get appointments: %v", ErrInternal, err)
	}

	count := 0
	for _, appt := range appointments {
		if appt.IsActive() {
			count++
		}
	}
	return count, nil
}
