package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ListAvailableSlots строит список слотов в диапазоне дат с остаточной
// ёмкостью каждого.
//
// Если в диапазоне есть явные TimeSlot - по одной позиции на слот, включая
// закрытые (ёмкость 0): фильтрация остаётся на вызывающей стороне.
// Если явных слотов нет - синтезируются часовые слоты рабочего дня
// 09:00-17:00 только по будням; выходные пропускаются целиком.
//
// Результат - чистая функция от состояния хранилища на момент вызова.
func (c *Checker) ListAvailableSlots(ctx context.Context, startDate, endDate time.Time, durationMinutes int) ([]domain.AvailableSlot, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date %s before start date %s",
			ErrInvalidDateRange, endDate.Format(domain.DateFormat), startDate.Format(domain.DateFormat))
	}
	if durationMinutes <= 0 {
		durationMinutes = c.cfg.DefaultDurationMinutes
	}

	appointments, err := c.appointmentRepo.GetActiveBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailableSlots - get appointments: %v", ErrInternal, err)
	}
	counts := activeCountsBySlot(appointments)

	explicitSlots, err := c.timeSlotRepo.ListByDateRange(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailableSlots - get time slots: %v", ErrInternal, err)
	}

	if len(explicitSlots) > 0 {
		return c.slotsFromExplicit(explicitSlots, counts), nil
	}

	return c.synthesizeSlots(startDate, endDate, durationMinutes, counts)
}

// slotKey ключ подсчёта занятости: дата + время начала
type slotKey struct {
	date string
	time types.TimeString
}

// activeCountsBySlot группирует активные записи по точным (дата, время)
func activeCountsBySlot(appointments []*domain.Appointment) map[slotKey]int {
	counts := make(map[slotKey]int)
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		key := slotKey{date: appt.ScheduledDate.Format(domain.DateFormat), time: appt.ScheduledTime}
		counts[key]++
	}
	return counts
}

// slotsFromExplicit строит позиции по явным слотам
func (c *Checker) slotsFromExplicit(slots []*domain.TimeSlot, counts map[slotKey]int) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(slots))

	for _, slot := range slots {
		capacity := slot.Capacity()
		key := slotKey{date: slot.SlotDate.Format(domain.DateFormat), time: slot.StartTime}

		available := capacity - counts[key]
		if available < 0 {
			available = 0
		}

		result = append(result, domain.AvailableSlot{
			Date:              slot.SlotDate,
			StartTime:         slot.StartTime,
			EndTime:           slot.EndTime,
			AvailableCapacity: available,
			TotalCapacity:     capacity,
		})
	}

	return result
}

// synthesizeSlots генерирует часовые слоты рабочего дня по будням
func (c *Checker) synthesizeSlots(startDate, endDate time.Time, durationMinutes int, counts map[slotKey]int) ([]domain.AvailableSlot, error) {
	result := make([]domain.AvailableSlot, 0)

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if !domain.IsBusinessDay(date) {
			continue
		}

		for hour := domain.BusinessDayStartHour; hour < domain.BusinessDayEndHour; hour++ {
			startTime := types.TimeString(fmt.Sprintf("%02d:00", hour))
			endTime, err := startTime.AddMinutes(durationMinutes)
			if err != nil {
				return nil, fmt.Errorf("%w: synthesizeSlots - compute slot end: %v", ErrInternal, err)
			}

			key := slotKey{date: date.Format(domain.DateFormat), time: startTime}
			available := c.cfg.DefaultSlotCapacity - counts[key]
			if available < 0 {
				available = 0
			}

			result = append(result, domain.AvailableSlot{
				Date:              date,
				StartTime:         startTime,
				EndTime:           endTime,
				AvailableCapacity: available,
				TotalCapacity:     c.cfg.DefaultSlotCapacity,
			})
		}
	}

	return result, nil
}
