package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// ToUseCaseRequest конвертирует query параметры в модель use case
func ToUseCaseRequest(startDateStr, endDateStr, durationStr string) (*getAvailableSlots.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, startDateStr)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, endDateStr)
	if err != nil {
		return nil, err
	}

	duration := 0
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailableSlots.Request{
		StartDate:       startDate,
		EndDate:         endDate,
		DurationMinutes: duration,
	}, nil
}
