package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

// UseCase получение списка доступных слотов в диапазоне дат
type UseCase struct {
	availability AvailabilityChecker
	logger       Logger
}

// NewUseCase создает новый экземпляр usecase получения слотов
func NewUseCase(availability AvailabilityChecker, logger Logger) *UseCase {
	return &UseCase{
		availability: availability,
		logger:       logger,
	}
}

// Execute возвращает доступные слоты в диапазоне дат с остаточной ёмкостью
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	slots, err := uc.availability.ListAvailableSlots(ctx, req.StartDate, req.EndDate, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDateRange) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("Execute: list available slots failed: %v", err)
		return nil, fmt.Errorf("%w: Execute - list available slots: %v", ErrInternal, err)
	}

	return newResponse(slots), nil
}
