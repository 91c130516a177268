package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeAvailability struct {
	slots []domain.AvailableSlot
	err   error
}

func (f *fakeAvailability) ListAvailableSlots(_ context.Context, _, _ time.Time, _ int) ([]domain.AvailableSlot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestExecute_MapsSlotsToResponse(t *testing.T) {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	uc := NewUseCase(&fakeAvailability{slots: []domain.AvailableSlot{{
		Date:              day,
		StartTime:         types.TimeString("10:00"),
		EndTime:           types.TimeString("11:00"),
		AvailableCapacity: 2,
		TotalCapacity:     3,
	}}}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{StartDate: day, EndDate: day})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "2025-10-15", resp.Slots[0].Date)
	assert.Equal(t, "10:00", resp.Slots[0].StartTime)
	assert.Equal(t, "11:00", resp.Slots[0].EndTime)
	assert.Equal(t, 2, resp.Slots[0].AvailableCapacity)
	assert.Equal(t, 3, resp.Slots[0].TotalCapacity)
}

func TestExecute_EmptyRangeGivesEmptyList(t *testing.T) {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	uc := NewUseCase(&fakeAvailability{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{StartDate: day, EndDate: day})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_RejectsMissingDates(t *testing.T) {
	uc := NewUseCase(&fakeAvailability{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RejectsInvertedRange(t *testing.T) {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	uc := NewUseCase(&fakeAvailability{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{StartDate: day, EndDate: day.AddDate(0, 0, -1)})
	require.ErrorIs(t, err, ErrInvalidInput)
}
