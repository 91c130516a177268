package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeAppointmentRepo struct {
	appointment *domain.Appointment

	updateCalls int
	lastDate    time.Time
	lastTime    types.TimeString
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *f.appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) UpdateSchedule(_ context.Context, _ int64, date time.Time, startTime types.TimeString) error {
	f.updateCalls++
	f.lastDate = date
	f.lastTime = startTime
	return nil
}

type fakeHistoryRepo struct {
	entries []*domain.AppointmentHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.AppointmentHistory) (*domain.AppointmentHistory, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

type fakeAvailability struct {
	available bool
}

func (f *fakeAvailability) IsSlotAvailable(_ context.Context, _ time.Time, _ types.TimeString, _ int) (bool, error) {
	return f.available, nil
}

type fakeConflicts struct {
	employeeBusy  bool
	lastExcludeID *int64
}

func (f *fakeConflicts) EmployeeIsAvailable(_ context.Context, _ int64, _ time.Time, _ types.TimeString, _ int, excludeID *int64) (bool, error) {
	f.lastExcludeID = excludeID
	return !f.employeeBusy, nil
}

type fakeNotifyClient struct {
	sent []*notifyservice.Notification
}

func (f *fakeNotifyClient) Send(_ context.Context, notification *notifyservice.Notification) error {
	f.sent = append(f.sent, notification)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testDeps struct {
	appointmentRepo *fakeAppointmentRepo
	historyRepo     *fakeHistoryRepo
	availability    *fakeAvailability
	conflicts       *fakeConflicts
	notifyClient    *fakeNotifyClient
}

func newTestUseCase(appt *domain.Appointment) (*UseCase, *testDeps) {
	deps := &testDeps{
		appointmentRepo: &fakeAppointmentRepo{appointment: appt},
		historyRepo:     &fakeHistoryRepo{},
		availability:    &fakeAvailability{available: true},
		conflicts:       &fakeConflicts{},
		notifyClient:    &fakeNotifyClient{},
	}
	uc := NewUseCase(
		deps.appointmentRepo,
		deps.historyRepo,
		deps.availability,
		deps.conflicts,
		deps.notifyClient,
		passthroughTxManager{},
		&fixedTimeProvider{now: time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)},
		nopLogger{},
	)
	return uc, deps
}

func confirmedAppointment() *domain.Appointment {
	employeeID := int64(7)
	return &domain.Appointment{
		ID:                 1,
		CustomerID:         42,
		VehicleID:          10,
		AssignedEmployeeID: &employeeID,
		Type:               domain.TypeMaintenance,
		ScheduledDate:      time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		ScheduledTime:      types.TimeString("10:00"),
		DurationMinutes:    60,
		Status:             domain.StatusConfirmed,
	}
}

func validRequest() *Request {
	return &Request{
		AppointmentID: 1,
		ActorID:       99,
		NewDate:       time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		NewStartTime:  types.TimeString("14:00"),
	}
}

func TestExecute_HappyPath(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), resp.Date)
	assert.Equal(t, types.TimeString("14:00"), resp.StartTime)
	// Перенос не меняет статус
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	assert.Equal(t, 1, deps.appointmentRepo.updateCalls)

	// Сама запись исключается из проверки занятости сотрудника
	require.NotNil(t, deps.conflicts.lastExcludeID)
	assert.Equal(t, int64(1), *deps.conflicts.lastExcludeID)

	require.Len(t, deps.historyRepo.entries, 1)
	entry := deps.historyRepo.entries[0]
	assert.Equal(t, domain.StatusConfirmed, entry.PreviousStatus)
	assert.Equal(t, domain.StatusConfirmed, entry.NewStatus)
	assert.Equal(t, "rescheduled from 2025-10-15 10:00 to 2025-10-16 14:00", entry.ChangeReason)

	require.Len(t, deps.notifyClient.sent, 1)
	assert.Equal(t, notifyservice.TypeRescheduled, deps.notifyClient.sent[0].Type)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	uc, _ := newTestUseCase(nil)

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_RejectsNonReschedulableStatuses(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			appt := confirmedAppointment()
			appt.Status = status
			uc, deps := newTestUseCase(appt)

			_, err := uc.Execute(context.Background(), validRequest())
			require.ErrorIs(t, err, ErrNotReschedulable)
			assert.Zero(t, deps.appointmentRepo.updateCalls)
			assert.Empty(t, deps.historyRepo.entries)
		})
	}
}

func TestExecute_RejectsWhenNewSlotFull(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment())
	deps.availability.available = false

	_, err := uc.Execute(context.Background(), validRequest())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	// Отказ не оставляет следов
	assert.Zero(t, deps.appointmentRepo.updateCalls)
	assert.Empty(t, deps.historyRepo.entries)
	assert.Empty(t, deps.notifyClient.sent)
}

func TestExecute_RejectsWhenEmployeeBusy(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment())
	deps.conflicts.employeeBusy = true

	_, err := uc.Execute(context.Background(), validRequest())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, deps.appointmentRepo.updateCalls)
}

func TestExecute_RejectsPastTarget(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment())

	req := validRequest()
	req.NewDate = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	req.NewStartTime = types.TimeString("09:00") // now is 12:00 the same day

	_, err := uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scheduledDate", verr.Violations[0].Field)
	assert.Zero(t, deps.appointmentRepo.updateCalls)
}

func TestExecute_RejectsMalformedRequest(t *testing.T) {
	uc, _ := newTestUseCase(confirmedAppointment())

	req := &Request{AppointmentID: 0, NewStartTime: types.TimeString("bad")}
	_, err := uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 3)
}
