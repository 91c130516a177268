package assign_employee

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identityservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeAppointmentRepo struct {
	appointment *domain.Appointment

	updateCalls    int
	lastEmployeeID int64
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *f.appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) UpdateAssignedEmployee(_ context.Context, _ int64, employeeID int64) error {
	f.updateCalls++
	f.lastEmployeeID = employeeID
	return nil
}

type fakeHistoryRepo struct {
	entries []*domain.AppointmentHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.AppointmentHistory) (*domain.AppointmentHistory, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

type fakeConflicts struct {
	employeeBusy  bool
	lastExcludeID *int64
}

func (f *fakeConflicts) EmployeeIsAvailable(_ context.Context, _ int64, _ time.Time, _ types.TimeString, _ int, excludeID *int64) (bool, error) {
	f.lastExcludeID = excludeID
	return !f.employeeBusy, nil
}

type fakeIdentityClient struct {
	err error
}

func (f *fakeIdentityClient) VerifyEmployee(_ context.Context, id int64) (*identityservice.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &identityservice.Employee{ID: id}, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testDeps struct {
	appointmentRepo *fakeAppointmentRepo
	historyRepo     *fakeHistoryRepo
	conflicts       *fakeConflicts
	identityClient  *fakeIdentityClient
}

func newTestUseCase(appt *domain.Appointment, cfg Config) (*UseCase, *testDeps) {
	deps := &testDeps{
		appointmentRepo: &fakeAppointmentRepo{appointment: appt},
		historyRepo:     &fakeHistoryRepo{},
		conflicts:       &fakeConflicts{},
		identityClient:  &fakeIdentityClient{},
	}
	uc := NewUseCase(
		deps.appointmentRepo,
		deps.historyRepo,
		deps.conflicts,
		deps.identityClient,
		passthroughTxManager{},
		cfg,
		nopLogger{},
	)
	return uc, deps
}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		CustomerID:      42,
		VehicleID:       10,
		Type:            domain.TypeMaintenance,
		ScheduledDate:   time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   types.TimeString("10:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
}

func TestExecute_AssignsEmployee(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment(), Config{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, EmployeeID: 7, ActorID: 99})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.AssignedEmployeeID)
	// Назначение не меняет статус
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, int64(7), deps.appointmentRepo.lastEmployeeID)

	// Сама запись исключается из проверки занятости
	require.NotNil(t, deps.conflicts.lastExcludeID)
	assert.Equal(t, int64(1), *deps.conflicts.lastExcludeID)

	require.Len(t, deps.historyRepo.entries, 1)
	assert.Equal(t, "employee assigned: none -> 7", deps.historyRepo.entries[0].ChangeReason)
}

func TestExecute_ReassignmentRecordsPreviousEmployee(t *testing.T) {
	appt := confirmedAppointment()
	previous := int64(3)
	appt.AssignedEmployeeID = &previous
	uc, deps := newTestUseCase(appt, Config{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, EmployeeID: 7, ActorID: 99})
	require.NoError(t, err)

	require.Len(t, deps.historyRepo.entries, 1)
	assert.Equal(t, "employee assigned: 3 -> 7", deps.historyRepo.entries[0].ChangeReason)
}

func TestExecute_RejectsNonPositiveIDs(t *testing.T) {
	uc, _ := newTestUseCase(confirmedAppointment(), Config{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, EmployeeID: 0})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{AppointmentID: -1, EmployeeID: 7})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	uc, _ := newTestUseCase(nil, Config{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 404, EmployeeID: 7})
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_EmployeeNotFound(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment(), Config{})
	deps.identityClient.err = identityservice.ErrEmployeeNotFound

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, EmployeeID: 7})
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestExecute_RejectsTerminalStatuses(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			appt := confirmedAppointment()
			appt.Status = status
			uc, deps := newTestUseCase(appt, Config{})

			_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, EmployeeID: 7})
			require.ErrorIs(t, err, ErrAppointmentFinished)
			assert.Zero(t, deps.appointmentRepo.updateCalls)
			assert.Empty(t, deps.historyRepo.entries)
		})
	}
}

func TestExecute_RejectsBusyEmployee(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment(), Config{})
	deps.conflicts.employeeBusy = true

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, EmployeeID: 7})
	require.ErrorIs(t, err, ErrEmployeeNotAvailable)
	assert.Zero(t, deps.appointmentRepo.updateCalls)
}

func TestExecute_IdentityOutageFailOpen(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment(), Config{FailClosed: false})
	deps.identityClient.err = identityservice.ErrServiceDegraded

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, EmployeeID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.AssignedEmployeeID)
}

func TestExecute_IdentityOutageFailClosed(t *testing.T) {
	uc, deps := newTestUseCase(confirmedAppointment(), Config{FailClosed: true})
	deps.identityClient.err = identityservice.ErrServiceDegraded

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1, EmployeeID: 7})
	require.ErrorIs(t, err, ErrIdentityUnavailable)
	assert.Zero(t, deps.appointmentRepo.updateCalls)
}
