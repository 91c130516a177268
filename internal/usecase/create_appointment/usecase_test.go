package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/identityservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeAppointmentRepo struct {
	created *domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	copied := *appt
	copied.ID = 1
	f.created = &copied
	return &copied, nil
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
	customerConflict bool
	employeeBusy     bool
}

func (f *fakeConflicts) CustomerHasConflict(_ context.Context, _ int64, _ time.Time, _ types.TimeString) (bool, error) {
	return f.customerConflict, nil
}

func (f *fakeConflicts) EmployeeIsAvailable(_ context.Context, _ int64, _ time.Time, _ types.TimeString, _ int, _ *int64) (bool, error) {
	return !f.employeeBusy, nil
}

type fakeIdentityClient struct {
	customerErr error
	vehicleErr  error
	employeeErr error
}

func (f *fakeIdentityClient) GetCustomer(_ context.Context, id int64) (*identityservice.Customer, error) {
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	return &identityservice.Customer{ID: id}, nil
}

func (f *fakeIdentityClient) GetVehicle(_ context.Context, id int64) (*identityservice.Vehicle, error) {
	if f.vehicleErr != nil {
		return nil, f.vehicleErr
	}
	return &identityservice.Vehicle{ID: id}, nil
}

func (f *fakeIdentityClient) GetEmployee(_ context.Context, id int64) (*identityservice.Employee, error) {
	if f.employeeErr != nil {
		return nil, f.employeeErr
	}
	return &identityservice.Employee{ID: id}, nil
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
	identityClient  *fakeIdentityClient
	notifyClient    *fakeNotifyClient
}

func newTestUseCase(cfg Config) (*UseCase, *testDeps) {
	deps := &testDeps{
		appointmentRepo: &fakeAppointmentRepo{},
		historyRepo:     &fakeHistoryRepo{},
		availability:    &fakeAvailability{available: true},
		conflicts:       &fakeConflicts{},
		identityClient:  &fakeIdentityClient{},
		notifyClient:    &fakeNotifyClient{},
	}
	uc := NewUseCase(
		deps.appointmentRepo,
		deps.historyRepo,
		deps.availability,
		deps.conflicts,
		deps.identityClient,
		deps.notifyClient,
		passthroughTxManager{},
		&fixedTimeProvider{now: time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)},
		cfg,
		nopLogger{},
	)
	return uc, deps
}

func validRequest() *Request {
	return &Request{
		CustomerID:         42,
		VehicleID:          10,
		CreatedBy:          42,
		Type:               string(domain.TypeMaintenance),
		Date:               time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:          types.TimeString("10:00"),
		ServiceDescription: "замена масла",
	}
}

func TestExecute_HappyPath(t *testing.T) {
	uc, deps := newTestUseCase(Config{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	// Нулевая длительность заменяется дефолтом
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)

	require.Len(t, deps.historyRepo.entries, 1)
	assert.Equal(t, domain.StatusPending, deps.historyRepo.entries[0].PreviousStatus)
	assert.Equal(t, domain.StatusPending, deps.historyRepo.entries[0].NewStatus)
	assert.Equal(t, historyReasonCreated, deps.historyRepo.entries[0].ChangeReason)

	require.Len(t, deps.notifyClient.sent, 1)
	assert.Equal(t, notifyservice.TypeCreated, deps.notifyClient.sent[0].Type)
}

func TestExecute_AggregatesStaticViolations(t *testing.T) {
	uc, deps := newTestUseCase(Config{})

	req := validRequest()
	req.CustomerID = 0
	req.Type = "detailing"
	req.StartTime = types.TimeString("25:99")
	req.ServiceDescription = ""

	_, err := uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 4)

	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"customerId", "type", "scheduledTime", "serviceDescription"}, fields)

	assert.Nil(t, deps.appointmentRepo.created)
}

func TestExecute_RejectsPastSchedule(t *testing.T) {
	uc, deps := newTestUseCase(Config{})

	req := validRequest()
	req.Date = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	req.StartTime = types.TimeString("09:00") // now is 12:00 the same day

	_, err := uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scheduledDate", verr.Violations[0].Field)
	assert.Nil(t, deps.appointmentRepo.created)
}

func TestExecute_RejectsWhenSlotFull(t *testing.T) {
	uc, deps := newTestUseCase(Config{})
	deps.availability.available = false

	_, err := uc.Execute(context.Background(), validRequest())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scheduledTime", verr.Violations[0].Field)
	assert.Nil(t, deps.appointmentRepo.created)
	assert.Empty(t, deps.notifyClient.sent)
}

func TestExecute_RejectsCustomerDoubleBooking(t *testing.T) {
	uc, deps := newTestUseCase(Config{})
	deps.conflicts.customerConflict = true

	_, err := uc.Execute(context.Background(), validRequest())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Nil(t, deps.appointmentRepo.created)
}

func TestExecute_RejectsBusyEmployee(t *testing.T) {
	uc, deps := newTestUseCase(Config{})
	deps.conflicts.employeeBusy = true

	req := validRequest()
	employeeID := int64(7)
	req.AssignedEmployeeID = &employeeID

	_, err := uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "assignedEmployeeId", verr.Violations[0].Field)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	uc, deps := newTestUseCase(Config{})
	deps.identityClient.customerErr = identityservice.ErrCustomerNotFound

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_VehicleNotFound(t *testing.T) {
	uc, deps := newTestUseCase(Config{})
	deps.identityClient.vehicleErr = identityservice.ErrVehicleNotFound

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestExecute_IdentityOutageFailOpen(t *testing.T) {
	uc, deps := newTestUseCase(Config{FailClosed: false})
	deps.identityClient.customerErr = identityservice.ErrServiceDegraded

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecute_IdentityOutageFailClosed(t *testing.T) {
	uc, deps := newTestUseCase(Config{FailClosed: true})
	deps.identityClient.customerErr = identityservice.ErrServiceDegraded

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrIdentityUnavailable)
	assert.Nil(t, deps.appointmentRepo.created)
}
