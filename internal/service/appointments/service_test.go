package appointments

import (
	"context"
	"errors"
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

	updateCalls   int
	lastStatus    domain.AppointmentStatus
	lastCompleted *time.Time
	lastCancelled *time.Time

	byStatus map[domain.AppointmentStatus]int64
	byType   map[domain.AppointmentType]int64
	byDate   map[string]int64
	upcoming int64
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *f.appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, _ int64, status domain.AppointmentStatus, completedAt, cancelledAt *time.Time) error {
	f.updateCalls++
	f.lastStatus = status
	f.lastCompleted = completedAt
	f.lastCancelled = cancelledAt
	return nil
}

func (f *fakeAppointmentRepo) CountByStatus(_ context.Context) (map[domain.AppointmentStatus]int64, error) {
	return f.byStatus, nil
}

func (f *fakeAppointmentRepo) CountByType(_ context.Context) (map[domain.AppointmentType]int64, error) {
	return f.byType, nil
}

func (f *fakeAppointmentRepo) CountByDate(_ context.Context, _, _ time.Time) (map[string]int64, error) {
	return f.byDate, nil
}

func (f *fakeAppointmentRepo) CountUpcoming(_ context.Context, _ time.Time) (int64, error) {
	return f.upcoming, nil
}

type fakeHistoryRepo struct {
	entries []*domain.AppointmentHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.AppointmentHistory) (*domain.AppointmentHistory, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeHistoryRepo) ListByAppointmentID(_ context.Context, appointmentID int64) ([]*domain.AppointmentHistory, error) {
	var result []*domain.AppointmentHistory
	for _, entry := range f.entries {
		if entry.AppointmentID == appointmentID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeNotifyClient struct {
	sent []*notifyservice.Notification
	err  error
}

func (f *fakeNotifyClient) Send(_ context.Context, notification *notifyservice.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, notification)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
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

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:                 1,
		CustomerID:         42,
		VehicleID:          10,
		CreatedBy:          42,
		Type:               domain.TypeMaintenance,
		ScheduledDate:      time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		ScheduledTime:      types.TimeString("10:00"),
		DurationMinutes:    60,
		Status:             domain.StatusPending,
		ServiceDescription: "замена масла",
	}
}

func newTestService(repo *fakeAppointmentRepo, history *fakeHistoryRepo, notify *fakeNotifyClient) *Service {
	svc := NewService(repo, history, notify, passthroughTxManager{}, nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)}
	return svc
}

func TestTransition_HappyPath(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: pendingAppointment()}
	history := &fakeHistoryRepo{}
	notify := &fakeNotifyClient{}
	svc := newTestService(repo, history, notify)

	resp, err := svc.Confirm(context.Background(), 1, 99, "подтверждено менеджером")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, domain.StatusConfirmed, repo.lastStatus)
	assert.Nil(t, repo.lastCompleted)
	assert.Nil(t, repo.lastCancelled)

	// Ровно одна строка журнала с обоими статусами
	require.Len(t, history.entries, 1)
	assert.Equal(t, domain.StatusPending, history.entries[0].PreviousStatus)
	assert.Equal(t, domain.StatusConfirmed, history.entries[0].NewStatus)
	assert.Equal(t, int64(99), history.entries[0].ChangedBy)
	assert.Equal(t, "подтверждено менеджером", history.entries[0].ChangeReason)

	// Уведомление после коммита
	require.Len(t, notify.sent, 1)
	assert.Equal(t, notifyservice.TypeConfirmed, notify.sent[0].Type)
	assert.Equal(t, int64(42), notify.sent[0].RecipientUserID)
}

func TestTransition_InvalidTransitionRejected(t *testing.T) {
	appt := pendingAppointment()
	appt.Status = domain.StatusCompleted
	repo := &fakeAppointmentRepo{appointment: appt}
	history := &fakeHistoryRepo{}
	notify := &fakeNotifyClient{}
	svc := newTestService(repo, history, notify)

	_, err := svc.Confirm(context.Background(), 1, 99, "")

	var transitionErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusCompleted, transitionErr.From)
	assert.Equal(t, domain.StatusConfirmed, transitionErr.To)

	// Отклонённый переход не оставляет следов
	assert.Zero(t, repo.updateCalls)
	assert.Empty(t, history.entries)
	assert.Empty(t, notify.sent)
}

func TestTransition_UnknownStatus(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{appointment: pendingAppointment()}, &fakeHistoryRepo{}, &fakeNotifyClient{})

	_, err := svc.Transition(context.Background(), 1, domain.AppointmentStatus("archived"), 99, "")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransition_AppointmentNotFound(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeHistoryRepo{}, &fakeNotifyClient{})

	_, err := svc.Confirm(context.Background(), 404, 99, "")
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestTransition_CompleteSetsCompletedAtOnce(t *testing.T) {
	appt := pendingAppointment()
	appt.Status = domain.StatusInProgress
	repo := &fakeAppointmentRepo{appointment: appt}
	svc := newTestService(repo, &fakeHistoryRepo{}, &fakeNotifyClient{})

	resp, err := svc.Complete(context.Background(), 1, 99, "")
	require.NoError(t, err)

	require.NotNil(t, repo.lastCompleted)
	assert.Nil(t, repo.lastCancelled)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, "2025-10-14T12:00:00Z", *resp.CompletedAt)
}

func TestTransition_CancelSetsCancelledAt(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: pendingAppointment()}
	notify := &fakeNotifyClient{}
	svc := newTestService(repo, &fakeHistoryRepo{}, notify)

	resp, err := svc.Cancel(context.Background(), 1, 99, "клиент отказался")
	require.NoError(t, err)

	require.NotNil(t, repo.lastCancelled)
	assert.Nil(t, repo.lastCompleted)
	require.NotNil(t, resp.CancelledAt)

	require.Len(t, notify.sent, 1)
	assert.Equal(t, notifyservice.TypeCancelled, notify.sent[0].Type)
	assert.Contains(t, notify.sent[0].Message, "клиент отказался")
}

func TestTransition_NotificationFailureIsNonFatal(t *testing.T) {
	repo := &fakeAppointmentRepo{appointment: pendingAppointment()}
	notify := &fakeNotifyClient{err: errors.New("service unavailable")}
	svc := newTestService(repo, &fakeHistoryRepo{}, notify)

	resp, err := svc.Confirm(context.Background(), 1, 99, "")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestTransition_NoNotificationForInProgress(t *testing.T) {
	appt := pendingAppointment()
	appt.Status = domain.StatusConfirmed
	notify := &fakeNotifyClient{}
	svc := newTestService(&fakeAppointmentRepo{appointment: appt}, &fakeHistoryRepo{}, notify)

	_, err := svc.Start(context.Background(), 1, 99, "")
	require.NoError(t, err)
	assert.Empty(t, notify.sent)
}

func TestGetHistory_NotFoundBeforeEmptyList(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakeHistoryRepo{}, &fakeNotifyClient{})

	_, err := svc.GetHistory(context.Background(), 404)
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetHistory_ReturnsEntries(t *testing.T) {
	history := &fakeHistoryRepo{entries: []*domain.AppointmentHistory{
		{ID: 1, AppointmentID: 1, PreviousStatus: domain.StatusPending, NewStatus: domain.StatusPending},
		{ID: 2, AppointmentID: 1, PreviousStatus: domain.StatusPending, NewStatus: domain.StatusConfirmed},
		{ID: 3, AppointmentID: 2, PreviousStatus: domain.StatusPending, NewStatus: domain.StatusCancelled},
	}}
	svc := newTestService(&fakeAppointmentRepo{appointment: pendingAppointment()}, history, &fakeNotifyClient{})

	resp, err := svc.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
}

func TestGetStatistics(t *testing.T) {
	repo := &fakeAppointmentRepo{
		appointment: pendingAppointment(),
		byStatus: map[domain.AppointmentStatus]int64{
			domain.StatusPending:   3,
			domain.StatusCompleted: 7,
		},
		byType: map[domain.AppointmentType]int64{
			domain.TypeMaintenance: 10,
		},
		byDate:   map[string]int64{"2025-10-15": 4},
		upcoming: 5,
	}
	svc := newTestService(repo, &fakeHistoryRepo{}, &fakeNotifyClient{})

	resp, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.ByStatus["pending"])
	assert.Equal(t, int64(7), resp.ByStatus["completed"])
	assert.Equal(t, int64(10), resp.ByType["maintenance"])
	assert.Equal(t, int64(4), resp.ByDate["2025-10-15"])
	assert.Equal(t, int64(5), resp.Upcoming)
}
