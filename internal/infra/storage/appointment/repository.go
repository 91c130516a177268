package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var appointmentColumns = []string{
	"id",
	"customer_id",
	"vehicle_id",
	"assigned_employee_id",
	"created_by",
	"appointment_type",
	"scheduled_date",
	"scheduled_time",
	"duration_minutes",
	"status",
	"service_description",
	"customer_notes",
	"internal_notes",
	"estimated_cost",
	"completed_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на обслуживание.
// Если в контексте передана активная транзакция, использует её.
// При создании с проверкой доступности слота вызывается внутри
// сериализуемой транзакции для предотвращения race condition.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"vehicle_id",
			"assigned_employee_id",
			"created_by",
			"appointment_type",
			"scheduled_date",
			"scheduled_time",
			"duration_minutes",
			"status",
			"service_description",
			"customer_notes",
			"internal_notes",
			"estimated_cost",
		).
		Values(
			appt.CustomerID,
			appt.VehicleID,
			appt.AssignedEmployeeID,
			appt.CreatedBy,
			appt.Type,
			appt.ScheduledDate,
			appt.ScheduledTime,
			appt.DurationMinutes,
			appt.Status,
			appt.ServiceDescription,
			appt.CustomerNotes,
			appt.InternalNotes,
			appt.EstimatedCost,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку для последующего обновления
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appt, err := scanAppointmentRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetWithFilter получает записи с гибкой фильтрацией.
// Поддерживает фильтрацию по клиенту, сотруднику, дате, времени и статусам.
// Если не задан фильтр по статусам и IncludeInactive=false, завершённые и
// отменённые записи исключаются.
//
// Внутри транзакции при фильтре на конкретные дату и время добавляет
// FOR UPDATE - это блокировка для сценария check-and-book при создании
// и переносе записи.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments")

	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.AssignedEmployeeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"assigned_employee_id": *filter.AssignedEmployeeID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"scheduled_date": *filter.Date})
	}
	if filter.Time != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"scheduled_time": *filter.Time})
	}

	if len(filter.Statuses) > 0 {
		statusStrings := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings})
	} else if !filter.IncludeInactive {
		activeStrings := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			activeStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStrings})
	}

	selectBuilder = selectBuilder.OrderBy("scheduled_date ASC, scheduled_time ASC")

	// Блокировка строк слота внутри транзакции check-and-book
	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil && filter.Time != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetActiveBetween получает все активные записи в диапазоне дат.
// Используется при построении списка доступных слотов.
func (r *Repository) GetActiveBetween(ctx context.Context, startDate, endDate time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStrings := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.GtOrEq{"scheduled_date": startDate}).
		Where(squirrel.LtOrEq{"scheduled_date": endDate}).
		Where(squirrel.Eq{"status": activeStrings}).
		OrderBy("scheduled_date ASC, scheduled_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBetween - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи.
// Метки completed_at и cancelled_at устанавливаются через COALESCE - один раз,
// повторные обновления их не перезаписывают.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, completedAt, cancelledAt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if completedAt != nil {
		updateBuilder = updateBuilder.Set("completed_at", squirrel.Expr("COALESCE(completed_at, ?)", *completedAt))
	}
	if cancelledAt != nil {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("COALESCE(cancelled_at, ?)", *cancelledAt))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return checkRowsAffected(result, "UpdateStatus")
}

// UpdateSchedule переносит запись на новые дату и время.
// Статус и остальные поля не затрагиваются.
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("scheduled_date", date).
		Set("scheduled_time", startTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %v", ErrExecQuery, err)
	}

	return checkRowsAffected(result, "UpdateSchedule")
}

// UpdateAssignedEmployee назначает сотрудника на запись
func (r *Repository) UpdateAssignedEmployee(ctx context.Context, id int64, employeeID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("assigned_employee_id", employeeID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateAssignedEmployee - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateAssignedEmployee - execute update: %v", ErrExecQuery, err)
	}

	return checkRowsAffected(result, "UpdateAssignedEmployee")
}

// CountByStatus возвращает количество записей по каждому статусу
func (r *Repository) CountByStatus(ctx context.Context) (map[domain.AppointmentStatus]int64, error) {
	return countGrouped(ctx, r.db, "status", func(key string) domain.AppointmentStatus {
		return domain.AppointmentStatus(key)
	})
}

// CountByType возвращает количество записей по каждому типу обслуживания
func (r *Repository) CountByType(ctx context.Context) (map[domain.AppointmentType]int64, error) {
	return countGrouped(ctx, r.db, "appointment_type", func(key string) domain.AppointmentType {
		return domain.AppointmentType(key)
	})
}

// CountByDate возвращает количество записей по датам в диапазоне
func (r *Repository) CountByDate(ctx context.Context, startDate, endDate time.Time) (map[string]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("scheduled_date", "COUNT(*)").
		From("appointments").
		Where(squirrel.GtOrEq{"scheduled_date": startDate}).
		Where(squirrel.LtOrEq{"scheduled_date": endDate}).
		GroupBy("scheduled_date").
		OrderBy("scheduled_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var date time.Time
		var count int64
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByDate - scan row: %v", ErrScanRow, err)
		}
		counts[date.Format(domain.DateFormat)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByDate - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// CountUpcoming возвращает количество активных записей на будущие даты
func (r *Repository) CountUpcoming(ctx context.Context, today time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStrings := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Gt{"scheduled_date": today}).
		Where(squirrel.Eq{"status": activeStrings}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountUpcoming - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUpcoming - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// countGrouped выполняет GROUP BY подсчёт по указанной колонке
func countGrouped[K comparable](ctx context.Context, db DBExecutor, column string, toKey func(string) K) (map[K]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, db)

	query, args, err := psqlbuilder.Select(column, "COUNT(*)").
		From("appointments").
		GroupBy(column).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: countGrouped(%s) - build select query: %v", ErrBuildQuery, column, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: countGrouped(%s) - execute query: %v", ErrExecQuery, column, err)
	}
	defer rows.Close()

	counts := make(map[K]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("%w: countGrouped(%s) - scan row: %v", ErrScanRow, column, err)
		}
		counts[toKey(key)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: countGrouped(%s) - rows error: %v", ErrScanRow, column, err)
	}

	return counts, nil
}

func checkRowsAffected(result sql.Result, method string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointmentRow(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.VehicleID,
		&appt.AssignedEmployeeID,
		&appt.CreatedBy,
		&appt.Type,
		&appt.ScheduledDate,
		&appt.ScheduledTime,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.ServiceDescription,
		&appt.CustomerNotes,
		&appt.InternalNotes,
		&appt.EstimatedCost,
		&appt.CompletedAt,
		&appt.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
