package timeslot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var slotColumns = []string{
	"id",
	"slot_date",
	"start_time",
	"end_time",
	"is_available",
	"max_concurrent_appointments",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с явными временными слотами.
// Слоты являются конфигурационными данными и управляются администраторами
// расписания; движок записей их только читает.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает явный временной слот
func (r *Repository) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(
			"slot_date",
			"start_time",
			"end_time",
			"is_available",
			"max_concurrent_appointments",
		).
		Values(
			slot.SlotDate,
			slot.StartTime,
			slot.EndTime,
			slot.IsAvailable,
			slot.MaxConcurrentAppointments,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		// 23505 - нарушение уникальности (slot_date, start_time)
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrSlotAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByDateAndTime находит слот, окно которого [start_time, end_time]
// содержит указанное время на указанную дату.
// Возвращает ErrSlotNotFound, если явного слота нет - вызывающая сторона
// использует дефолтную ёмкость.
func (r *Repository) GetByDateAndTime(ctx context.Context, date time.Time, t types.TimeString) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"slot_date": date}).
		Where(squirrel.LtOrEq{"start_time": t}).
		Where(squirrel.GtOrEq{"end_time": t}).
		OrderBy("start_time ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateAndTime - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.SlotDate,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
		&slot.MaxConcurrentAppointments,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateAndTime - scan slot: %v", ErrScanRow, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// ListByDateRange получает все явные слоты в диапазоне дат
func (r *Repository) ListByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.GtOrEq{"slot_date": startDate}).
		Where(squirrel.LtOrEq{"slot_date": endDate}).
		OrderBy("slot_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		var slot domain.TimeSlot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.SlotDate,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsAvailable,
			&slot.MaxConcurrentAppointments,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDateRange - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
