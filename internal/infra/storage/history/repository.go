package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий журнала изменений записей.
// Таблица append-only: строки никогда не обновляются и не удаляются.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет строку журнала.
// Вызывается внутри той же транзакции, что и мутация записи.
func (r *Repository) Create(ctx context.Context, entry *domain.AppointmentHistory) (*domain.AppointmentHistory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_history").
		Columns(
			"appointment_id",
			"changed_by",
			"previous_status",
			"new_status",
			"change_reason",
		).
		Values(
			entry.AppointmentID,
			entry.ChangedBy,
			entry.PreviousStatus,
			entry.NewStatus,
			entry.ChangeReason,
		).
		Suffix("RETURNING id, changed_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var changedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&changedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.ChangedAt = changedAt.Time

	return entry, nil
}

// ListByAppointmentID получает журнал записи, сначала самые свежие строки
func (r *Repository) ListByAppointmentID(ctx context.Context, appointmentID int64) ([]*domain.AppointmentHistory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"changed_by",
		"previous_status",
		"new_status",
		"change_reason",
		"changed_at",
	).
		From("appointment_history").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("changed_at DESC, id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointmentID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.AppointmentHistory, 0)
	for rows.Next() {
		var entry domain.AppointmentHistory
		var changedAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.AppointmentID,
			&entry.ChangedBy,
			&entry.PreviousStatus,
			&entry.NewStatus,
			&entry.ChangeReason,
			&changedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByAppointmentID - scan row: %v", ErrScanRow, err)
		}

		entry.ChangedAt = changedAt.Time
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointmentID - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
