package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	appointmentsTable = "appointments"
	historyTable      = "appointment_history"
)

var appointmentColumns = []string{
	"id",
	"customer_id",
	"professional_id",
	"appointment_date",
	"start_time",
	"end_date",
	"end_time",
	"professional_timezone",
	"quoted_price",
	"final_price",
	"services",
	"total_duration",
	"customer_notes",
	"status",
	"version",
	"created_at",
	"updated_at",
}

var historyColumns = []string{
	"appointment_id",
	"seq",
	"action_by",
	"user_id",
	"action_type",
	"details",
	"created_at",
}

// Repository репозиторий записей и их истории
type Repository struct {
	db DBExecutor
	qb psqlbuilder.Builder
}

// NewRepository создает репозиторий для PostgreSQL
func NewRepository(db DBExecutor) *Repository {
	return NewRepositoryWithBuilder(db, psqlbuilder.Postgres())
}

// NewRepositoryWithBuilder создает репозиторий с другим форматом плейсхолдеров (SQLite в тестах)
func NewRepositoryWithBuilder(db DBExecutor, qb psqlbuilder.Builder) *Repository {
	return &Repository{db: db, qb: qb}
}

// Create сохраняет новую запись вместе с начальной историей.
// Вставка записи и истории атомарна только внутри транзакции из контекста.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	services, err := json.Marshal(appt.Services)
	if err != nil {
		return fmt.Errorf("%w: Create - services: %v", ErrEncode, err)
	}

	query, args, err := r.qb.Insert(appointmentsTable).
		Columns(appointmentColumns...).
		Values(
			appt.ID,
			appt.CustomerID,
			appt.ProfessionalID,
			appt.AppointmentDate,
			appt.StartTime,
			appt.EndDate,
			appt.EndTime,
			appt.ProfessionalTimezone,
			appt.QuotedPrice,
			appt.FinalPrice,
			string(services),
			appt.TotalDuration,
			appt.CustomerNotes,
			string(appt.Status),
			appt.Version,
			appt.CreatedAt.UTC(),
			appt.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	for i, entry := range appt.History {
		if err := r.insertHistory(ctx, executor, appt.ID, i, entry); err != nil {
			return err
		}
	}

	return nil
}

// GetByID получает запись с полной историей
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	histories, err := r.loadHistories(ctx, executor, []string{appt.ID})
	if err != nil {
		return nil, err
	}
	appt.History = histories[appt.ID]

	return appt, nil
}

// ListByParty получает записи, где пользователь является клиентом или специалистом
// Опционально фильтрует по статусу
func (r *Repository) ListByParty(ctx context.Context, filter domain.ListFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	partyColumn := "customer_id"
	if filter.Role == domain.RoleProfessional {
		partyColumn = "professional_id"
	}

	selectBuilder := r.qb.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{partyColumn: filter.UserID}).
		OrderBy("appointment_date DESC", "start_time DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByParty - build select query: %v", ErrBuildQuery, err)
	}

	appointments, err := r.queryAppointments(ctx, executor, query, args)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(appointments))
	for i, appt := range appointments {
		ids[i] = appt.ID
	}
	histories, err := r.loadHistories(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, appt := range appointments {
		appt.History = histories[appt.ID]
	}

	return appointments, nil
}

// ListActiveByProfessional получает активные записи специалиста на указанные даты (UTC), без истории
func (r *Repository) ListActiveByProfessional(ctx context.Context, professionalID string, dates []types.Date) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dateValues := make([]string, len(dates))
	for i, d := range dates {
		dateValues[i] = d.String()
	}
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}

	query, args, err := r.qb.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"appointment_date": dateValues}).
		Where(squirrel.Eq{"status": statuses}).
		OrderBy("appointment_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByProfessional - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryAppointments(ctx, executor, query, args)
}

// ApplyTransition сохраняет переход: условное обновление по версии и добавление записи в историю.
// Вызывать внутри транзакции, иначе обновление и история не атомарны.
func (r *Repository) ApplyTransition(ctx context.Context, appt *domain.Appointment, tr *domain.Transition) error {
	state := State{
		Status:     tr.To,
		FinalPrice: tr.FinalPrice,
		UpdatedAt:  tr.Entry.Timestamp,
	}
	if err := r.CompareAndSetState(ctx, appt.ID, appt.Version, state); err != nil {
		return err
	}
	return r.AppendHistory(ctx, appt.ID, tr.Entry)
}

// State изменяемая часть записи
type State struct {
	Status     domain.Status
	FinalPrice float64
	UpdatedAt  time.Time
}

// CompareAndSetState обновляет статус и цену, если версия в БД равна expectedVersion.
// Иначе возвращает ErrVersionMismatch, версия увеличивается на единицу.
func (r *Repository) CompareAndSetState(ctx context.Context, id string, expectedVersion int, state State) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Update(appointmentsTable).
		Set("status", string(state.Status)).
		Set("final_price", state.FinalPrice).
		Set("version", expectedVersion+1).
		Set("updated_at", state.UpdatedAt.UTC()).
		Where(squirrel.Eq{"id": id, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CompareAndSetState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CompareAndSetState - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CompareAndSetState - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVersionMismatch
	}

	return nil
}

// AppendHistory добавляет запись в конец истории
func (r *Repository) AppendHistory(ctx context.Context, id string, entry domain.HistoryEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.qb.Select("COALESCE(MAX(seq), -1) + 1").
		From(historyTable).
		Where(squirrel.Eq{"appointment_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AppendHistory - build select query: %v", ErrBuildQuery, err)
	}

	var seq int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return fmt.Errorf("%w: AppendHistory - next seq: %v", ErrScanRow, err)
	}

	return r.insertHistory(ctx, executor, id, seq, entry)
}

func (r *Repository) insertHistory(ctx context.Context, executor DBExecutor, appointmentID string, seq int, entry domain.HistoryEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("%w: insertHistory - details: %v", ErrEncode, err)
	}

	query, args, err := r.qb.Insert(historyTable).
		Columns(historyColumns...).
		Values(
			appointmentID,
			seq,
			string(entry.ActionBy),
			entry.UserID,
			string(entry.ActionType),
			string(details),
			entry.Timestamp.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertHistory - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// loadHistories загружает историю для набора записей одним запросом
func (r *Repository) loadHistories(ctx context.Context, executor DBExecutor, ids []string) (map[string][]domain.HistoryEntry, error) {
	result := make(map[string][]domain.HistoryEntry, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := r.qb.Select(historyColumns...).
		From(historyTable).
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadHistories - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadHistories - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appointmentID string
			seq           int
			entry         domain.HistoryEntry
			details       []byte
			createdAt     timestamp
		)
		if err := rows.Scan(
			&appointmentID,
			&seq,
			&entry.ActionBy,
			&entry.UserID,
			&entry.ActionType,
			&details,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: loadHistories - scan row: %v", ErrScanRow, err)
		}

		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("%w: loadHistories - decode details: %v", ErrScanRow, err)
			}
		}
		entry.Timestamp = createdAt.Time

		result[appointmentID] = append(result[appointmentID], entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadHistories - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) queryAppointments(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]*domain.Appointment, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: queryAppointments - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: queryAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: queryAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt                 domain.Appointment
		services             []byte
		notes                sql.NullString
		createdAt, updatedAt timestamp
	)

	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.ProfessionalID,
		&appt.AppointmentDate,
		&appt.StartTime,
		&appt.EndDate,
		&appt.EndTime,
		&appt.ProfessionalTimezone,
		&appt.QuotedPrice,
		&appt.FinalPrice,
		&services,
		&appt.TotalDuration,
		&notes,
		&appt.Status,
		&appt.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(services) > 0 {
		if err := json.Unmarshal(services, &appt.Services); err != nil {
			return nil, fmt.Errorf("decode services: %w", err)
		}
	}
	if notes.Valid {
		appt.CustomerNotes = &notes.String
	}
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// timestamp сканирует TIMESTAMPTZ из PostgreSQL и текстовое время из SQLite
type timestamp struct {
	Time time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
}

func (t *timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *timestamp) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}
