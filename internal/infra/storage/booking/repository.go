package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/sqlvalue"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var bookingColumns = []string{
	"id",
	"tenant_id",
	"booking_date",
	"session_id",
	"session_start",
	"session_end",
	"service_id",
	"equipment_id",
	"intervention_id",
	"postal_code",
	"details",
	"location_lat",
	"location_lng",
	"status",
	"technician_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория бронирований
// driver определяет формат плейсхолдеров (postgres или sqlite3)
func NewRepository(db DBExecutor, driver string) *Repository {
	return &Repository{db: db, builder: psqlbuilder.ForDriver(driver)}
}

// Create создает новое бронирование
// Проверка вместимости выполняется вызывающей стороной в той же транзакции (см. CountActive)
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	details, err := json.Marshal(booking.Details)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal details: %v", ErrEncodeDetails, err)
	}

	var lat, lng sql.NullFloat64
	if booking.Location != nil {
		lat = sql.NullFloat64{Float64: booking.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: booking.Location.Lng, Valid: true}
	}

	query, args, err := r.builder.Insert("bookings").
		Columns(
			"tenant_id",
			"booking_date",
			"session_id",
			"session_start",
			"session_end",
			"service_id",
			"equipment_id",
			"intervention_id",
			"postal_code",
			"details",
			"location_lat",
			"location_lng",
			"status",
			"technician_id",
		).
		Values(
			booking.TenantID,
			sqlvalue.FormatDate(booking.BookingDate),
			booking.SessionID,
			booking.SessionStart.String(),
			booking.SessionEnd.String(),
			booking.ServiceID,
			booking.EquipmentID,
			booking.InterventionID,
			booking.PostalCode,
			string(details),
			lat,
			lng,
			string(booking.Status),
			booking.TechnicianID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sqlvalue.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// CountActive считает активные (pending, confirmed) бронирования окна в конкретный день
func (r *Repository) CountActive(ctx context.Context, tenantID int64, date time.Time, sessionID string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"tenant_id":    tenantID,
			"booking_date": sqlvalue.FormatDate(date),
			"session_id":   sessionID,
			"status":       statusStrings(domain.ActiveStatuses),
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActive - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActive - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// GetByID получает бронирование тенанта по ID
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования тенанта с фильтрацией
// Поддерживает фильтрацию по:
// - Периоду (StartDate, EndDate) - опционально
// - Окну (SessionID) - опционально
// - Назначенному технику (TechnicianID) - опционально
// - Статусу (Status) - опционально
// - Включению неактивных бронирований (IncludeInactive)
//
// Сортировка: по дате, затем по времени начала окна
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": sqlvalue.FormatDate(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": sqlvalue.FormatDate(*filter.EndDate)})
	}

	if filter.SessionID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"session_id": *filter.SessionID})
	}

	if filter.TechnicianID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"technician_id": *filter.TechnicianID})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		// Если не указан конкретный статус и не нужны неактивные - исключаем их
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	query, args, err := selectBuilder.
		OrderBy("booking_date ASC", "session_start ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to
// Если бронирование существует, но его статус уже не from, возвращает ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update("bookings").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID, "status": string(from)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, tenantID, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}

	return nil
}

// AssignTechnician назначает техника активному бронированию
// technicianID nil снимает назначение
// Если бронирование существует, но уже не активно, возвращает ErrStatusConflict
func (r *Repository) AssignTechnician(ctx context.Context, tenantID, id int64, technicianID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update("bookings").
		Set("technician_id", technicianID).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID, "status": statusStrings(domain.ActiveStatuses)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AssignTechnician - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AssignTechnician - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AssignTechnician - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, tenantID, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку с колонками bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		bookingDate          sqlvalue.Date
		sessionStart         string
		sessionEnd           string
		equipmentID          sql.NullString
		interventionID       sql.NullString
		details              []byte
		lat, lng             sql.NullFloat64
		status               string
		technicianID         sql.NullInt64
		createdAt, updatedAt sqlvalue.Time
	)

	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&bookingDate,
		&booking.SessionID,
		&sessionStart,
		&sessionEnd,
		&booking.ServiceID,
		&equipmentID,
		&interventionID,
		&booking.PostalCode,
		&details,
		&lat,
		&lng,
		&status,
		&technicianID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &booking.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %v", err)
		}
	}

	booking.BookingDate = bookingDate.Time.Time
	booking.SessionStart = types.TimeString(sessionStart)
	booking.SessionEnd = types.TimeString(sessionEnd)
	booking.Status = domain.BookingStatus(status)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if equipmentID.Valid {
		booking.EquipmentID = &equipmentID.String
	}
	if interventionID.Valid {
		booking.InterventionID = &interventionID.String
	}
	if technicianID.Valid {
		booking.TechnicianID = &technicianID.Int64
	}
	if lat.Valid && lng.Valid {
		booking.Location = &domain.GeoPoint{Lat: lat.Float64, Lng: lng.Float64}
	}

	return &booking, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
