package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventscout/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, description, category, starts_at, address, lat, lng,
		price_amount, price_currency, capacity, status, organizer_id,
		recur_pattern, recur_end_date, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, category, starts_at, address, lat, lng,
			price_amount, price_currency, capacity, status, organizer_id,
			recur_pattern, recur_end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	var priceAmount sql.NullFloat64
	var priceCurrency sql.NullString
	if e.Price != nil {
		priceAmount = sql.NullFloat64{Float64: e.Price.Amount, Valid: true}
		priceCurrency = sql.NullString{String: e.Price.Currency, Valid: true}
	}
	var capacity sql.NullInt64
	if e.Capacity != nil {
		capacity = sql.NullInt64{Int64: int64(*e.Capacity), Valid: true}
	}
	var recurPattern sql.NullString
	var recurEnd sql.NullTime
	if e.Recurrence != nil {
		recurPattern = sql.NullString{String: string(e.Recurrence.Pattern), Valid: true}
		recurEnd = sql.NullTime{Time: e.Recurrence.EndDate, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, string(e.Category), e.StartsAt, e.Address,
		nullString(e.Lat), nullString(e.Lng),
		priceAmount, priceCurrency, capacity,
		string(e.Status), e.OrganizerID,
		recurPattern, recurEnd,
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Category != nil {
		add("category", string(*upd.Category))
	}
	if upd.StartsAt != nil {
		add("starts_at", *upd.StartsAt)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.Lat != nil {
		add("lat", nullString(*upd.Lat))
	}
	if upd.Lng != nil {
		add("lng", nullString(*upd.Lng))
	}
	if upd.Price != nil {
		add("price_amount", upd.Price.Amount)
		add("price_currency", upd.Price.Currency)
	}
	if upd.Capacity != nil {
		add("capacity", *upd.Capacity)
	}
	if upd.Recurrence != nil {
		add("recur_pattern", string(upd.Recurrence.Pattern))
		add("recur_end_date", upd.Recurrence.EndDate)
	}
	if n == 1 {
		// No fields to update; just fetch the current row.
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns, strings.Join(setClauses, ", "), n)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY starts_at ASC`
	return r.queryEvents(ctx, query, organizerID)
}

func (r *eventRepository) ListDiscoverable(ctx context.Context, notBefore time.Time) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = 'active' AND starts_at >= $1 ORDER BY starts_at ASC`
	return r.queryEvents(ctx, query, notBefore)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var category, status string
	var latNull, lngNull, currencyNull, recurPatternNull sql.NullString
	var amountNull sql.NullFloat64
	var capacityNull sql.NullInt64
	var recurEndNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &category, &e.StartsAt, &e.Address,
		&latNull, &lngNull,
		&amountNull, &currencyNull, &capacityNull,
		&status, &e.OrganizerID,
		&recurPatternNull, &recurEndNull,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = domain.Category(category)
	e.Status = domain.EventStatus(status)
	e.Lat = latNull.String
	e.Lng = lngNull.String
	if amountNull.Valid {
		e.Price = &domain.Money{Amount: amountNull.Float64, Currency: currencyNull.String}
	}
	if capacityNull.Valid {
		c := int(capacityNull.Int64)
		e.Capacity = &c
	}
	if recurPatternNull.Valid {
		e.Recurrence = &domain.RecurrenceRule{
			Pattern: domain.RecurrencePattern(recurPatternNull.String),
			EndDate: recurEndNull.Time,
		}
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
