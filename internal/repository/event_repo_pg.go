package repository

import (
	"context"
	"errors"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetTariffs(ctx context.Context, eventID string) ([]domain.Tariff, error)
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

func (r *PGEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description, event_date, duration_minutes, location, city, created_at, updated_at FROM events ORDER BY event_date`)
	if err != nil {
		return nil, &PersistenceError{Op: "list events", Err: err}
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.DurationMinutes, &e.Location, &e.City, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, &PersistenceError{Op: "scan event", Err: err}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PGEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT id, title, description, event_date, duration_minutes, location, city, created_at, updated_at FROM events WHERE id=$1`, id)
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.DurationMinutes, &e.Location, &e.City, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, &PersistenceError{Op: "get event", Err: err}
	}
	return &e, nil
}

func (r *PGEventRepository) GetTariffs(ctx context.Context, eventID string) ([]domain.Tariff, error) {
	rows, err := r.db.Query(ctx, `SELECT id, event_id, type, price, seats, created_at, updated_at FROM tariffs WHERE event_id=$1 ORDER BY id`, eventID)
	if err != nil {
		return nil, &PersistenceError{Op: "list tariffs", Err: err}
	}
	defer rows.Close()

	tariffs := make([]domain.Tariff, 0)
	for rows.Next() {
		var t domain.Tariff
		if err := rows.Scan(&t.ID, &t.EventID, &t.Type, &t.Price, &t.Seats, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, &PersistenceError{Op: "scan tariff", Err: err}
		}
		tariffs = append(tariffs, t)
	}
	return tariffs, rows.Err()
}

var _ EventRepository = (*PGEventRepository)(nil)
