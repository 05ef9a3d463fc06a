package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-reservation/internal/domain"
)

// EventFilter narrows event listings.
type EventFilter struct {
	CreatedBy  *string
	ReservedBy *string
}

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventSelect = `
        SELECT e.id, e.title, e.description, e.date, e.location, e.capacity,
               (SELECT COUNT(*) FROM reservations r
                 WHERE r.event_id = e.id AND r.status <> 'CANCELLED') AS reserved_count,
               e.created_by, e.created_at, e.updated_at, u.first_name, u.last_name
        FROM events e
        LEFT JOIN users u ON u.id = e.created_by`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (title, description, date, location, capacity, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.Capacity,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return mapPgError(err)
	}
	event.ReservedCount = 0
	return nil
}

// Update rewrites the event fields while holding the event row lock, so a
// concurrent booking cannot slip in between the capacity check and the write.
func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, reserved, err := lockEvent(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		if event.Capacity < reserved {
			return ErrCapacityBelowReserved
		}

		const query = `
            UPDATE events SET title=$1, description=$2, date=$3, location=$4, capacity=$5, updated_at=NOW()
            WHERE id=$6
            RETURNING created_by, created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			event.Title,
			event.Description,
			event.Date,
			event.Location,
			event.Capacity,
			event.ID,
		).Scan(&event.CreatedBy, &event.CreatedAt, &event.UpdatedAt); err != nil {
			return mapPgError(err)
		}
		event.ReservedCount = reserved
		return nil
	})
}

// Delete removes the event; reservations cascade.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return event, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("e.created_by=$%d", len(args)))
	}
	if filter.ReservedBy != nil {
		args = append(args, *filter.ReservedBy)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM reservations own WHERE own.event_id = e.id AND own.user_id=$%d AND own.status <> 'CANCELLED')",
			len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY e.date ASC, e.created_at ASC`, eventSelect, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.Capacity,
		&event.ReservedCount,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.HostFirstName,
		&event.HostLastName,
	); err != nil {
		return nil, err
	}
	return &event, nil
}
