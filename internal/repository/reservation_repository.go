package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-reservation/internal/domain"
)

// BookingResult is the outcome of a successful booking.
type BookingResult struct {
	Reservation    domain.Reservation
	SeatsRemaining int
}

// ReservationRepository encapsulates reservation persistence and seat accounting.
type ReservationRepository interface {
	// Book claims a seat for the user. It fails with ErrNotFound, ErrAlreadyReserved or ErrEventFull.
	Book(ctx context.Context, userID, eventID string) (*BookingResult, error)
	// Cancel releases the user's seat. It fails with ErrNotFound when no reservation exists.
	Cancel(ctx context.Context, userID, eventID string) (*domain.Reservation, error)
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Reservation, error)
	// UpdateStatus changes the status, re-checking capacity when a cancelled reservation becomes active.
	UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus) (*domain.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type reservationRepository struct {
	pool *pgxpool.Pool
}

// NewReservationRepository constructs a Postgres-backed implementation.
func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &reservationRepository{pool: pool}
}

const reservationColumns = `id, user_id, event_id, status, created_at, updated_at`

// Book performs the check-then-insert under a row lock on the event. Concurrent
// bookings for the same event queue on SELECT ... FOR UPDATE, so the capacity
// check always sees every committed reservation.
func (r *reservationRepository) Book(ctx context.Context, userID, eventID string) (*BookingResult, error) {
	var result BookingResult
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		capacity, reserved, err := lockEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}

		existing, err := scanReservation(tx.QueryRow(ctx,
			`SELECT `+reservationColumns+` FROM reservations WHERE user_id=$1 AND event_id=$2`,
			userID, eventID))
		if err != nil && !errors.Is(mapPgError(err), ErrNotFound) {
			return fmt.Errorf("check existing reservation: %w", err)
		}
		if existing != nil && existing.Status.Active() {
			return ErrAlreadyReserved
		}
		if reserved >= capacity {
			return ErrEventFull
		}

		var row pgx.Row
		if existing != nil {
			row = tx.QueryRow(ctx, `
                UPDATE reservations SET status=$1, updated_at=NOW()
                WHERE id=$2
                RETURNING `+reservationColumns,
				domain.ReservationStatusConfirmed, existing.ID)
		} else {
			row = tx.QueryRow(ctx, `
                INSERT INTO reservations (user_id, event_id, status)
                VALUES ($1, $2, $3)
                RETURNING `+reservationColumns,
				userID, eventID, domain.ReservationStatusConfirmed)
		}
		reservation, err := scanReservation(row)
		if err != nil {
			return mapPgError(err)
		}

		result = BookingResult{Reservation: *reservation, SeatsRemaining: capacity - reserved - 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reservationRepository) Cancel(ctx context.Context, userID, eventID string) (*domain.Reservation, error) {
	var cancelled *domain.Reservation
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, _, err := lockEvent(ctx, tx, eventID); err != nil {
			return err
		}
		reservation, err := scanReservation(tx.QueryRow(ctx,
			`DELETE FROM reservations WHERE user_id=$1 AND event_id=$2 RETURNING `+reservationColumns,
			userID, eventID))
		if err != nil {
			return mapPgError(err)
		}
		cancelled = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	reservation, err := scanReservation(r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return reservation, nil
}

func (r *reservationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Reservation, error) {
	const query = `
        SELECT r.id, r.user_id, r.event_id, r.status, r.created_at, r.updated_at,
               u.first_name, u.last_name, u.email
        FROM reservations r
        JOIN users u ON u.id = r.user_id
        WHERE r.event_id=$1
        ORDER BY r.created_at ASC`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.EventID,
			&res.Status,
			&res.CreatedAt,
			&res.UpdatedAt,
			&res.UserFirstName,
			&res.UserLastName,
			&res.UserEmail,
		); err != nil {
			return nil, mapPgError(err)
		}
		reservations = append(reservations, res)
	}
	return reservations, mapPgError(rows.Err())
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus) (*domain.Reservation, error) {
	var updated *domain.Reservation
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var eventID string
		var current domain.ReservationStatus
		if err := tx.QueryRow(ctx, `SELECT event_id, status FROM reservations WHERE id=$1`, id).
			Scan(&eventID, &current); err != nil {
			return mapPgError(err)
		}

		capacity, reserved, err := lockEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if !current.Active() && status.Active() && reserved >= capacity {
			return ErrEventFull
		}

		reservation, err := scanReservation(tx.QueryRow(ctx, `
            UPDATE reservations SET status=$1, updated_at=NOW()
            WHERE id=$2
            RETURNING `+reservationColumns, status, id))
		if err != nil {
			return mapPgError(err)
		}
		updated = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *reservationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.EventID,
		&res.Status,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}
