package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyReserved is returned when the user already holds a reservation for the event.
	ErrAlreadyReserved = errors.New("event already reserved by user")
	// ErrEventFull is returned when an event has no remaining seats.
	ErrEventFull = errors.New("event is fully booked")
	// ErrEmailTaken is returned when another account uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrCapacityBelowReserved is returned when a capacity update would drop below active reservations.
	ErrCapacityBelowReserved = errors.New("capacity below reserved seats")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"

	usersEmailKey            = "users_email_key"
	reservationsUserEventKey = "reservations_user_id_event_id_key"
)

// mapPgError translates driver errors into repository sentinels.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case usersEmailKey:
			return ErrEmailTaken
		case reservationsUserEventKey:
			return ErrAlreadyReserved
		}
	case pgInvalidText, pgForeignKeyViolation:
		return ErrNotFound
	}
	return err
}
