package model

import "errors"

var (
	// ErrSlotUnavailable means the requested (date, slot) pair is already
	// booked. The store returns it on a unique-constraint violation; the
	// scheduler also returns it from the pre-insert availability check.
	ErrSlotUnavailable = errors.New("time slot is no longer available")

	// ErrInvalidSlot covers every validation failure that is rejected before
	// any store call: unknown slot label, past date, weekend date.
	ErrInvalidSlot = errors.New("invalid date or time slot")

	// ErrNoSlotFound means the earliest-slot search exhausted its horizon.
	ErrNoSlotFound = errors.New("no open slots within the booking horizon")

	// ErrNotFound is returned when a lookup or cancellation target does not
	// exist, and when a caller must not learn that it exists.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned by the store when registration hits the
	// unique index on users.email.
	ErrEmailTaken = errors.New("email already registered")
)
