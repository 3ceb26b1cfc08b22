// Package store is the postgres-backed Session Store. The sessions table
// carries a unique constraint on (slot_date, slot_time); that constraint is
// the actual mutual-exclusion mechanism behind the scheduler's double-booking
// guarantee.
package store

import "github.com/jackc/pgx/v5/pgxpool"

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// uniqueViolation is the postgres error code raised when a unique index
// rejects a write.
const uniqueViolation = "23505"
