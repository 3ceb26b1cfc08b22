package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"mindbloom-api/internal/model"
)

const sessionColumns = `id, name, email, slot_date, slot_time, owner_id, risk_score, created_at`

// Insert stores one appointment and returns its assigned id. A concurrent
// writer racing for the same (date, slot) loses here: the unique index on
// (slot_date, slot_time) rejects the second insert and the violation is
// reported as model.ErrSlotUnavailable.
func (s *Store) Insert(ctx context.Context, a *model.Appointment) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, name, email, slot_date, slot_time, owner_id, risk_score)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, a.Name, a.Email, a.Date, a.TimeSlot, nullIfEmpty(a.OwnerID), a.RiskScore,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", model.ErrSlotUnavailable
		}
		return "", err
	}
	return id, nil
}

// ListByDateRange returns the appointments whose day falls in the half-open
// range [start, end), in slot order.
func (s *Store) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE slot_date >= $1 AND slot_date < $2
		 ORDER BY slot_date, slot_time`, start, end,
	)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE owner_id = $1
		 ORDER BY slot_date, slot_time`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

func (s *Store) ListAll(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 ORDER BY slot_date, slot_time`,
	)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// SessionByID fetches one appointment. Missing rows come back as
// model.ErrNotFound.
func (s *Store) SessionByID(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	var owner *string
	err := s.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Date, &a.TimeSlot, &owner, &a.RiskScore, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if owner != nil {
		a.OwnerID = *owner
	}
	return a, nil
}

// DeleteByID removes an appointment, reporting whether a row existed so the
// caller can distinguish "cancelled now" from "already gone".
func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanSessions(rows pgx.Rows) ([]model.Appointment, error) {
	defer rows.Close()
	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var owner *string
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Email, &a.Date, &a.TimeSlot, &owner, &a.RiskScore, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if owner != nil {
			a.OwnerID = *owner
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
