package store

import (
	"context"
	"time"

	"mindbloom-api/internal/model"
)

// IncrementResourceClicks bumps the click counter for one directory entry,
// creating the row on first click.
func (s *Store) IncrementResourceClicks(ctx context.Context, resourceID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO resource_clicks (resource_id, clicks) VALUES ($1, 1)
		 ON CONFLICT (resource_id) DO UPDATE SET clicks = resource_clicks.clicks + 1`,
		resourceID,
	)
	return err
}

// Analytics assembles the aggregate counters for the admin dashboard.
func (s *Store) Analytics(ctx context.Context, now time.Time) (*model.Analytics, error) {
	a := &model.Analytics{ResourceClicks: make(map[string]int64)}

	err := s.pool.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE slot_date >= $1) FROM sessions`,
		now,
	).Scan(&a.TotalSessions, &a.UpcomingSessions)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `SELECT resource_id, clicks FROM resource_clicks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var clicks int64
		if err := rows.Scan(&id, &clicks); err != nil {
			return nil, err
		}
		a.ResourceClicks[id] = clicks
		a.TotalClicks += clicks
	}
	return a, rows.Err()
}
