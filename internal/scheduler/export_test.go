package scheduler

import "time"

// SetNow pins the scheduler's clock for tests.
func SetNow(s *Scheduler, now func() time.Time) {
	s.now = now
}
