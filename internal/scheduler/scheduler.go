// Package scheduler owns all appointment-slot decisions: availability
// lookups, double-booking prevention and the earliest-open-slot search used
// for priority bookings.
//
// The scheduler keeps no state of its own; every appointment lives in the
// SessionStore. The double-booking guarantee is therefore the store's unique
// constraint on (date, slot) — the availability re-check done here before an
// insert only exists to fail fast with a friendly error when the caller is
// working from a stale snapshot.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mindbloom-api/internal/model"
)

// DefaultSlots is the fixed daily slot list, in booking order.
var DefaultSlots = []string{
	"09:00 AM",
	"10:00 AM",
	"11:00 AM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
}

const (
	DefaultHorizonDays  = 30
	DefaultStoreTimeout = 5 * time.Second

	// how many times a priority booking re-runs the search after losing a
	// race for the slot it found
	maxPriorityAttempts = 3
)

// SessionStore is the persistence collaborator. Insert must enforce a unique
// constraint on (date, slot) and return model.ErrSlotUnavailable when it is
// violated; that constraint, not scheduler logic, is what makes concurrent
// bookings safe.
type SessionStore interface {
	Insert(ctx context.Context, appt *model.Appointment) (string, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Appointment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Appointment, error)
	ListAll(ctx context.Context) ([]model.Appointment, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type Options struct {
	Slots         []string      // ordered slot labels; defaults to DefaultSlots
	HorizonDays   int           // priority search window; defaults to 30
	AllowWeekends bool          // business rule: counselors don't work weekends
	StoreTimeout  time.Duration // per store call; bounds the day scan on a degraded store
	Logger        *zap.Logger
}

type Scheduler struct {
	store         SessionStore
	slots         []string
	slotSet       map[string]struct{}
	horizon       int
	allowWeekends bool
	timeout       time.Duration
	log           *zap.Logger

	now func() time.Time // stubbed in tests
}

func New(store SessionStore, opts Options) *Scheduler {
	if len(opts.Slots) == 0 {
		opts.Slots = DefaultSlots
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = DefaultHorizonDays
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	set := make(map[string]struct{}, len(opts.Slots))
	for _, s := range opts.Slots {
		set[s] = struct{}{}
	}
	return &Scheduler{
		store:         store,
		slots:         opts.Slots,
		slotSet:       set,
		horizon:       opts.HorizonDays,
		allowWeekends: opts.AllowWeekends,
		timeout:       opts.StoreTimeout,
		log:           opts.Logger,
		now:           time.Now,
	}
}

// Slots returns the configured slot labels in booking order.
func (s *Scheduler) Slots() []string {
	out := make([]string, len(s.slots))
	copy(out, s.slots)
	return out
}

// BookingRequest is the input to BookSlot and BookPriority. Date may carry a
// full timestamp; it is truncated to its UTC day before anything looks at it.
type BookingRequest struct {
	Name      string
	Email     string
	Date      time.Time
	TimeSlot  string
	OwnerID   string
	RiskScore *int
}

// BookSlot books a specific (date, slot) pair.
//
// The availability re-check before the insert is best-effort: if it cannot be
// answered the insert still proceeds and the store's unique constraint has
// the final word. Write errors always propagate — the caller must never be
// told a booking succeeded when it did not.
func (s *Scheduler) BookSlot(ctx context.Context, req BookingRequest) (*model.Appointment, error) {
	day, err := s.validateSlot(req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}

	// re-validate at write time: the caller's availability snapshot may be
	// seconds stale
	booked, err := s.bookedSet(ctx, day)
	if err != nil {
		s.log.Warn("availability pre-check failed, deferring to store constraint",
			zap.Time("date", day), zap.Error(err))
	} else if _, taken := booked[req.TimeSlot]; taken {
		return nil, model.ErrSlotUnavailable
	}

	appt := &model.Appointment{
		Name:      req.Name,
		Email:     req.Email,
		Date:      day,
		TimeSlot:  req.TimeSlot,
		OwnerID:   req.OwnerID,
		RiskScore: req.RiskScore,
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	id, err := s.store.Insert(cctx, appt)
	if err != nil {
		if errors.Is(err, model.ErrSlotUnavailable) {
			// constraint caught a race with a concurrent writer
			return nil, model.ErrSlotUnavailable
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}
	appt.ID = id
	return appt, nil
}

// BookPriority books the earliest open slot on behalf of a high-risk user.
// If a competitor steals the slot between search and insert, the search is
// re-run; after maxPriorityAttempts losses it gives up with ErrNoSlotFound.
func (s *Scheduler) BookPriority(ctx context.Context, req BookingRequest) (*model.Appointment, error) {
	from := req.Date
	if from.IsZero() {
		from = s.now()
	}
	for attempt := 0; attempt < maxPriorityAttempts; attempt++ {
		day, slot, err := s.FindEarliestAvailableSlot(ctx, from)
		if err != nil {
			return nil, err
		}
		req.Date = day
		req.TimeSlot = slot
		appt, err := s.BookSlot(ctx, req)
		if errors.Is(err, model.ErrSlotUnavailable) {
			s.log.Info("priority slot lost to concurrent booking, retrying",
				zap.Time("date", day), zap.String("slot", slot))
			continue
		}
		return appt, err
	}
	return nil, model.ErrNoSlotFound
}

// ListBookedSlots returns the slot labels already occupied on the given
// calendar day, in slot order. The read is best-effort: on a store failure it
// logs and returns an empty list rather than failing the caller, trading a
// possibly over-optimistic display for availability — the booking path still
// cannot double-book.
func (s *Scheduler) ListBookedSlots(ctx context.Context, date time.Time) []string {
	day := startOfDay(date)
	booked, err := s.bookedSet(ctx, day)
	if err != nil {
		s.log.Warn("could not load booked slots", zap.Time("date", day), zap.Error(err))
		return nil
	}
	var out []string
	for _, slot := range s.slots {
		if _, ok := booked[slot]; ok {
			out = append(out, slot)
		}
	}
	return out
}

// FindEarliestAvailableSlot scans calendar days chronologically from the
// given date (never earlier than today) for up to the configured horizon,
// skipping weekends, and returns the first day with a free slot together
// with the first free label in slot order. The result is deterministic for a
// stable booked set.
//
// A day whose availability cannot be read is skipped, not fatal: a transient
// store error on one day must not prevent finding a slot on another.
func (s *Scheduler) FindEarliestAvailableSlot(ctx context.Context, from time.Time) (time.Time, string, error) {
	start := startOfDay(from)
	if today := startOfDay(s.now()); start.Before(today) {
		start = today
	}

	for i := 0; i < s.horizon; i++ {
		day := start.AddDate(0, 0, i)
		if !s.allowWeekends && isWeekend(day) {
			continue
		}
		booked, err := s.bookedSet(ctx, day)
		if err != nil {
			if ctx.Err() != nil {
				return time.Time{}, "", ctx.Err()
			}
			s.log.Warn("skipping day with unknown availability",
				zap.Time("date", day), zap.Error(err))
			continue
		}
		for _, slot := range s.slots {
			if _, taken := booked[slot]; !taken {
				return day, slot, nil
			}
		}
	}
	return time.Time{}, "", model.ErrNoSlotFound
}

// Cancel deletes an appointment by id. Cancelling an id that no longer
// exists reports ErrNotFound so callers can tell "already cancelled" from
// "cancelled now".
func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	removed, err := s.store.DeleteByID(cctx, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if !removed {
		return model.ErrNotFound
	}
	return nil
}

// MySessions lists the appointments owned by one user.
func (s *Scheduler) MySessions(ctx context.Context, ownerID string) ([]model.Appointment, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.ListByOwner(cctx, ownerID)
}

// AllSessions lists every appointment, for the admin view.
func (s *Scheduler) AllSessions(ctx context.Context) ([]model.Appointment, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.ListAll(cctx)
}

// validateSlot applies the pre-store checks: the label must be in the fixed
// set, the day must not be in the past and must not fall on a weekend.
func (s *Scheduler) validateSlot(date time.Time, slot string) (time.Time, error) {
	if _, ok := s.slotSet[slot]; !ok {
		return time.Time{}, fmt.Errorf("%w: unknown time slot %q", model.ErrInvalidSlot, slot)
	}
	day := startOfDay(date)
	if day.Before(startOfDay(s.now())) {
		return time.Time{}, fmt.Errorf("%w: date is in the past", model.ErrInvalidSlot)
	}
	if !s.allowWeekends && isWeekend(day) {
		return time.Time{}, fmt.Errorf("%w: sessions are not held on weekends", model.ErrInvalidSlot)
	}
	return day, nil
}

// bookedSet loads the occupied slot labels for one day using a half-open
// [start of day, next day) range query. Day-boundary comparison, not string
// matching, so stored timestamps can't leak across days.
func (s *Scheduler) bookedSet(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	appts, err := s.store.ListByDateRange(cctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		set[a.TimeSlot] = struct{}{}
	}
	return set, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
