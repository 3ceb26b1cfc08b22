package store_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"mindbloom-api/internal/app"
	"mindbloom-api/internal/model"
	"mindbloom-api/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := app.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(pool)
}

// randomDay avoids (date, slot) collisions between test runs.
func randomDay(t *testing.T) time.Time {
	t.Helper()
	day := time.Now().UTC().AddDate(0, 0, 30+rand.Intn(20000))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

func appointment(day time.Time, slot string) *model.Appointment {
	return &model.Appointment{
		Name:     "Store Test",
		Email:    "store@test.com",
		Date:     day,
		TimeSlot: slot,
	}
}

func insertCleanup(t *testing.T, st *store.Store, a *model.Appointment) string {
	t.Helper()
	id, err := st.Insert(context.Background(), a)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { _, _ = st.DeleteByID(context.Background(), id) })
	return id
}

func TestInsertUniqueConstraint(t *testing.T) {
	st := setup(t)
	day := randomDay(t)

	insertCleanup(t, st, appointment(day, "09:00 AM"))

	// the same (date, slot) must be rejected with the sentinel
	_, err := st.Insert(context.Background(), appointment(day, "09:00 AM"))
	if !errors.Is(err, model.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}

	// same slot, next day is fine
	insertCleanup(t, st, appointment(day.AddDate(0, 0, 1), "09:00 AM"))
}

func TestListByDateRange(t *testing.T) {
	st := setup(t)
	day := randomDay(t)

	insertCleanup(t, st, appointment(day, "09:00 AM"))
	insertCleanup(t, st, appointment(day, "10:00 AM"))
	insertCleanup(t, st, appointment(day.AddDate(0, 0, 1), "09:00 AM"))

	got, err := st.ListByDateRange(context.Background(), day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions in range, got %d", len(got))
	}
	// slot order within the day
	if got[0].TimeSlot != "09:00 AM" || got[1].TimeSlot != "10:00 AM" {
		t.Errorf("order: %s, %s", got[0].TimeSlot, got[1].TimeSlot)
	}
	for _, a := range got {
		if !a.Date.UTC().Equal(day) {
			t.Errorf("neighboring day leaked into range: %v", a.Date)
		}
	}
}

func TestSessionByIDAndDelete(t *testing.T) {
	st := setup(t)
	day := randomDay(t)
	risk := 42

	a := appointment(day, "02:00 PM")
	a.RiskScore = &risk
	id, err := st.Insert(context.Background(), a)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := st.SessionByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TimeSlot != "02:00 PM" || got.RiskScore == nil || *got.RiskScore != 42 {
		t.Errorf("row mismatch: %+v", got)
	}

	removed, err := st.DeleteByID(context.Background(), id)
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}

	// second delete reports no row, no error
	removed, err = st.DeleteByID(context.Background(), id)
	if err != nil {
		t.Fatalf("re-delete: %v", err)
	}
	if removed {
		t.Error("delete of missing row reported success")
	}

	if _, err := st.SessionByID(context.Background(), id); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	st := setup(t)
	day := randomDay(t)

	owner := &model.User{
		ID:           uuid.New().String(),
		Email:        fmt.Sprintf("owner-%s@test.com", uuid.New().String()[:8]),
		PasswordHash: "x",
		Name:         "Owner",
		Role:         model.RoleStudent,
	}
	if err := st.CreateUser(context.Background(), owner); err != nil {
		t.Fatalf("create user: %v", err)
	}

	a := appointment(day, "03:00 PM")
	a.OwnerID = owner.ID
	insertCleanup(t, st, a)
	insertCleanup(t, st, appointment(day, "04:00 PM")) // anonymous booking

	got, err := st.ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(got) != 1 || got[0].OwnerID != owner.ID {
		t.Errorf("owner scoping: %+v", got)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	st := setup(t)
	email := fmt.Sprintf("dup-%s@test.com", uuid.New().String()[:8])

	u := &model.User{ID: uuid.New().String(), Email: email, PasswordHash: "x", Name: "First", Role: model.RoleStudent}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &model.User{ID: uuid.New().String(), Email: email, PasswordHash: "x", Name: "Second", Role: model.RoleStudent}
	if err := st.CreateUser(context.Background(), dup); !errors.Is(err, model.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestResourceClicks(t *testing.T) {
	st := setup(t)
	// a synthetic id keeps this test independent of directory contents
	id := "test-" + uuid.New().String()[:8]

	for i := 0; i < 3; i++ {
		if err := st.IncrementResourceClicks(context.Background(), id); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	a, err := st.Analytics(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if a.ResourceClicks[id] != 3 {
		t.Errorf("expected 3 clicks, got %d", a.ResourceClicks[id])
	}
	if a.TotalClicks < 3 {
		t.Errorf("total clicks too low: %d", a.TotalClicks)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	st := setup(t)

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        fmt.Sprintf("rt-%s@test.com", uuid.New().String()[:8]),
		PasswordHash: "x",
		Name:         "RT",
		Role:         model.RoleStudent,
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	expiry := time.Now().Add(time.Hour)
	oldID, err := st.CreateRefreshToken(context.Background(), u.ID, "hash-old-"+u.ID, expiry)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	newID := uuid.New().String()
	if err := st.RotateRefreshToken(context.Background(), oldID, newID, u.ID, "hash-new-"+u.ID, expiry); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	old, err := st.RefreshTokenByHash(context.Background(), "hash-old-"+u.ID)
	if err != nil {
		t.Fatalf("get old: %v", err)
	}
	if !old.Revoked || old.ReplacedBy == nil || *old.ReplacedBy != newID {
		t.Errorf("old token not rotated out: %+v", old)
	}

	if err := st.RevokeAllRefreshTokens(context.Background(), u.ID); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	fresh, err := st.RefreshTokenByHash(context.Background(), "hash-new-"+u.ID)
	if err != nil {
		t.Fatalf("get new: %v", err)
	}
	if !fresh.Revoked {
		t.Error("revoke-all missed the live token")
	}
}
