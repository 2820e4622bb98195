package repositories

import (
	"testing"
	"time"

	"intima-backend/internal/domain"
	"intima-backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newBookingRepo(t *testing.T) (BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return BookingRepository{DB: db}, mock
}

func TestListBuildsFilterClauses(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(`WHERE booking_date = \? AND category = \? AND status = \? ORDER BY booking_date ASC`).
		WithArgs("2026-01-05", "PING_PONG", "CONFIRMED").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_name", "user_email", "category", "resource_id", "sub_type",
			"booking_date", "start_time", "end_time", "status", "created_at", "updated_at",
		}))

	out, err := repo.List(models.BookingFilter{
		Date:     "2026-01-05",
		Category: "PING_PONG",
		Status:   "CONFIRMED",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListNewestFirstOrdering(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(`ORDER BY booking_date DESC, start_time ASC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_name", "user_email", "category", "resource_id", "sub_type",
			"booking_date", "start_time", "end_time", "status", "created_at", "updated_at",
		}))

	if _, err := repo.List(models.BookingFilter{NewestFirst: true}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertSetsActiveForConfirmed(t *testing.T) {
	repo, mock := newBookingRepo(t)

	now := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	b := models.Booking{
		ID: "b-1", UserName: "Alice", UserEmail: "alice@example.com",
		Category: domain.CategoryPingPong, ResourceID: "pingpong_1",
		SubType: domain.SubTypeDefault, Date: "2026-01-05",
		StartTime: "10:00", EndTime: "11:00",
		Status: domain.StatusConfirmed, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(b.ID, b.UserName, b.UserEmail, "PING_PONG", b.ResourceID, b.SubType,
			b.Date, b.StartTime, b.EndTime, "CONFIRMED", int64(1), b.CreatedAt, b.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Insert(b); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
