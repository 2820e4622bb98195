package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "intima-backend/internal/config"
	"intima-backend/internal/domain"
	"intima-backend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

const bookingColumns = `id, user_name, user_email, category, resource_id, sub_type,
	booking_date, start_time, end_time, status, created_at, updated_at`

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// IsDuplicateSlot reports whether an insert failed on the active-slot unique
// key, i.e. another CONFIRMED booking won the same resource concurrently.
func IsDuplicateSlot(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func scanBooking(row interface{ Scan(dest ...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.UserName,
		&b.UserEmail,
		&b.Category,
		&b.ResourceID,
		&b.SubType,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	b.UserID = b.UserEmail
	return b, err
}

// Insert persists a new booking row. active mirrors the CONFIRMED status so
// the unique slot key only applies to live bookings.
func (r BookingRepository) Insert(b models.Booking) error {
	active := sql.NullInt64{}
	if b.Status == domain.StatusConfirmed {
		active = sql.NullInt64{Int64: 1, Valid: true}
	}
	_, err := r.db().Exec(`
		INSERT INTO bookings
			(id, user_name, user_email, category, resource_id, sub_type,
			 booking_date, start_time, end_time, status, active, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.UserName, b.UserEmail, string(b.Category), b.ResourceID, b.SubType,
		b.Date, b.StartTime, b.EndTime, string(b.Status), active, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// GetByID returns nil (not an error) when the id is unknown.
func (r BookingRepository) GetByID(id string) (*models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List applies exact-match filters and returns bookings ordered by date and
// start time (newest date first for admin listings).
func (r BookingRepository) List(f models.BookingFilter) ([]models.Booking, error) {
	where := []string{}
	args := []any{}

	if f.Date != "" {
		where = append(where, "booking_date = ?")
		args = append(args, f.Date)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.UserEmail != "" {
		where = append(where, "user_email = ?")
		args = append(args, f.UserEmail)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if f.NewestFirst {
		query += ` ORDER BY booking_date DESC, start_time ASC`
	} else {
		query += ` ORDER BY booking_date ASC, start_time ASC`
	}

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BookedResourceIDs returns every resource held by a CONFIRMED booking at
// the exact (date, startTime, category) triple, regardless of subType.
func (r BookingRepository) BookedResourceIDs(date, startTime string, category domain.Category) ([]string, error) {
	rows, err := r.db().Query(`
		SELECT resource_id FROM bookings
		WHERE booking_date = ? AND start_time = ? AND category = ? AND status = ?`,
		date, startTime, string(category), string(domain.StatusConfirmed),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ForDateCategory returns all CONFIRMED bookings on a date for a category.
func (r BookingRepository) ForDateCategory(date string, category domain.Category) ([]models.Booking, error) {
	return r.List(models.BookingFilter{
		Date:     date,
		Category: string(category),
		Status:   string(domain.StatusConfirmed),
	})
}

// ForUserDateCategory returns the user's CONFIRMED bookings for a date and
// category, ordered by start time. The consecutive-hours check depends on
// that ordering.
func (r BookingRepository) ForUserDateCategory(userEmail, date string, category domain.Category) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_email = ? AND booking_date = ? AND category = ? AND status = ?
		ORDER BY start_time ASC`,
		userEmail, date, string(category), string(domain.StatusConfirmed),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Cancel flips status to CANCELLED and clears the active flag so the unique
// slot key releases the resource. Safe to repeat on an already-cancelled row.
func (r BookingRepository) Cancel(id string) error {
	_, err := r.db().Exec(`
		UPDATE bookings SET status = ?, active = NULL, updated_at = NOW() WHERE id = ?`,
		string(domain.StatusCancelled), id,
	)
	return err
}
