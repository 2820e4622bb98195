package db

import (
	"database/sql"
	"fmt"
)

type QueryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

// HasTable checks the current schema for a table.
func HasTable(q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRow(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// The bookings unique key uses a nullable active flag: 1 while CONFIRMED,
// NULL after cancellation. NULLs never collide in a MySQL unique index, so
// cancelled rows free the slot while a second concurrent CONFIRMED insert
// for the same (date, start, category, resource) fails with a duplicate-key
// error instead of silently double-booking.
var schemaDDL = map[string]string{
	"bookings": `
CREATE TABLE IF NOT EXISTS bookings (
	id CHAR(36) PRIMARY KEY,
	user_name VARCHAR(255) NOT NULL,
	user_email VARCHAR(255) NOT NULL,
	category VARCHAR(32) NOT NULL,
	resource_id VARCHAR(64) NOT NULL,
	sub_type VARCHAR(32) NOT NULL DEFAULT 'DEFAULT',
	booking_date CHAR(10) NOT NULL,
	start_time CHAR(5) NOT NULL,
	end_time CHAR(5) NOT NULL,
	status VARCHAR(16) NOT NULL DEFAULT 'CONFIRMED',
	active TINYINT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_active_slot (booking_date, start_time, category, resource_id, active),
	KEY idx_day_category (booking_date, category),
	KEY idx_user_day (user_email, booking_date, category)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`,
	"member_schedules": `
CREATE TABLE IF NOT EXISTS member_schedules (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	session VARCHAR(100) NOT NULL,
	schedule JSON NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_session (session),
	KEY idx_name_session (name, session)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`,
	"schedule_slots": `
CREATE TABLE IF NOT EXISTS schedule_slots (
	id CHAR(36) PRIMARY KEY,
	session VARCHAR(100) NOT NULL,
	day VARCHAR(16) NOT NULL,
	start_time CHAR(5) NOT NULL,
	end_time CHAR(5) NOT NULL,
	assigned_members JSON NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_session_slot (session, day, start_time)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`,
}

// EnsureSchema creates missing tables. Existing tables are left alone.
func EnsureSchema(d *sql.DB) error {
	if d == nil {
		return fmt.Errorf("db not available")
	}
	for table, ddl := range schemaDDL {
		if HasTable(d, table) {
			continue
		}
		if _, err := d.Exec(ddl); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}
