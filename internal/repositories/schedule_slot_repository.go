package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"

	intconfig "intima-backend/internal/config"
	"intima-backend/internal/domain/models"
)

const slotColumns = `id, session, day, start_time, end_time, assigned_members, created_at, updated_at`

// Slots come back in grid order: day outer, window inner.
const slotOrder = ` ORDER BY FIELD(day,'Monday','Tuesday','Wednesday','Thursday','Friday'), start_time ASC`

type ScheduleSlotRepository struct {
	DB *sql.DB
}

func (r ScheduleSlotRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanSlot(row interface{ Scan(dest ...any) error }) (models.ScheduleSlot, error) {
	var (
		s   models.ScheduleSlot
		raw []byte
	)
	err := row.Scan(&s.ID, &s.Session, &s.Day, &s.Start, &s.End, &raw, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.AssignedMembers = []string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.AssignedMembers); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (r ScheduleSlotRepository) Insert(s models.ScheduleSlot) error {
	raw, err := json.Marshal(s.AssignedMembers)
	if err != nil {
		return err
	}
	_, err = r.db().Exec(`
		INSERT INTO schedule_slots
			(id, session, day, start_time, end_time, assigned_members, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		s.ID, s.Session, string(s.Day), s.Start, s.End, raw, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// BulkInsert materializes a session grid. The (session, day, start_time)
// unique key turns a concurrent materialization into a duplicate-key error
// the caller can resolve by re-reading.
func (r ScheduleSlotRepository) BulkInsert(slots []models.ScheduleSlot) error {
	for _, s := range slots {
		if err := r.Insert(s); err != nil {
			return err
		}
	}
	return nil
}

// BySession returns a session's slots in grid order. Empty means the grid
// has not been materialized yet.
func (r ScheduleSlotRepository) BySession(session string) ([]models.ScheduleSlot, error) {
	rows, err := r.db().Query(
		`SELECT `+slotColumns+` FROM schedule_slots WHERE session = ?`+slotOrder, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ScheduleSlot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID returns nil when the id is unknown.
func (r ScheduleSlotRepository) GetByID(id string) (*models.ScheduleSlot, error) {
	row := r.db().QueryRow(`SELECT `+slotColumns+` FROM schedule_slots WHERE id = ? LIMIT 1`, id)
	s, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateAssignments replaces a slot's member list wholesale.
func (r ScheduleSlotRepository) UpdateAssignments(id string, members []string) error {
	if members == nil {
		members = []string{}
	}
	raw, err := json.Marshal(members)
	if err != nil {
		return err
	}
	_, err = r.db().Exec(`
		UPDATE schedule_slots SET assigned_members = ?, updated_at = NOW() WHERE id = ?`,
		raw, id,
	)
	return err
}

// ClearSession resets every slot's assignments for a session without
// deleting the rows.
func (r ScheduleSlotRepository) ClearSession(session string) error {
	_, err := r.db().Exec(`
		UPDATE schedule_slots SET assigned_members = '[]', updated_at = NOW() WHERE session = ?`,
		session,
	)
	return err
}
