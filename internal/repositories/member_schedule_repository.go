package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"

	intconfig "intima-backend/internal/config"
	"intima-backend/internal/domain/models"
)

const memberColumns = `id, name, session, schedule, created_at, updated_at`

type MemberScheduleRepository struct {
	DB *sql.DB
}

func (r MemberScheduleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanMember(row interface{ Scan(dest ...any) error }) (models.MemberSchedule, error) {
	var (
		m   models.MemberSchedule
		raw []byte
	)
	err := row.Scan(&m.ID, &m.Name, &m.Session, &raw, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m.Schedule); err != nil {
			return m, err
		}
	}
	return m, nil
}

func (r MemberScheduleRepository) Insert(m models.MemberSchedule) error {
	raw, err := json.Marshal(m.Schedule)
	if err != nil {
		return err
	}
	_, err = r.db().Exec(`
		INSERT INTO member_schedules (id, name, session, schedule, created_at, updated_at)
		VALUES (?,?,?,?,?,?)`,
		m.ID, m.Name, m.Session, raw, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

// GetByID returns nil when the id is unknown.
func (r MemberScheduleRepository) GetByID(id string) (*models.MemberSchedule, error) {
	row := r.db().QueryRow(`SELECT `+memberColumns+` FROM member_schedules WHERE id = ? LIMIT 1`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByName is the lookup-before-create check behind the one-record-per
// (name, session) rule.
func (r MemberScheduleRepository) GetByName(name, session string) (*models.MemberSchedule, error) {
	row := r.db().QueryRow(`
		SELECT `+memberColumns+` FROM member_schedules
		WHERE name = ? AND session = ? LIMIT 1`, name, session)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns members sorted by name, optionally restricted to a session.
func (r MemberScheduleRepository) List(session string) ([]models.MemberSchedule, error) {
	query := `SELECT ` + memberColumns + ` FROM member_schedules`
	args := []any{}
	if session != "" {
		query += ` WHERE session = ?`
		args = append(args, session)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MemberSchedule{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r MemberScheduleRepository) Update(m models.MemberSchedule) error {
	raw, err := json.Marshal(m.Schedule)
	if err != nil {
		return err
	}
	_, err = r.db().Exec(`
		UPDATE member_schedules SET name = ?, session = ?, schedule = ?, updated_at = NOW()
		WHERE id = ?`,
		m.Name, m.Session, raw, m.ID,
	)
	return err
}

func (r MemberScheduleRepository) Delete(id string) error {
	_, err := r.db().Exec(`DELETE FROM member_schedules WHERE id = ?`, id)
	return err
}

// Sessions returns the distinct session labels, sorted lexicographically.
func (r MemberScheduleRepository) Sessions() ([]string, error) {
	rows, err := r.db().Query(`SELECT DISTINCT session FROM member_schedules ORDER BY session ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
