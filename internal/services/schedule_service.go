package services

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	intconfig "intima-backend/internal/config"
	"intima-backend/internal/domain"
	"intima-backend/internal/domain/models"
	"intima-backend/internal/repositories"
	"intima-backend/internal/utils"

	"github.com/google/uuid"
)

// membersPerSlot is how many people the randomizer puts on duty per cell.
const membersPerSlot = 2

// ScheduleService owns member availability tracking and the weekly duty
// grid: lazy materialization, manual assignment, and randomized allocation.
type ScheduleService struct {
	Members   repositories.MemberScheduleRepository
	Slots     repositories.ScheduleSlotRepository
	DB        *sql.DB
	RequestID string
	Now       func() time.Time
	// Shuffle permutes n elements via swap; tests may pin it. Defaults to
	// an unbiased rand.Shuffle.
	Shuffle func(n int, swap func(i, j int))
}

func (s ScheduleService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ScheduleService) members() repositories.MemberScheduleRepository {
	if s.Members.DB != nil {
		return s.Members
	}
	return repositories.MemberScheduleRepository{DB: s.db()}
}

func (s ScheduleService) slots() repositories.ScheduleSlotRepository {
	if s.Slots.DB != nil {
		return s.Slots
	}
	return repositories.ScheduleSlotRepository{DB: s.db()}
}

func (s ScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s ScheduleService) shuffle(n int, swap func(i, j int)) {
	if s.Shuffle != nil {
		s.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// UpsertMemberSchedule creates or replaces the weekly busy map for a
// (name, session) pair. The pair rule is enforced by lookup-before-create,
// not a store constraint.
func (s ScheduleService) UpsertMemberSchedule(name, session string, schedule domain.WeeklySchedule) (*models.MemberSchedule, error) {
	name = strings.TrimSpace(name)
	session = strings.TrimSpace(session)
	if name == "" {
		return nil, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if session == "" {
		return nil, domain.ValidationError{Field: "session", Msg: "required"}
	}

	repo := s.members()
	existing, err := repo.GetByName(name, session)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}

	if existing != nil {
		existing.Schedule = schedule
		if err := repo.Update(*existing); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		utils.LogEvent(s.RequestID, "schedule", "member_update", "id="+existing.ID)
		return repo.GetByID(existing.ID)
	}

	now := s.now()
	member := models.MemberSchedule{
		ID:        uuid.NewString(),
		Name:      name,
		Session:   session,
		Schedule:  schedule,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Insert(member); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "schedule", "member_create", "id="+member.ID)
	return &member, nil
}

// GetMemberSchedule returns nil for unknown ids.
func (s ScheduleService) GetMemberSchedule(id string) (*models.MemberSchedule, error) {
	m, err := s.members().GetByID(id)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return m, nil
}

// ListMemberSchedules lists members sorted by name, optionally one session.
func (s ScheduleService) ListMemberSchedules(session string) ([]models.MemberSchedule, error) {
	out, err := s.members().List(strings.TrimSpace(session))
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

// UpdateMemberSchedule applies a partial patch. Nil result means the id is
// unknown.
func (s ScheduleService) UpdateMemberSchedule(id string, patch models.MemberSchedulePatch) (*models.MemberSchedule, error) {
	repo := s.members()
	existing, err := repo.GetByID(id)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if existing == nil {
		return nil, nil
	}

	if patch.Name != nil {
		existing.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Session != nil {
		existing.Session = strings.TrimSpace(*patch.Session)
	}
	if patch.Schedule != nil {
		existing.Schedule = *patch.Schedule
	}

	if err := repo.Update(*existing); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return repo.GetByID(id)
}

// DeleteMemberSchedule removes a member. The bool reports whether the id
// existed.
func (s ScheduleService) DeleteMemberSchedule(id string) (bool, error) {
	repo := s.members()
	existing, err := repo.GetByID(id)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	if existing == nil {
		return false, nil
	}
	if err := repo.Delete(id); err != nil {
		return false, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "schedule", "member_delete", "id="+id)
	return true, nil
}

// Sessions lists the distinct session labels across all member schedules.
func (s ScheduleService) Sessions() ([]string, error) {
	out, err := s.members().Sessions()
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (s ScheduleService) buildGrid(session string) []models.ScheduleSlot {
	now := s.now()
	grid := make([]models.ScheduleSlot, 0, len(domain.Days)*len(domain.DutyWindows))
	for _, day := range domain.Days {
		for _, window := range domain.DutyWindows {
			grid = append(grid, models.ScheduleSlot{
				ID:              uuid.NewString(),
				Day:             day,
				Start:           window.Start,
				End:             window.End,
				AssignedMembers: []string{},
				Session:         session,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}
	}
	return grid
}

// GetOrCreateScheduleSlots returns a session's grid, materializing the full
// Mon-Fri x duty-window grid with empty assignments on first access. A
// concurrent materialization loses on the unique slot key and falls back to
// re-reading what the winner created.
func (s ScheduleService) GetOrCreateScheduleSlots(session string) ([]models.ScheduleSlot, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, domain.ValidationError{Field: "session", Msg: "required"}
	}

	repo := s.slots()
	existing, err := repo.BySession(session)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if len(existing) > 0 {
		return existing, nil
	}

	grid := s.buildGrid(session)
	if err := repo.BulkInsert(grid); err != nil {
		if repositories.IsDuplicateSlot(err) {
			slots, rerr := repo.BySession(session)
			if rerr != nil {
				return nil, domain.InternalError{Err: rerr}
			}
			return slots, nil
		}
		return nil, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "schedule", "grid_create",
		fmt.Sprintf("session=%s slots=%d", session, len(grid)))
	return grid, nil
}

// CreateScheduleSlot adds a single ad-hoc slot outside the fixed grid.
func (s ScheduleService) CreateScheduleSlot(dayStr, start, end, session string, assigned []string) (*models.ScheduleSlot, error) {
	day, err := domain.ParseWeekday(dayStr)
	if err != nil {
		return nil, err
	}
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, domain.ValidationError{Field: "session", Msg: "required"}
	}
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return nil, domain.ValidationError{Field: "start", Msg: "start and end are required"}
	}
	if assigned == nil {
		assigned = []string{}
	}

	now := s.now()
	slot := models.ScheduleSlot{
		ID:              uuid.NewString(),
		Day:             day,
		Start:           start,
		End:             end,
		AssignedMembers: assigned,
		Session:         session,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.slots().Insert(slot); err != nil {
		if repositories.IsDuplicateSlot(err) {
			return nil, domain.ConflictError{Resource: "schedule slot", Msg: "slot already exists for that day and time"}
		}
		return nil, domain.InternalError{Err: err}
	}
	return &slot, nil
}

// UpdateScheduleSlot replaces a slot's assigned member list. The caller
// computes the full new list; there is no incremental add/remove. Nil
// result means the slot id is unknown.
func (s ScheduleService) UpdateScheduleSlot(id string, assignedMembers []string) (*models.ScheduleSlot, error) {
	repo := s.slots()
	existing, err := repo.GetByID(id)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if existing == nil {
		return nil, nil
	}

	if err := repo.UpdateAssignments(id, assignedMembers); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return repo.GetByID(id)
}

// ClearAllSlots empties every assignment for a session, keeping the grid.
func (s ScheduleService) ClearAllSlots(session string) error {
	session = strings.TrimSpace(session)
	if session == "" {
		return domain.ValidationError{Field: "session", Msg: "required"}
	}
	if err := s.slots().ClearSession(session); err != nil {
		return domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "schedule", "clear", "session="+session)
	return nil
}

// AvailableMembers lists the session members free for [start,end) on a day.
// Linear scan over the roster; rosters are tens of members, not thousands.
func (s ScheduleService) AvailableMembers(session, dayStr, start, end string) ([]models.MemberSchedule, error) {
	day, err := domain.ParseWeekday(dayStr)
	if err != nil {
		return nil, err
	}

	members, err := s.members().List(strings.TrimSpace(session))
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}

	out := []models.MemberSchedule{}
	for _, m := range members {
		if !domain.IsMemberBusyAt(m.Schedule, day, start, end) {
			out = append(out, m)
		}
	}
	return out, nil
}

// pickAssignees shuffles the members eligible for a slot and takes the
// first membersPerSlot of them. Selection is independent per slot: no
// fairness balancing across the grid, and duty assignments never feed back
// into anyone's busy times.
func (s ScheduleService) pickAssignees(members []models.MemberSchedule, slot models.ScheduleSlot) []string {
	eligible := make([]models.MemberSchedule, 0, len(members))
	for _, m := range members {
		if !domain.IsMemberBusyAt(m.Schedule, slot.Day, slot.Start, slot.End) {
			eligible = append(eligible, m)
		}
	}

	s.shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	n := membersPerSlot
	if len(eligible) < n {
		n = len(eligible)
	}
	selected := make([]string, 0, n)
	for _, m := range eligible[:n] {
		selected = append(selected, m.ID)
	}
	return selected
}

// RandomizeSchedule clears a session's assignments and refills every slot
// with up to two randomly chosen members who are free at that time.
func (s ScheduleService) RandomizeSchedule(session string) ([]models.ScheduleSlot, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, domain.ValidationError{Field: "session", Msg: "required"}
	}

	members, err := s.members().List(session)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	slots, err := s.GetOrCreateScheduleSlots(session)
	if err != nil {
		return nil, err
	}

	repo := s.slots()
	if err := repo.ClearSession(session); err != nil {
		return nil, domain.InternalError{Err: err}
	}

	updated := make([]models.ScheduleSlot, 0, len(slots))
	for _, slot := range slots {
		selected := s.pickAssignees(members, slot)
		if err := repo.UpdateAssignments(slot.ID, selected); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		slot.AssignedMembers = selected
		slot.UpdatedAt = s.now()
		updated = append(updated, slot)
	}

	utils.LogEvent(s.RequestID, "schedule", "randomize",
		fmt.Sprintf("session=%s slots=%d members=%d", session, len(updated), len(members)))
	return updated, nil
}
