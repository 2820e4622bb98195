package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"intima-backend/internal/domain"
	"intima-backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

const testSession = "2026-A"

// noShuffle pins the randomizer to input order so assertions stay stable.
func noShuffle(int, func(i, j int)) {}

func newScheduleService(t *testing.T) (ScheduleService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return ScheduleService{DB: db, Now: testClock, Shuffle: noShuffle}, mock
}

func memberRowCols() []string {
	return []string{"id", "name", "session", "schedule", "created_at", "updated_at"}
}

func addMemberRow(t *testing.T, rows *sqlmock.Rows, m models.MemberSchedule) {
	t.Helper()
	raw, err := json.Marshal(m.Schedule)
	if err != nil {
		t.Fatalf("marshal schedule: %v", err)
	}
	rows.AddRow(m.ID, m.Name, m.Session, raw, m.CreatedAt, m.UpdatedAt)
}

func slotRowCols() []string {
	return []string{"id", "session", "day", "start_time", "end_time", "assigned_members", "created_at", "updated_at"}
}

// gridRows builds the full 5x3 materialized grid in store order.
func gridRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows(slotRowCols())
	i := 0
	for _, day := range domain.Days {
		for _, window := range domain.DutyWindows {
			rows.AddRow(fmt.Sprintf("slot-%d", i), testSession, string(day),
				window.Start, window.End, []byte("[]"), testClock(), testClock())
			i++
		}
	}
	return rows
}

func TestGetOrCreateScheduleSlotsMaterializesGrid(t *testing.T) {
	svc, mock := newScheduleService(t)

	mock.ExpectQuery("FROM schedule_slots WHERE session").
		WithArgs(testSession).
		WillReturnRows(sqlmock.NewRows(slotRowCols()))
	for i := 0; i < len(domain.Days)*len(domain.DutyWindows); i++ {
		mock.ExpectExec("INSERT INTO schedule_slots").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	slots, err := svc.GetOrCreateScheduleSlots(testSession)
	if err != nil {
		t.Fatalf("GetOrCreateScheduleSlots: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots, got %d", len(slots))
	}

	seen := map[string]bool{}
	for _, s := range slots {
		if s.Session != testSession {
			t.Fatalf("slot carries wrong session: %+v", s)
		}
		if len(s.AssignedMembers) != 0 {
			t.Fatalf("new slot should start unassigned: %+v", s)
		}
		seen[string(s.Day)+" "+s.Start] = true
	}
	if len(seen) != 15 {
		t.Fatalf("expected 15 distinct day/time cells, got %d", len(seen))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetOrCreateScheduleSlotsReturnsExistingGrid(t *testing.T) {
	svc, mock := newScheduleService(t)

	mock.ExpectQuery("FROM schedule_slots WHERE session").
		WithArgs(testSession).
		WillReturnRows(gridRows(t))

	slots, err := svc.GetOrCreateScheduleSlots(testSession)
	if err != nil {
		t.Fatalf("GetOrCreateScheduleSlots: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected the existing 15 slots, got %d", len(slots))
	}
	if slots[0].ID != "slot-0" {
		t.Fatalf("expected stored ids to survive, got %s", slots[0].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetOrCreateScheduleSlotsRereadsAfterLosingRace(t *testing.T) {
	svc, mock := newScheduleService(t)

	mock.ExpectQuery("FROM schedule_slots WHERE session").
		WillReturnRows(sqlmock.NewRows(slotRowCols()))
	mock.ExpectExec("INSERT INTO schedule_slots").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery("FROM schedule_slots WHERE session").
		WillReturnRows(gridRows(t))

	slots, err := svc.GetOrCreateScheduleSlots(testSession)
	if err != nil {
		t.Fatalf("losing the materialization race should fall back to a re-read: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected the winner's 15 slots, got %d", len(slots))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRandomizeScheduleRespectsAvailability(t *testing.T) {
	svc, mock := newScheduleService(t)

	alice := models.MemberSchedule{
		ID: "m-alice", Name: "Alice", Session: testSession,
		Schedule: domain.WeeklySchedule{
			Monday: []domain.TimeSlot{{Start: "11:00", End: "12:00"}},
		},
		CreatedAt: testClock(), UpdatedAt: testClock(),
	}
	bob := models.MemberSchedule{
		ID: "m-bob", Name: "Bob", Session: testSession,
		CreatedAt: testClock(), UpdatedAt: testClock(),
	}
	schedules := map[string]domain.WeeklySchedule{
		alice.ID: alice.Schedule,
		bob.ID:   bob.Schedule,
	}

	members := sqlmock.NewRows(memberRowCols())
	addMemberRow(t, members, alice)
	addMemberRow(t, members, bob)

	mock.ExpectQuery("FROM member_schedules").
		WithArgs(testSession).
		WillReturnRows(members)
	mock.ExpectQuery("FROM schedule_slots WHERE session").
		WillReturnRows(gridRows(t))
	// Clear, then one assignment update per slot.
	mock.ExpectExec("UPDATE schedule_slots SET assigned_members").
		WillReturnResult(sqlmock.NewResult(0, 15))
	for i := 0; i < 15; i++ {
		mock.ExpectExec("UPDATE schedule_slots SET assigned_members").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	slots, err := svc.RandomizeSchedule(testSession)
	if err != nil {
		t.Fatalf("RandomizeSchedule: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots back, got %d", len(slots))
	}

	for _, slot := range slots {
		if len(slot.AssignedMembers) > membersPerSlot {
			t.Fatalf("slot %s %s has %d members", slot.Day, slot.Start, len(slot.AssignedMembers))
		}
		for _, id := range slot.AssignedMembers {
			if domain.IsMemberBusyAt(schedules[id], slot.Day, slot.Start, slot.End) {
				t.Fatalf("member %s assigned to %s %s while busy", id, slot.Day, slot.Start)
			}
		}
		if slot.Day == domain.Monday && slot.Start == "11:00" {
			if len(slot.AssignedMembers) != 1 || slot.AssignedMembers[0] != bob.ID {
				t.Fatalf("Monday 11:00 should get only Bob, got %v", slot.AssignedMembers)
			}
		} else if len(slot.AssignedMembers) != 2 {
			t.Fatalf("slot %s %s should get both members, got %v", slot.Day, slot.Start, slot.AssignedMembers)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpsertMemberScheduleCreates(t *testing.T) {
	svc, mock := newScheduleService(t)

	mock.ExpectQuery("FROM member_schedules").
		WithArgs("Alice", testSession).
		WillReturnRows(sqlmock.NewRows(memberRowCols()))
	mock.ExpectExec("INSERT INTO member_schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))

	member, err := svc.UpsertMemberSchedule("Alice", testSession, domain.WeeklySchedule{})
	if err != nil {
		t.Fatalf("UpsertMemberSchedule: %v", err)
	}
	if member.ID == "" || member.Name != "Alice" || member.Session != testSession {
		t.Fatalf("unexpected member: %+v", member)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpsertMemberScheduleReplacesExisting(t *testing.T) {
	svc, mock := newScheduleService(t)

	existing := models.MemberSchedule{
		ID: "m-1", Name: "Alice", Session: testSession,
		CreatedAt: testClock(), UpdatedAt: testClock(),
	}
	newSchedule := domain.WeeklySchedule{
		Friday: []domain.TimeSlot{{Start: "09:00", End: "10:00"}},
	}
	updated := existing
	updated.Schedule = newSchedule

	found := sqlmock.NewRows(memberRowCols())
	addMemberRow(t, found, existing)
	reread := sqlmock.NewRows(memberRowCols())
	addMemberRow(t, reread, updated)

	mock.ExpectQuery("FROM member_schedules").WillReturnRows(found)
	mock.ExpectExec("UPDATE member_schedules").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM member_schedules").WillReturnRows(reread)

	member, err := svc.UpsertMemberSchedule("Alice", testSession, newSchedule)
	if err != nil {
		t.Fatalf("UpsertMemberSchedule: %v", err)
	}
	if member.ID != "m-1" {
		t.Fatalf("upsert should keep the existing record, got id %s", member.ID)
	}
	if len(member.Schedule.Friday) != 1 {
		t.Fatalf("schedule was not replaced: %+v", member.Schedule)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpsertMemberScheduleRequiresName(t *testing.T) {
	svc, _ := newScheduleService(t)

	if _, err := svc.UpsertMemberSchedule("  ", testSession, domain.WeeklySchedule{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestUpdateScheduleSlotUnknownID(t *testing.T) {
	svc, mock := newScheduleService(t)

	mock.ExpectQuery("FROM schedule_slots WHERE id").
		WillReturnRows(sqlmock.NewRows(slotRowCols()))

	slot, err := svc.UpdateScheduleSlot("nope", []string{"m-1"})
	if err != nil {
		t.Fatalf("unknown slot id should not be an error: %v", err)
	}
	if slot != nil {
		t.Fatalf("expected nil for unknown slot, got %+v", slot)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteMemberSchedule(t *testing.T) {
	svc, mock := newScheduleService(t)

	found := sqlmock.NewRows(memberRowCols())
	addMemberRow(t, found, models.MemberSchedule{
		ID: "m-1", Name: "Alice", Session: testSession,
		CreatedAt: testClock(), UpdatedAt: testClock(),
	})

	mock.ExpectQuery("FROM member_schedules").WillReturnRows(found)
	mock.ExpectExec("DELETE FROM member_schedules").
		WithArgs("m-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := svc.DeleteMemberSchedule("m-1")
	if err != nil || !ok {
		t.Fatalf("expected deletion, got ok=%v err=%v", ok, err)
	}

	mock.ExpectQuery("FROM member_schedules").
		WillReturnRows(sqlmock.NewRows(memberRowCols()))

	ok, err = svc.DeleteMemberSchedule("gone")
	if err != nil || ok {
		t.Fatalf("unknown id should report false without error, got ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAvailableMembersFiltersBusy(t *testing.T) {
	svc, mock := newScheduleService(t)

	alice := models.MemberSchedule{
		ID: "m-alice", Name: "Alice", Session: testSession,
		Schedule: domain.WeeklySchedule{
			Tuesday: []domain.TimeSlot{{Start: "12:00", End: "14:00"}},
		},
		CreatedAt: testClock(), UpdatedAt: testClock(),
	}
	bob := models.MemberSchedule{
		ID: "m-bob", Name: "Bob", Session: testSession,
		CreatedAt: testClock(), UpdatedAt: testClock(),
	}

	members := sqlmock.NewRows(memberRowCols())
	addMemberRow(t, members, alice)
	addMemberRow(t, members, bob)

	mock.ExpectQuery("FROM member_schedules").WillReturnRows(members)

	out, err := svc.AvailableMembers(testSession, "Tuesday", "12:00", "13:00")
	if err != nil {
		t.Fatalf("AvailableMembers: %v", err)
	}
	if len(out) != 1 || out[0].ID != bob.ID {
		t.Fatalf("expected only Bob free Tuesday 12:00, got %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAvailableMembersRejectsWeekendDay(t *testing.T) {
	svc, _ := newScheduleService(t)

	if _, err := svc.AvailableMembers(testSession, "Sunday", "11:00", "12:00"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for Sunday, got %v", err)
	}
}

func TestClearAllSlotsRequiresSession(t *testing.T) {
	svc, _ := newScheduleService(t)

	if err := svc.ClearAllSlots(""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty session, got %v", err)
	}
}
