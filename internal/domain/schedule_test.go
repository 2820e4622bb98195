package domain

import "testing"

func TestIsMemberBusyAt(t *testing.T) {
	schedule := WeeklySchedule{
		Monday:  []TimeSlot{{Start: "09:00", End: "11:00"}},
		Tuesday: []TimeSlot{{Start: "12:30", End: "13:30"}},
	}

	tests := []struct {
		name  string
		day   Weekday
		start string
		end   string
		want  bool
	}{
		{"class overlapping slot", Monday, "10:00", "11:30", true},
		{"class ending at slot start does not block", Monday, "11:00", "12:00", false},
		{"slot ending at class start does not block", Monday, "08:00", "09:00", false},
		{"partial overlap mid-slot", Tuesday, "13:00", "14:00", true},
		{"free day", Friday, "11:00", "12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsMemberBusyAt(schedule, tt.day, tt.start, tt.end)
			if got != tt.want {
				t.Fatalf("IsMemberBusyAt(%s %s-%s) = %v, want %v", tt.day, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestIsWeekday(t *testing.T) {
	ok, err := IsWeekday("2026-01-05") // Monday
	if err != nil || !ok {
		t.Fatalf("expected Monday to be a weekday, got %v %v", ok, err)
	}

	ok, err = IsWeekday("2026-01-03") // Saturday
	if err != nil || ok {
		t.Fatalf("expected Saturday to be rejected, got %v %v", ok, err)
	}

	_, err = IsWeekday("05-01-2026")
	if !IsValidation(err) {
		t.Fatalf("expected validation error for a malformed date, got %v", err)
	}
}

func TestWeeklyScheduleDay(t *testing.T) {
	schedule := WeeklySchedule{Wednesday: []TimeSlot{{Start: "10:00", End: "12:00"}}}

	if got := schedule.Day(Wednesday); len(got) != 1 {
		t.Fatalf("expected one Wednesday interval, got %d", len(got))
	}
	if got := schedule.Day(Thursday); got != nil {
		t.Fatalf("expected no Thursday intervals, got %v", got)
	}
}
