package domain

import (
	"strconv"
	"strings"
	"time"
)

// TimeSlot is a [Start,End) window in HH:MM form.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklySchedule holds a member's busy (class) intervals per roster day.
type WeeklySchedule struct {
	Monday    []TimeSlot `json:"Monday"`
	Tuesday   []TimeSlot `json:"Tuesday"`
	Wednesday []TimeSlot `json:"Wednesday"`
	Thursday  []TimeSlot `json:"Thursday"`
	Friday    []TimeSlot `json:"Friday"`
}

// Day returns the busy intervals for the given weekday.
func (w WeeklySchedule) Day(d Weekday) []TimeSlot {
	switch d {
	case Monday:
		return w.Monday
	case Tuesday:
		return w.Tuesday
	case Wednesday:
		return w.Wednesday
	case Thursday:
		return w.Thursday
	case Friday:
		return w.Friday
	}
	return nil
}

// DutyWindows are the fixed roster slot windows per day. Together with Days
// they define the 15-cell session grid.
var DutyWindows = []TimeSlot{
	{Start: "11:00", End: "12:00"},
	{Start: "12:00", End: "13:00"},
	{Start: "13:00", End: "14:00"},
}

// IsMemberBusyAt reports whether [start,end) overlaps any busy interval on
// the given day. Intervals are half-open: a class ending exactly at the
// slot's start does not block the slot.
func IsMemberBusyAt(schedule WeeklySchedule, day Weekday, start, end string) bool {
	busy := schedule.Day(day)
	if len(busy) == 0 {
		return false
	}

	slotStart := timeToMinutes(start)
	slotEnd := timeToMinutes(end)

	for _, b := range busy {
		if slotStart < timeToMinutes(b.End) && slotEnd > timeToMinutes(b.Start) {
			return true
		}
	}
	return false
}

func timeToMinutes(t string) int {
	parts := strings.SplitN(strings.TrimSpace(t), ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) == 2 {
		m, _ = strconv.Atoi(parts[1])
	}
	return h*60 + m
}

// IsWeekday reports whether a YYYY-MM-DD date falls on Monday-Friday.
func IsWeekday(date string) (bool, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return false, ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday, nil
}
