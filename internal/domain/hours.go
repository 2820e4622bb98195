package domain

import (
	"sort"
	"strconv"
	"strings"
)

// MaxConsecutiveHours caps back-to-back discussion room time per user per day.
const MaxConsecutiveHours = 2

// HourOf truncates an HH:MM string to its hour. Bookings are whole-hour
// slots, so minute precision is not needed here.
func HourOf(t string) int {
	h, _ := strconv.Atoi(strings.SplitN(strings.TrimSpace(t), ":", 2)[0])
	return h
}

// CalculateConsecutiveHours returns the consecutive span (in hours) the user
// would hold if [newStart,newEnd) were added to their existing bookings.
//
// A new interval that shares no endpoint with any existing booking is an
// independent block and counts only its own duration. Otherwise the span
// [minStart,maxEnd] is expanded by every existing interval that overlaps or
// touches the running span, in a single pass over the input order. Bookings
// arrive sorted by start time from the store, which keeps the single pass
// equivalent to a full merge for the grid-shaped inputs this system produces.
func CalculateConsecutiveHours(existing []TimeSlot, newStart, newEnd string) int {
	ns := HourOf(newStart)
	ne := HourOf(newEnd)
	duration := ne - ns

	if len(existing) == 0 {
		return duration
	}

	adjacent := false
	for _, b := range existing {
		if HourOf(b.End) == ns || ne == HourOf(b.Start) {
			adjacent = true
			break
		}
	}
	if !adjacent {
		return duration
	}

	minStart := ns
	maxEnd := ne
	for _, b := range existing {
		bs := HourOf(b.Start)
		be := HourOf(b.End)
		if be < minStart || bs > maxEnd {
			continue
		}
		if bs < minStart {
			minStart = bs
		}
		if be > maxEnd {
			maxEnd = be
		}
	}
	return maxEnd - minStart
}

// ConsecutiveBlock is a maximal contiguous run of booked hours.
type ConsecutiveBlock struct {
	Start int
	End   int
	Hours int
}

// LongestConsecutiveBlock merges the given intervals into maximal
// contiguous/overlapping runs and returns the longest one, or nil when there
// are no bookings.
func LongestConsecutiveBlock(bookings []TimeSlot) *ConsecutiveBlock {
	if len(bookings) == 0 {
		return nil
	}

	sorted := make([]TimeSlot, len(bookings))
	copy(sorted, bookings)
	sort.Slice(sorted, func(i, j int) bool {
		return HourOf(sorted[i].Start) < HourOf(sorted[j].Start)
	})

	longest := ConsecutiveBlock{
		Start: HourOf(sorted[0].Start),
		End:   HourOf(sorted[0].End),
	}
	longest.Hours = longest.End - longest.Start

	curStart := longest.Start
	curEnd := longest.End

	for _, b := range sorted[1:] {
		bs := HourOf(b.Start)
		be := HourOf(b.End)
		if bs <= curEnd {
			if be > curEnd {
				curEnd = be
			}
			continue
		}
		if curEnd-curStart > longest.Hours {
			longest = ConsecutiveBlock{Start: curStart, End: curEnd, Hours: curEnd - curStart}
		}
		curStart = bs
		curEnd = be
	}

	if curEnd-curStart > longest.Hours {
		longest = ConsecutiveBlock{Start: curStart, End: curEnd, Hours: curEnd - curStart}
	}
	return &longest
}
