package domain

import "fmt"

// Category identifies a bookable facility type.
type Category string

const (
	CategoryDiscussionRoom Category = "DISCUSSION_ROOM"
	CategoryMusicRoom      Category = "MUSIC_ROOM"
	CategoryPoolTable      Category = "POOL_TABLE"
	CategoryPingPong       Category = "PING_PONG"
)

// ParseCategory rejects anything outside the closed category set.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryDiscussionRoom, CategoryMusicRoom, CategoryPoolTable, CategoryPingPong:
		return Category(s), nil
	}
	return "", ValidationError{Field: "category", Msg: fmt.Sprintf("unknown category %q", s)}
}

// BookingStatus is the booking lifecycle state. Bookings are never deleted;
// they only move CONFIRMED -> CANCELLED.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// ParseBookingStatus validates an incoming status filter value.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusConfirmed, StatusCancelled:
		return BookingStatus(s), nil
	}
	return "", ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", s)}
}

// Weekday is a duty-roster day. Weekends are not part of the domain.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Days lists roster days in grid order.
var Days = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// ParseWeekday accepts Monday..Friday only.
func ParseWeekday(s string) (Weekday, error) {
	switch Weekday(s) {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return Weekday(s), nil
	}
	return "", ValidationError{Field: "day", Msg: fmt.Sprintf("invalid day %q, must be Monday-Friday", s)}
}
