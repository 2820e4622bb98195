package models

import (
	"time"

	"intima-backend/internal/domain"
)

// MemberSchedule is one person's declared weekly class (busy) times for one
// session/term. At most one record exists per (name, session) pair.
type MemberSchedule struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Session   string                `json:"session"`
	Schedule  domain.WeeklySchedule `json:"schedule"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// MemberSchedulePatch updates only the fields that are present.
type MemberSchedulePatch struct {
	Name     *string                `json:"name"`
	Session  *string                `json:"session"`
	Schedule *domain.WeeklySchedule `json:"schedule"`
}

// ScheduleSlot is one cell of a session's weekly duty grid.
// AssignedMembers holds MemberSchedule IDs in assignment order.
type ScheduleSlot struct {
	ID              string         `json:"id"`
	Day             domain.Weekday `json:"day"`
	Start           string         `json:"start"`
	End             string         `json:"end"`
	AssignedMembers []string       `json:"assignedMembers"`
	Session         string         `json:"session"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
