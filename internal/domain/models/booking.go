package models

import (
	"time"

	"intima-backend/internal/domain"
)

// Booking is one confirmed or cancelled reservation of a single physical
// resource for a one-hour slot. UserID duplicates UserEmail; email is the
// user identity.
type Booking struct {
	ID         string               `json:"id"`
	UserID     string               `json:"userId"`
	UserName   string               `json:"userName"`
	UserEmail  string               `json:"userEmail"`
	Category   domain.Category      `json:"category"`
	ResourceID string               `json:"resourceId"`
	SubType    string               `json:"subType"`
	Date       string               `json:"date"`
	StartTime  string               `json:"startTime"`
	EndTime    string               `json:"endTime"`
	Status     domain.BookingStatus `json:"status"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// NewBooking carries a reservation request. ResourceIDs is the candidate
// list valid for the requested subType; when empty the catalog decides.
type NewBooking struct {
	UserName    string   `json:"userName"`
	UserEmail   string   `json:"userEmail"`
	Category    string   `json:"category"`
	SubType     string   `json:"subType"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	ResourceIDs []string `json:"resourceIds"`
}

// BookingFilter narrows listing by exact match. Status defaults to
// CONFIRMED unless AnyStatus is set (admin listings want both).
type BookingFilter struct {
	Date        string
	Category    string
	UserEmail   string
	Status      string
	AnyStatus   bool
	NewestFirst bool
}

// Availability is the slot-level answer for one date/category/subType:
// a start time appears in BookedSlots only when every resource of the
// subType is taken at that hour.
type Availability struct {
	Date           string   `json:"date"`
	Category       string   `json:"category"`
	SubType        string   `json:"subType"`
	TotalResources int      `json:"totalResources"`
	BookedSlots    []string `json:"bookedSlots"`
}
