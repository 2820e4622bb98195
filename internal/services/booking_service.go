package services

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	intconfig "intima-backend/internal/config"
	"intima-backend/internal/domain"
	"intima-backend/internal/domain/models"
	"intima-backend/internal/repositories"
	"intima-backend/internal/utils"

	"github.com/google/uuid"
)

// BookingService owns the facility reservation rules: weekday-only dates,
// first-free resource assignment in catalog order, the discussion-room
// consecutive-hours cap, and slot-level availability.
type BookingService struct {
	Repo      repositories.BookingRepository
	DB        *sql.DB
	RequestID string
	Now       func() time.Time
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) repo() repositories.BookingRepository {
	if s.Repo.DB != nil {
		return s.Repo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func validSlotTimes(start, end string) bool {
	if len(start) != 5 || len(end) != 5 || start[2] != ':' || end[2] != ':' {
		return false
	}
	return domain.HourOf(end)-domain.HourOf(start) == 1
}

// CreateBooking reserves the first free resource for the requested slot.
// The check-then-insert race is closed by the active-slot unique key: when
// an insert loses to a concurrent request it re-checks and moves on to the
// next candidate instead of double-booking.
func (s BookingService) CreateBooking(req models.NewBooking) (*models.Booking, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	req.Date = strings.TrimSpace(req.Date)
	req.StartTime = strings.TrimSpace(req.StartTime)
	req.EndTime = strings.TrimSpace(req.EndTime)

	required := map[string]string{
		"userName":  req.UserName,
		"userEmail": req.UserEmail,
		"date":      req.Date,
		"startTime": req.StartTime,
		"endTime":   req.EndTime,
	}
	for field, value := range required {
		if value == "" {
			return nil, domain.ValidationError{Field: field, Msg: "required"}
		}
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	weekday, err := domain.IsWeekday(req.Date)
	if err != nil {
		return nil, err
	}
	if !weekday {
		return nil, domain.ValidationError{Field: "date", Msg: "bookings are only available on weekdays (Monday-Friday)"}
	}

	if !validSlotTimes(req.StartTime, req.EndTime) {
		return nil, domain.ValidationError{Field: "startTime", Msg: "booking must cover exactly one HH:MM hour slot"}
	}

	subType := strings.TrimSpace(req.SubType)
	if subType == "" {
		subType = domain.SubTypeDefault
	}

	candidates := req.ResourceIDs
	if len(candidates) == 0 {
		candidates = domain.ResourcesFor(category, subType)
	}
	if len(candidates) == 0 {
		return nil, domain.ValidationError{Field: "subType", Msg: fmt.Sprintf("unknown subType %q for category %s", subType, category)}
	}

	repo := s.repo()

	if category == domain.CategoryDiscussionRoom {
		if err := s.checkConsecutiveHours(repo, req); err != nil {
			return nil, err
		}
	}

	for range candidates {
		booked, err := repo.BookedResourceIDs(req.Date, req.StartTime, category)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		taken := map[string]bool{}
		for _, id := range booked {
			taken[id] = true
		}

		pick := ""
		for _, id := range candidates {
			if !taken[id] {
				pick = id
				break
			}
		}
		if pick == "" {
			return nil, domain.ConflictError{Msg: "No available resources for this time slot"}
		}

		now := s.now()
		booking := models.Booking{
			ID:         uuid.NewString(),
			UserID:     req.UserEmail,
			UserName:   req.UserName,
			UserEmail:  req.UserEmail,
			Category:   category,
			ResourceID: pick,
			SubType:    subType,
			Date:       req.Date,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Status:     domain.StatusConfirmed,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		err = repo.Insert(booking)
		if repositories.IsDuplicateSlot(err) {
			// Lost the race for this resource; re-check with fresh state.
			utils.LogEvent(s.RequestID, "booking", "retry", "slot race on "+pick)
			continue
		}
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}

		utils.LogEvent(s.RequestID, "booking", "create",
			fmt.Sprintf("resource=%s date=%s start=%s", pick, req.Date, req.StartTime))
		return &booking, nil
	}

	return nil, domain.ConflictError{Msg: "No available resources for this time slot"}
}

func (s BookingService) checkConsecutiveHours(repo repositories.BookingRepository, req models.NewBooking) error {
	existing, err := repo.ForUserDateCategory(req.UserEmail, req.Date, domain.CategoryDiscussionRoom)
	if err != nil {
		return domain.InternalError{Err: err}
	}

	slots := make([]domain.TimeSlot, 0, len(existing))
	for _, b := range existing {
		slots = append(slots, domain.TimeSlot{Start: b.StartTime, End: b.EndTime})
	}

	hours := domain.CalculateConsecutiveHours(slots, req.StartTime, req.EndTime)
	if hours <= domain.MaxConsecutiveHours {
		return nil
	}

	parts := make([]string, 0, len(existing))
	for _, b := range existing {
		parts = append(parts, fmt.Sprintf("%s to %s", b.StartTime, b.EndTime))
	}

	msg := fmt.Sprintf("You have booked: %s. ", strings.Join(parts, " and "))
	if block := domain.LongestConsecutiveBlock(slots); block != nil {
		msg += fmt.Sprintf("Your longest consecutive booking is %d hours (%02d:00 to %02d:00). ",
			block.Hours, block.Start, block.End)
	}
	msg += fmt.Sprintf("Maximum consecutive booking for discussion rooms is %d hours.", domain.MaxConsecutiveHours)

	return domain.ConflictError{Msg: msg}
}

// ListBookings returns bookings matching the filter. Public callers see
// CONFIRMED rows only; admin listings set AnyStatus to include cancelled.
func (s BookingService) ListBookings(f models.BookingFilter) ([]models.Booking, error) {
	if f.Category != "" {
		if _, err := domain.ParseCategory(f.Category); err != nil {
			return nil, err
		}
	}
	if f.Status != "" {
		if _, err := domain.ParseBookingStatus(f.Status); err != nil {
			return nil, err
		}
	} else if !f.AnyStatus {
		f.Status = string(domain.StatusConfirmed)
	}

	out, err := s.repo().List(f)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

// CancelBooking flips the booking to CANCELLED. Unknown ids yield a nil
// booking, not an error; cancelling twice is harmless.
func (s BookingService) CancelBooking(id string) (*models.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ValidationError{Field: "id", Msg: "required"}
	}

	repo := s.repo()
	existing, err := repo.GetByID(id)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if existing == nil {
		return nil, nil
	}

	if err := repo.Cancel(id); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", "id="+id)

	return repo.GetByID(id)
}

// GetAvailability reports which start times have every resource of the
// subType taken on the given date. Partial occupancy is not reported; the
// contract is slot-level "any unit left?".
func (s BookingService) GetAvailability(date, categoryStr, subType string) (*models.Availability, error) {
	category, err := domain.ParseCategory(categoryStr)
	if err != nil {
		return nil, err
	}

	weekday, err := domain.IsWeekday(date)
	if err != nil {
		return nil, err
	}
	if !weekday {
		return nil, domain.ValidationError{Field: "date", Msg: "bookings are only available on weekdays (Monday-Friday)"}
	}

	if strings.TrimSpace(subType) == "" {
		subType = domain.SubTypeDefault
	}
	resourceIDs := domain.ResourcesFor(category, subType)
	if len(resourceIDs) == 0 {
		return nil, domain.ValidationError{Field: "subType", Msg: fmt.Sprintf("unknown subType %q for category %s", subType, category)}
	}
	inSubType := map[string]bool{}
	for _, id := range resourceIDs {
		inSubType[id] = true
	}

	bookings, err := s.repo().ForDateCategory(date, category)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}

	byTime := map[string]map[string]bool{}
	for _, b := range bookings {
		if !inSubType[b.ResourceID] {
			continue
		}
		if byTime[b.StartTime] == nil {
			byTime[b.StartTime] = map[string]bool{}
		}
		byTime[b.StartTime][b.ResourceID] = true
	}

	booked := []string{}
	for t, resources := range byTime {
		if len(resources) >= len(resourceIDs) {
			booked = append(booked, t)
		}
	}
	sort.Strings(booked)

	return &models.Availability{
		Date:           date,
		Category:       string(category),
		SubType:        subType,
		TotalResources: len(resourceIDs),
		BookedSlots:    booked,
	}, nil
}
