package handlers

import (
	"net/http"

	"intima-backend/internal/domain/models"
	"intima-backend/internal/http/middleware"
	"intima-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{RequestID: middleware.GetRequestID(c)}
}

// CreateBooking reserves the first free resource for the requested slot.
// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req models.NewBooking
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := bookingService(c).CreateBooking(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookings returns CONFIRMED bookings with optional exact-match filters.
// GET /api/bookings?date=&category=&userEmail=
func ListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Date:      c.Query("date"),
		Category:  c.Query("category"),
		UserEmail: c.Query("userEmail"),
	}

	bookings, err := bookingService(c).ListBookings(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetAvailability reports fully-booked start times for a date/category/subType.
// GET /api/bookings/availability?date=&category=&subType=
func GetAvailability(c *gin.Context) {
	date := c.Query("date")
	category := c.Query("category")
	if date == "" || category == "" {
		RespondError(c, http.StatusBadRequest, "date and category are required", nil)
		return
	}

	availability, err := bookingService(c).GetAvailability(date, category, c.Query("subType"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.JSON(http.StatusOK, availability)
}

// AdminListBookings returns bookings of every status for the admin panel.
// GET /api/admin/bookings?date=&category=&status=&userEmail=
func AdminListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Date:        c.Query("date"),
		Category:    c.Query("category"),
		UserEmail:   c.Query("userEmail"),
		Status:      c.Query("status"),
		AnyStatus:   true,
		NewestFirst: true,
	}

	bookings, err := bookingService(c).ListBookings(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// AdminCancelBooking cancels a booking by id.
// DELETE /api/admin/bookings/:id
func AdminCancelBooking(c *gin.Context) {
	booking, err := bookingService(c).CancelBooking(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if booking == nil {
		RespondError(c, http.StatusNotFound, "booking not found", nil)
		return
	}
	c.JSON(http.StatusOK, booking)
}
