package api

import (
	"log"
	stdhttp "net/http"

	intconfig "intima-backend/internal/config"
	h "intima-backend/internal/http/handlers"
	"intima-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Facility bookings
		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/availability", h.GetAvailability)

		// Duty schedule
		schedule := api.Group("/schedule")
		schedule.GET("", h.GetSchedule)
		schedule.POST("", h.PostSchedule)
		schedule.GET("/available", h.GetAvailableMembers)
		schedule.GET("/:id", h.GetMemberSchedule)
		schedule.PATCH("/:id", h.PatchMemberSchedule)
		schedule.DELETE("/:id", h.DeleteMemberSchedule)
		schedule.PATCH("/slots/:slotId", h.PatchScheduleSlot)

		// Admin
		admin := api.Group("/admin")
		admin.POST("/login", h.AdminLogin)
		admin.POST("/logout", h.AdminLogout)

		guarded := admin.Group("")
		guarded.Use(middleware.AdminAuth(env.SessionSecret))
		guarded.GET("/bookings", h.AdminListBookings)
		guarded.DELETE("/bookings/:id", h.AdminCancelBooking)
		guarded.GET("/schedule/roster.pdf", h.GetRosterPDF)
	}

	return r
}
