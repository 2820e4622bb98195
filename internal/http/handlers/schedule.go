package handlers

import (
	"net/http"

	"intima-backend/internal/domain"
	"intima-backend/internal/domain/models"
	"intima-backend/internal/http/middleware"
	"intima-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func scheduleService(c *gin.Context) services.ScheduleService {
	return services.ScheduleService{RequestID: middleware.GetRequestID(c)}
}

// GetSchedule serves members, slots, or session labels depending on ?type=.
// GET /api/schedule?type=members|slots|sessions&session=
func GetSchedule(c *gin.Context) {
	svc := scheduleService(c)
	session := c.Query("session")

	switch c.Query("type") {
	case "sessions":
		sessions, err := svc.Sessions()
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessions)
	case "slots":
		if session == "" {
			RespondError(c, http.StatusBadRequest, "session is required for slots", nil)
			return
		}
		slots, err := svc.GetOrCreateScheduleSlots(session)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, slots)
	default:
		members, err := svc.ListMemberSchedules(session)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}

type schedulePostRequest struct {
	Action string `json:"action"`

	// member upsert
	Name     string                 `json:"name"`
	Session  string                 `json:"session"`
	Schedule *domain.WeeklySchedule `json:"schedule"`

	// action=create
	Day             string   `json:"day"`
	Start           string   `json:"start"`
	End             string   `json:"end"`
	AssignedMembers []string `json:"assignedMembers"`
}

// PostSchedule creates a member schedule or runs a named action
// (randomize, clear, create), mirroring the single schedule endpoint the
// frontend talks to.
// POST /api/schedule
func PostSchedule(c *gin.Context) {
	var req schedulePostRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := scheduleService(c)

	switch req.Action {
	case "randomize":
		if req.Session == "" {
			RespondError(c, http.StatusBadRequest, "session is required for randomization", nil)
			return
		}
		slots, err := svc.RandomizeSchedule(req.Session)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, slots)
		return
	case "clear":
		if req.Session == "" {
			RespondError(c, http.StatusBadRequest, "session is required for clearing", nil)
			return
		}
		if err := svc.ClearAllSlots(req.Session); err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	case "create":
		slot, err := svc.CreateScheduleSlot(req.Day, req.Start, req.End, req.Session, req.AssignedMembers)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, slot)
		return
	}

	var schedule domain.WeeklySchedule
	if req.Schedule != nil {
		schedule = *req.Schedule
	}
	member, err := svc.UpsertMemberSchedule(req.Name, req.Session, schedule)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// GetMemberSchedule fetches one member schedule by id.
// GET /api/schedule/:id
func GetMemberSchedule(c *gin.Context) {
	member, err := scheduleService(c).GetMemberSchedule(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if member == nil {
		RespondError(c, http.StatusNotFound, "schedule not found", nil)
		return
	}
	c.JSON(http.StatusOK, member)
}

// PatchMemberSchedule applies a partial update to a member schedule.
// PATCH /api/schedule/:id
func PatchMemberSchedule(c *gin.Context) {
	var patch models.MemberSchedulePatch
	if !BindJSONOrError(c, &patch) {
		return
	}

	member, err := scheduleService(c).UpdateMemberSchedule(c.Param("id"), patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if member == nil {
		RespondError(c, http.StatusNotFound, "schedule not found", nil)
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteMemberSchedule removes a member schedule.
// DELETE /api/schedule/:id
func DeleteMemberSchedule(c *gin.Context) {
	found, err := scheduleService(c).DeleteMemberSchedule(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !found {
		RespondError(c, http.StatusNotFound, "schedule not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type slotPatchRequest struct {
	AssignedMembers []string `json:"assignedMembers"`
}

// PatchScheduleSlot replaces a slot's assigned-member list.
// PATCH /api/schedule/slots/:slotId
func PatchScheduleSlot(c *gin.Context) {
	var req slotPatchRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.AssignedMembers == nil {
		RespondError(c, http.StatusBadRequest, "assignedMembers must be an array", nil)
		return
	}

	slot, err := scheduleService(c).UpdateScheduleSlot(c.Param("slotId"), req.AssignedMembers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if slot == nil {
		RespondError(c, http.StatusNotFound, "slot not found", nil)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// GetAvailableMembers lists members free for a slot window.
// GET /api/schedule/available?session=&day=&start=&end=
func GetAvailableMembers(c *gin.Context) {
	session := c.Query("session")
	day := c.Query("day")
	start := c.Query("start")
	end := c.Query("end")
	if session == "" || day == "" || start == "" || end == "" {
		RespondError(c, http.StatusBadRequest, "missing required parameters: session, day, start, end", nil)
		return
	}

	members, err := scheduleService(c).AvailableMembers(session, day, start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// GetRosterPDF streams the duty roster of a session as a PDF.
// GET /api/admin/schedule/roster.pdf?session=
func GetRosterPDF(c *gin.Context) {
	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateRoster(c.Query("session"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
