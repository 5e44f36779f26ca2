package attendance

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/services"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// AttendanceHandler handles attendance marking and roster requests
type AttendanceHandler struct {
	db        *gorm.DB
	service   *services.AttendanceService
	validator *validation.Validator
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(db *gorm.DB, service *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		db:        db,
		service:   service,
		validator: validation.NewValidator(),
	}
}

// SaveAttendanceRequest represents the request body for saving attendance
type SaveAttendanceRequest struct {
	DivisionID uint                      `json:"division_id" validate:"required,min=1"`
	Date       string                    `json:"date" validate:"required,datetime=2006-01-02"`
	SubjectID  *uint                     `json:"subject_id" validate:"omitempty,min=1"`
	SlotID     *uint                     `json:"slot_id" validate:"omitempty,min=1"`
	TimeSlot   string                    `json:"time_slot" validate:"omitempty,max=50"`
	Attendance []services.AttendanceMark `json:"attendance" validate:"required,min=1,dive"`
}

// SaveAttendance handles POST /api/v1/attendance/save
func (h *AttendanceHandler) SaveAttendance(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req SaveAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	date, err := dates.Parse(req.Date)
	if err != nil {
		return response.ValidationFieldErrors(c, map[string]string{"date": "Invalid date format, expected YYYY-MM-DD"})
	}

	saved, err := h.service.SaveAttendance(c.UserContext(), services.SaveAttendanceRequest{
		DivisionID: req.DivisionID,
		Date:       date,
		SubjectID:  req.SubjectID,
		SlotID:     req.SlotID,
		TimeSlot:   req.TimeSlot,
		Marks:      req.Attendance,
		MarkedBy:   user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDivisionNotFound):
			return response.NotFound(c, "Division not found")
		case errors.Is(err, services.ErrHolidayDate):
			return response.BadRequest(c, "Attendance cannot be recorded on a holiday")
		default:
			return response.InternalServerError(c, "Failed to save attendance")
		}
	}

	return response.SuccessWithMessage(c, "Attendance saved successfully", fiber.Map{"saved": saved})
}

// GetRoster handles GET /api/v1/attendance
func (h *AttendanceHandler) GetRoster(c *fiber.Ctx) error {
	divisionID, err := strconv.ParseUint(c.Query("division_id", ""), 10, 32)
	if err != nil || divisionID == 0 {
		return response.BadRequest(c, "division_id query parameter is required")
	}

	date, err := dates.Parse(c.Query("date", ""))
	if err != nil {
		return response.BadRequest(c, "date query parameter is required in YYYY-MM-DD format")
	}

	req := services.RosterRequest{
		DivisionID: uint(divisionID),
		Date:       date,
		TimeSlot:   c.Query("time_slot", ""),
	}
	if v := c.Query("subject_id", ""); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid subject_id")
		}
		subjectID := uint(id)
		req.SubjectID = &subjectID
	}
	if v := c.Query("slot_id", ""); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid slot_id")
		}
		slotID := uint(id)
		req.SlotID = &slotID
	}

	roster, holiday, err := h.service.Roster(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, services.ErrDivisionNotFound) {
			return response.NotFound(c, "Division not found")
		}
		return response.InternalServerError(c, "Failed to fetch roster")
	}

	return response.Success(c, fiber.Map{
		"roster":  roster,
		"holiday": holiday,
	})
}
