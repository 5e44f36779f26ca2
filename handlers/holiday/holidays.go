package holiday

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// HolidayHandler handles the institute holiday calendar
type HolidayHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewHolidayHandler creates a new holiday handler
func NewHolidayHandler(db *gorm.DB) *HolidayHandler {
	return &HolidayHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateHolidayRequest represents the request body for a date-range holiday
type CreateHolidayRequest struct {
	InstituteID uint   `json:"institute_id" validate:"required,min=1"`
	Title       string `json:"title" validate:"required,min=2,max=255"`
	FromDate    string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate      string `json:"to_date" validate:"required,datetime=2006-01-02"`
}

// CreateWeeklyHolidayRequest represents the request body for a weekly holiday
type CreateWeeklyHolidayRequest struct {
	InstituteID uint `json:"institute_id" validate:"required,min=1"`
	DayOfWeek   *int `json:"day_of_week" validate:"required,min=0,max=6"` // 0 = Sunday
}

// GetCalendarHolidays handles GET /api/v1/calendar_holidays
func (h *HolidayHandler) GetCalendarHolidays(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	// Each Find gets its own query chain; a shared chain would carry the
	// first Find's clauses into the second model's statement.
	instituteScope := func(db *gorm.DB) *gorm.DB {
		if user.InstituteID != nil {
			return db.Where("institute_id = ?", *user.InstituteID)
		}
		if instituteID := c.Query("institute_id", ""); instituteID != "" {
			return db.Where("institute_id = ?", instituteID)
		}
		return db
	}

	var regular []model.Holiday
	if err := h.db.Scopes(instituteScope).Order("from_date ASC").Find(&regular).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch holidays")
	}

	var weekly []model.WeeklyHoliday
	if err := h.db.Scopes(instituteScope).Order("day_of_week ASC").Find(&weekly).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch weekly holidays")
	}

	return response.Success(c, fiber.Map{
		"regular_holidays": regular,
		"weekly_holidays":  weekly,
	})
}

// CreateHoliday handles POST /api/v1/holidays
func (h *HolidayHandler) CreateHoliday(c *fiber.Ctx) error {
	var req CreateHolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	fromDate, err := dates.Parse(req.FromDate)
	if err != nil {
		return response.ValidationFieldErrors(c, map[string]string{"from_date": "Invalid date format, expected YYYY-MM-DD"})
	}
	toDate, err := dates.Parse(req.ToDate)
	if err != nil {
		return response.ValidationFieldErrors(c, map[string]string{"to_date": "Invalid date format, expected YYYY-MM-DD"})
	}
	if dates.Time(fromDate).After(dates.Time(toDate)) {
		return response.ValidationFieldErrors(c, map[string]string{"to_date": "ToDate must not be before FromDate"})
	}

	var institute model.Institute
	if err := h.db.First(&institute, req.InstituteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to verify institute")
	}

	holiday := model.Holiday{
		InstituteID: req.InstituteID,
		Title:       validation.SanitizeString(req.Title),
		FromDate:    fromDate,
		ToDate:      toDate,
	}

	if err := h.db.Create(&holiday).Error; err != nil {
		return response.InternalServerError(c, "Failed to create holiday")
	}

	return response.Created(c, holiday)
}

// DeleteHoliday handles DELETE /api/v1/holidays/:id
func (h *HolidayHandler) DeleteHoliday(c *fiber.Ctx) error {
	id := c.Params("id")

	var holiday model.Holiday
	if err := h.db.First(&holiday, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Holiday not found")
		}
		return response.InternalServerError(c, "Failed to fetch holiday")
	}

	if err := h.db.Delete(&holiday).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete holiday")
	}

	return response.SuccessWithMessage(c, "Holiday deleted successfully", nil)
}

// CreateWeeklyHoliday handles POST /api/v1/holidays/weekly
func (h *HolidayHandler) CreateWeeklyHoliday(c *fiber.Ctx) error {
	var req CreateWeeklyHolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var institute model.Institute
	if err := h.db.First(&institute, req.InstituteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to verify institute")
	}

	var existing model.WeeklyHoliday
	err := h.db.Where("institute_id = ? AND day_of_week = ?", req.InstituteID, *req.DayOfWeek).
		First(&existing).Error
	if err == nil {
		return response.Conflict(c, "Weekly holiday already exists for this day")
	}

	weekly := model.WeeklyHoliday{
		InstituteID: req.InstituteID,
		DayOfWeek:   *req.DayOfWeek,
	}

	if err := h.db.Create(&weekly).Error; err != nil {
		return response.InternalServerError(c, "Failed to create weekly holiday")
	}

	return response.Created(c, weekly)
}

// DeleteWeeklyHoliday handles DELETE /api/v1/holidays/weekly/:id
func (h *HolidayHandler) DeleteWeeklyHoliday(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid weekly holiday id")
	}

	var weekly model.WeeklyHoliday
	if err := h.db.First(&weekly, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Weekly holiday not found")
		}
		return response.InternalServerError(c, "Failed to fetch weekly holiday")
	}

	if err := h.db.Delete(&weekly).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete weekly holiday")
	}

	return response.SuccessWithMessage(c, "Weekly holiday deleted successfully", nil)
}
