package division

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// DivisionHandler handles division-related requests
type DivisionHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewDivisionHandler creates a new division handler
func NewDivisionHandler(db *gorm.DB) *DivisionHandler {
	return &DivisionHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateDivisionRequest represents the request body for creating a division
type CreateDivisionRequest struct {
	InstituteID uint   `json:"institute_id" validate:"required,min=1"`
	CourseName  string `json:"course_name" validate:"required,min=2,max=100"`
	Year        int    `json:"year" validate:"required,min=1,max=6"`
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Capacity    int    `json:"capacity" validate:"omitempty,min=1,max=500"`
}

// UpdateDivisionRequest represents the request body for updating a division
type UpdateDivisionRequest struct {
	CourseName string `json:"course_name" validate:"omitempty,min=2,max=100"`
	Year       *int   `json:"year" validate:"omitempty,min=1,max=6"`
	Name       string `json:"name" validate:"omitempty,min=1,max=50"`
	Capacity   *int   `json:"capacity" validate:"omitempty,min=1,max=500"`
}

// ListDivisions handles GET /api/v1/divisions
func (h *DivisionHandler) ListDivisions(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	year := c.Query("year", "")

	query := h.db.Model(&model.Division{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}
	if year != "" {
		query = query.Where("year = ?", year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count divisions")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var divisions []model.Division
	if err := query.Order("course_name ASC, year ASC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&divisions).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch divisions")
	}

	return response.Paginated(c, divisions, pagination)
}

// GetDivision handles GET /api/v1/divisions/:id
func (h *DivisionHandler) GetDivision(c *fiber.Ctx) error {
	id := c.Params("id")

	var division model.Division
	if err := h.db.Preload("Students", "status = ?", "active").First(&division, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Division not found")
		}
		return response.InternalServerError(c, "Failed to fetch division")
	}

	return response.Success(c, division)
}

// CreateDivision handles POST /api/v1/divisions
func (h *DivisionHandler) CreateDivision(c *fiber.Ctx) error {
	var req CreateDivisionRequest
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

	// One division per (institute, course, year, name)
	var existing model.Division
	err := h.db.Where("institute_id = ? AND course_name = ? AND year = ? AND name = ?",
		req.InstituteID, req.CourseName, req.Year, req.Name).First(&existing).Error
	if err == nil {
		return response.Conflict(c, "Division already exists for this course and year")
	}

	division := model.Division{
		InstituteID: req.InstituteID,
		CourseName:  validation.SanitizeString(req.CourseName),
		Year:        req.Year,
		Name:        validation.SanitizeString(req.Name),
		Capacity:    60,
	}
	if req.Capacity > 0 {
		division.Capacity = req.Capacity
	}

	if err := h.db.Create(&division).Error; err != nil {
		return response.InternalServerError(c, "Failed to create division")
	}

	return response.Created(c, division)
}

// UpdateDivision handles PUT /api/v1/divisions/:id
func (h *DivisionHandler) UpdateDivision(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var division model.Division
	if err := h.db.First(&division, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Division not found")
		}
		return response.InternalServerError(c, "Failed to fetch division")
	}

	if req.CourseName != "" {
		division.CourseName = validation.SanitizeString(req.CourseName)
	}
	if req.Year != nil {
		division.Year = *req.Year
	}
	if req.Name != "" {
		division.Name = validation.SanitizeString(req.Name)
	}
	if req.Capacity != nil {
		division.Capacity = *req.Capacity
	}

	if err := h.db.Save(&division).Error; err != nil {
		return response.InternalServerError(c, "Failed to update division")
	}

	return response.Success(c, division)
}

// DeleteDivision handles DELETE /api/v1/divisions/:id
func (h *DivisionHandler) DeleteDivision(c *fiber.Ctx) error {
	id := c.Params("id")

	var division model.Division
	if err := h.db.First(&division, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Division not found")
		}
		return response.InternalServerError(c, "Failed to fetch division")
	}

	// Refuse deletion while students are still assigned
	var studentCount int64
	if err := h.db.Model(&model.Student{}).Where("division_id = ?", division.ID).Count(&studentCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check division students")
	}
	if studentCount > 0 {
		return response.Conflict(c, "Division still has students assigned")
	}

	if err := h.db.Delete(&division).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete division")
	}

	return response.SuccessWithMessage(c, "Division deleted successfully", nil)
}
