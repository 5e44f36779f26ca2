package institute

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// InstituteHandler handles institute-related requests
type InstituteHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewInstituteHandler creates a new institute handler
func NewInstituteHandler(db *gorm.DB) *InstituteHandler {
	return &InstituteHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateInstituteRequest represents the request body for creating an institute
type CreateInstituteRequest struct {
	Name          string `json:"name" validate:"required,min=3,max=255"`
	Code          string `json:"code" validate:"required,min=2,max=20"`
	Address       string `json:"address" validate:"omitempty,max=1000"`
	City          string `json:"city" validate:"omitempty,max=100"`
	ContactPerson string `json:"contact_person" validate:"omitempty,max=255"`
	ContactEmail  string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone  string `json:"contact_phone" validate:"omitempty,max=20"`
}

// UpdateInstituteRequest represents the request body for updating an institute
type UpdateInstituteRequest struct {
	Name          string `json:"name" validate:"omitempty,min=3,max=255"`
	Address       string `json:"address" validate:"omitempty,max=1000"`
	City          string `json:"city" validate:"omitempty,max=100"`
	ContactPerson string `json:"contact_person" validate:"omitempty,max=255"`
	ContactEmail  string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone  string `json:"contact_phone" validate:"omitempty,max=20"`
	IsActive      *bool  `json:"is_active"`
}

// ListInstitutes handles GET /api/v1/institutes
func (h *InstituteHandler) ListInstitutes(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Institute{})

	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ? OR city ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count institutes")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var institutes []model.Institute
	if err := query.Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&institutes).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch institutes")
	}

	return response.Paginated(c, institutes, pagination)
}

// GetInstitute handles GET /api/v1/institutes/:id
func (h *InstituteHandler) GetInstitute(c *fiber.Ctx) error {
	id := c.Params("id")

	var institute model.Institute
	if err := h.db.Preload("Divisions").First(&institute, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to fetch institute")
	}

	return response.Success(c, institute)
}

// CreateInstitute handles POST /api/v1/institutes
func (h *InstituteHandler) CreateInstitute(c *fiber.Ctx) error {
	var req CreateInstituteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Code = validation.SanitizeString(req.Code)

	var existing model.Institute
	if err := h.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Institute with this code already exists")
	}

	institute := model.Institute{
		Name:          req.Name,
		Code:          req.Code,
		Address:       req.Address,
		City:          req.City,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		IsActive:      true,
	}

	if err := h.db.Create(&institute).Error; err != nil {
		return response.InternalServerError(c, "Failed to create institute")
	}

	return response.Created(c, institute)
}

// UpdateInstitute handles PUT /api/v1/institutes/:id
func (h *InstituteHandler) UpdateInstitute(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateInstituteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var institute model.Institute
	if err := h.db.First(&institute, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to fetch institute")
	}

	if req.Name != "" {
		institute.Name = validation.SanitizeString(req.Name)
	}
	if req.Address != "" {
		institute.Address = req.Address
	}
	if req.City != "" {
		institute.City = req.City
	}
	if req.ContactPerson != "" {
		institute.ContactPerson = req.ContactPerson
	}
	if req.ContactEmail != "" {
		institute.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != "" {
		institute.ContactPhone = req.ContactPhone
	}
	if req.IsActive != nil {
		institute.IsActive = *req.IsActive
	}

	if err := h.db.Save(&institute).Error; err != nil {
		return response.InternalServerError(c, "Failed to update institute")
	}

	return response.Success(c, institute)
}

// DeleteInstitute handles DELETE /api/v1/institutes/:id
func (h *InstituteHandler) DeleteInstitute(c *fiber.Ctx) error {
	id := c.Params("id")

	var institute model.Institute
	if err := h.db.First(&institute, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to fetch institute")
	}

	if err := h.db.Delete(&institute).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete institute")
	}

	return response.SuccessWithMessage(c, "Institute deleted successfully", nil)
}
