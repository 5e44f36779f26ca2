package staff

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

// StaffHandler handles staff-related requests
type StaffHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateStaffRequest represents the request body for creating a staff member
type CreateStaffRequest struct {
	InstituteID   uint   `json:"institute_id" validate:"required,min=1"`
	EmployeeCode  string `json:"employee_code" validate:"required,min=2,max=50"`
	Name          string `json:"name" validate:"required,min=2,max=255"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=20"`
	Designation   string `json:"designation" validate:"omitempty,max=100"`
	Department    string `json:"department" validate:"omitempty,max=100"`
	DateOfJoining string `json:"date_of_joining" validate:"omitempty,datetime=2006-01-02"`
	IsTeaching    *bool  `json:"is_teaching"`
}

// UpdateStaffRequest represents the request body for updating a staff member
type UpdateStaffRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	Designation string `json:"designation" validate:"omitempty,max=100"`
	Department  string `json:"department" validate:"omitempty,max=100"`
	IsTeaching  *bool  `json:"is_teaching"`
	Status      string `json:"status" validate:"omitempty,oneof=active resigned retired"`
}

// ListStaff handles GET /api/v1/staff
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	department := c.Query("department", "")
	status := c.Query("status", "")

	query := h.db.Model(&model.Staff{})

	// Institute-bound accounts only see their own institute's staff
	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}

	if search != "" {
		query = query.Where("name ILIKE ? OR employee_code ILIKE ? OR email ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if department != "" {
		query = query.Where("department = ?", department)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count staff")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var staff []model.Staff
	if err := query.Preload("Institute").
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch staff")
	}

	return response.Paginated(c, staff, pagination)
}

// GetStaff handles GET /api/v1/staff/:id
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	id := c.Params("id")

	var staff model.Staff
	if err := h.db.Preload("Institute").First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff member")
	}

	return response.Success(c, staff)
}

// CreateStaff handles POST /api/v1/staff
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	req.Name = validation.SanitizeString(req.Name)
	req.EmployeeCode = validation.SanitizeString(req.EmployeeCode)

	var institute model.Institute
	if err := h.db.First(&institute, req.InstituteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to verify institute")
	}

	var existing model.Staff
	if err := h.db.Where("employee_code = ?", req.EmployeeCode).First(&existing).Error; err == nil {
		return response.Conflict(c, "Staff member with this employee code already exists")
	}

	staff := model.Staff{
		InstituteID:  req.InstituteID,
		EmployeeCode: req.EmployeeCode,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Designation:  req.Designation,
		Department:   req.Department,
		IsTeaching:   true,
		Status:       "active",
	}
	if req.IsTeaching != nil {
		staff.IsTeaching = *req.IsTeaching
	}
	if req.DateOfJoining != "" {
		doj, err := dates.Parse(req.DateOfJoining)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"date_of_joining": "Invalid date format, expected YYYY-MM-DD"})
		}
		staff.DateOfJoining = doj
	}

	if err := h.db.Create(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to create staff member")
	}

	return response.Created(c, staff)
}

// UpdateStaff handles PUT /api/v1/staff/:id
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var staff model.Staff
	if err := h.db.First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff member")
	}

	if req.Name != "" {
		staff.Name = validation.SanitizeString(req.Name)
	}
	if req.Email != "" {
		staff.Email = req.Email
	}
	if req.Phone != "" {
		staff.Phone = req.Phone
	}
	if req.Designation != "" {
		staff.Designation = req.Designation
	}
	if req.Department != "" {
		staff.Department = req.Department
	}
	if req.IsTeaching != nil {
		staff.IsTeaching = *req.IsTeaching
	}
	if req.Status != "" {
		staff.Status = req.Status
	}

	if err := h.db.Save(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to update staff member")
	}

	return response.Success(c, staff)
}

// DeleteStaff handles DELETE /api/v1/staff/:id
func (h *StaffHandler) DeleteStaff(c *fiber.Ctx) error {
	id := c.Params("id")

	var staff model.Staff
	if err := h.db.First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff member")
	}

	if err := h.db.Delete(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete staff member")
	}

	return response.SuccessWithMessage(c, "Staff member deleted successfully", nil)
}
