package student

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

// StudentHandler handles student-related requests
type StudentHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateStudentRequest represents the request body for creating a student
type CreateStudentRequest struct {
	InstituteID   uint   `json:"institute_id" validate:"required,min=1"`
	DivisionID    *uint  `json:"division_id" validate:"omitempty,min=1"`
	PRN           string `json:"prn" validate:"required,min=2,max=50"`
	RollNumber    int    `json:"roll_number" validate:"omitempty,min=1"`
	Name          string `json:"name" validate:"required,min=2,max=255"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=20"`
	Gender        string `json:"gender" validate:"omitempty,max=20"`
	DateOfBirth   string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	AdmissionDate string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStudentRequest represents the request body for updating a student
type UpdateStudentRequest struct {
	DivisionID *uint  `json:"division_id" validate:"omitempty,min=1"`
	RollNumber *int   `json:"roll_number" validate:"omitempty,min=1"`
	Name       string `json:"name" validate:"omitempty,min=2,max=255"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Status     string `json:"status" validate:"omitempty,oneof=active passed_out dropped"`
}

// ListStudents handles GET /api/v1/students
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	divisionID := c.Query("division_id", "")
	status := c.Query("status", "")

	query := h.db.Model(&model.Student{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}

	if search != "" {
		query = query.Where("name ILIKE ? OR prn ILIKE ? OR email ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if divisionID != "" {
		query = query.Where("division_id = ?", divisionID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count students")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var students []model.Student
	if err := query.Preload("Division").
		Order("roll_number ASC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&students).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	return response.Paginated(c, students, pagination)
}

// GetStudent handles GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var student model.Student
	if err := h.db.Preload("Institute").Preload("Division").First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	return response.Success(c, student)
}

// CreateStudent handles POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	req.Name = validation.SanitizeString(req.Name)
	req.PRN = validation.SanitizeString(req.PRN)

	var institute model.Institute
	if err := h.db.First(&institute, req.InstituteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to verify institute")
	}

	if req.DivisionID != nil {
		var division model.Division
		if err := h.db.First(&division, *req.DivisionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Division not found")
			}
			return response.InternalServerError(c, "Failed to verify division")
		}
		if division.InstituteID != req.InstituteID {
			return response.BadRequest(c, "Division does not belong to the given institute")
		}
	}

	var existing model.Student
	if err := h.db.Where("prn = ?", req.PRN).First(&existing).Error; err == nil {
		return response.Conflict(c, "Student with this PRN already exists")
	}

	student := model.Student{
		InstituteID: req.InstituteID,
		DivisionID:  req.DivisionID,
		PRN:         req.PRN,
		RollNumber:  req.RollNumber,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Gender:      req.Gender,
		Status:      "active",
	}
	if req.DateOfBirth != "" {
		dob, err := dates.Parse(req.DateOfBirth)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"date_of_birth": "Invalid date format, expected YYYY-MM-DD"})
		}
		student.DateOfBirth = dob
	}
	if req.AdmissionDate != "" {
		ad, err := dates.Parse(req.AdmissionDate)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"admission_date": "Invalid date format, expected YYYY-MM-DD"})
		}
		student.AdmissionDate = ad
	}

	if err := h.db.Create(&student).Error; err != nil {
		return response.InternalServerError(c, "Failed to create student")
	}

	return response.Created(c, student)
}

// UpdateStudent handles PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	if req.DivisionID != nil {
		var division model.Division
		if err := h.db.First(&division, *req.DivisionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Division not found")
			}
			return response.InternalServerError(c, "Failed to verify division")
		}
		if division.InstituteID != student.InstituteID {
			return response.BadRequest(c, "Division does not belong to the student's institute")
		}
		student.DivisionID = req.DivisionID
	}
	if req.RollNumber != nil {
		student.RollNumber = *req.RollNumber
	}
	if req.Name != "" {
		student.Name = validation.SanitizeString(req.Name)
	}
	if req.Email != "" {
		student.Email = req.Email
	}
	if req.Phone != "" {
		student.Phone = req.Phone
	}
	if req.Status != "" {
		student.Status = req.Status
	}

	if err := h.db.Save(&student).Error; err != nil {
		return response.InternalServerError(c, "Failed to update student")
	}

	return response.Success(c, student)
}

// DeleteStudent handles DELETE /api/v1/students/:id
func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	if err := h.db.Delete(&student).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete student")
	}

	return response.SuccessWithMessage(c, "Student deleted successfully", nil)
}
