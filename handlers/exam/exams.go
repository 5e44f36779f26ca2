package exam

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

// ExamHandler handles exam calendar requests
type ExamHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewExamHandler creates a new exam handler
func NewExamHandler(db *gorm.DB) *ExamHandler {
	return &ExamHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateExamRequest represents the request body for creating an exam
type CreateExamRequest struct {
	InstituteID uint   `json:"institute_id" validate:"required,min=1"`
	DivisionID  *uint  `json:"division_id" validate:"omitempty,min=1"`
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Subject     string `json:"subject" validate:"omitempty,max=150"`
	ExamDate    string `json:"exam_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Venue       string `json:"venue" validate:"omitempty,max=150"`
}

// UpdateExamRequest represents the request body for updating an exam
type UpdateExamRequest struct {
	Title     string `json:"title" validate:"omitempty,min=2,max=255"`
	Subject   string `json:"subject" validate:"omitempty,max=150"`
	ExamDate  string `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Venue     string `json:"venue" validate:"omitempty,max=150"`
}

// ListExams handles GET /api/v1/exams
func (h *ExamHandler) ListExams(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Exam{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}
	if divisionID := c.Query("division_id", ""); divisionID != "" {
		query = query.Where("division_id = ?", divisionID)
	}
	if from := c.Query("from", ""); from != "" {
		query = query.Where("exam_date >= ?", from)
	}
	if to := c.Query("to", ""); to != "" {
		query = query.Where("exam_date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count exams")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var exams []model.Exam
	if err := query.Preload("Division").
		Order("exam_date ASC, start_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&exams).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch exams")
	}

	return response.Paginated(c, exams, pagination)
}

// GetExam handles GET /api/v1/exams/:id
func (h *ExamHandler) GetExam(c *fiber.Ctx) error {
	id := c.Params("id")

	var exam model.Exam
	if err := h.db.Preload("Division").First(&exam, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Exam not found")
		}
		return response.InternalServerError(c, "Failed to fetch exam")
	}

	return response.Success(c, exam)
}

// CreateExam handles POST /api/v1/exams
func (h *ExamHandler) CreateExam(c *fiber.Ctx) error {
	var req CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	examDate, err := dates.Parse(req.ExamDate)
	if err != nil {
		return response.ValidationFieldErrors(c, map[string]string{"exam_date": "Invalid date format, expected YYYY-MM-DD"})
	}

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
	}

	exam := model.Exam{
		InstituteID: req.InstituteID,
		DivisionID:  req.DivisionID,
		Title:       validation.SanitizeString(req.Title),
		Subject:     req.Subject,
		ExamDate:    examDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       req.Venue,
	}

	if err := h.db.Create(&exam).Error; err != nil {
		return response.InternalServerError(c, "Failed to create exam")
	}

	return response.Created(c, exam)
}

// UpdateExam handles PUT /api/v1/exams/:id
func (h *ExamHandler) UpdateExam(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var exam model.Exam
	if err := h.db.First(&exam, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Exam not found")
		}
		return response.InternalServerError(c, "Failed to fetch exam")
	}

	if req.Title != "" {
		exam.Title = validation.SanitizeString(req.Title)
	}
	if req.Subject != "" {
		exam.Subject = req.Subject
	}
	if req.ExamDate != "" {
		examDate, err := dates.Parse(req.ExamDate)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"exam_date": "Invalid date format, expected YYYY-MM-DD"})
		}
		exam.ExamDate = examDate
	}
	if req.StartTime != "" {
		exam.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		exam.EndTime = req.EndTime
	}
	if req.Venue != "" {
		exam.Venue = req.Venue
	}

	if err := h.db.Save(&exam).Error; err != nil {
		return response.InternalServerError(c, "Failed to update exam")
	}

	return response.Success(c, exam)
}

// DeleteExam handles DELETE /api/v1/exams/:id
func (h *ExamHandler) DeleteExam(c *fiber.Ctx) error {
	id := c.Params("id")

	var exam model.Exam
	if err := h.db.First(&exam, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Exam not found")
		}
		return response.InternalServerError(c, "Failed to fetch exam")
	}

	if err := h.db.Delete(&exam).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete exam")
	}

	return response.SuccessWithMessage(c, "Exam deleted successfully", nil)
}
