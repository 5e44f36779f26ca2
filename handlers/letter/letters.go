package letter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/pdfvalidation"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/storage"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// LetterHandler handles the inward/outward letter register
type LetterHandler struct {
	db        *gorm.DB
	storage   *storage.Client
	validator *validation.Validator
}

// NewLetterHandler creates a new letter handler. storageClient may be nil
// when object storage is not configured.
func NewLetterHandler(db *gorm.DB, storageClient *storage.Client) *LetterHandler {
	return &LetterHandler{
		db:        db,
		storage:   storageClient,
		validator: validation.NewValidator(),
	}
}

// CreateLetterRequest represents the multipart form fields for registering
// a letter; the scanned document arrives in the "file" part.
type CreateLetterRequest struct {
	InstituteID uint   `form:"institute_id" validate:"required,min=1"`
	Kind        string `form:"kind" validate:"required,oneof=inward outward"`
	ReferenceNo string `form:"reference_no" validate:"required,min=2,max=50"`
	Subject     string `form:"subject" validate:"required,min=2,max=255"`
	Sender      string `form:"sender" validate:"omitempty,max=255"`
	Recipient   string `form:"recipient" validate:"omitempty,max=255"`
	LetterDate  string `form:"letter_date" validate:"required,datetime=2006-01-02"`
}

// ListLetters handles GET /api/v1/letters
func (h *LetterHandler) ListLetters(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	kind := c.Query("kind", "")
	search := c.Query("search", "")

	query := h.db.Model(&model.Letter{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if search != "" {
		query = query.Where("subject ILIKE ? OR reference_no ILIKE ? OR sender ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count letters")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var letters []model.Letter
	if err := query.Order("letter_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&letters).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch letters")
	}

	return response.Paginated(c, letters, pagination)
}

// GetLetter handles GET /api/v1/letters/:id
func (h *LetterHandler) GetLetter(c *fiber.Ctx) error {
	id := c.Params("id")

	var letter model.Letter
	if err := h.db.First(&letter, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Letter not found")
		}
		return response.InternalServerError(c, "Failed to fetch letter")
	}

	return response.Success(c, letter)
}

// CreateLetter handles POST /api/v1/letters with a multipart PDF upload
func (h *LetterHandler) CreateLetter(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateLetterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	letterDate, err := dates.Parse(req.LetterDate)
	if err != nil {
		return response.ValidationFieldErrors(c, map[string]string{"letter_date": "Invalid date format, expected YYYY-MM-DD"})
	}

	var institute model.Institute
	if err := h.db.First(&institute, req.InstituteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to verify institute")
	}

	var existing model.Letter
	if err := h.db.Where("reference_no = ?", req.ReferenceNo).First(&existing).Error; err == nil {
		return response.Conflict(c, "Letter with this reference number already exists")
	}

	letter := model.Letter{
		InstituteID: req.InstituteID,
		Kind:        req.Kind,
		ReferenceNo: validation.SanitizeString(req.ReferenceNo),
		Subject:     validation.SanitizeString(req.Subject),
		Sender:      req.Sender,
		Recipient:   req.Recipient,
		LetterDate:  letterDate,
		UploadedBy:  user.ID,
	}

	// The scanned document is optional; when present it must pass PDF checks
	if file, err := c.FormFile("file"); err == nil && file != nil {
		if h.storage == nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "Object storage is not configured", "STORAGE_UNAVAILABLE")
		}

		result, err := pdfvalidation.ValidatePDFFile(file, pdfvalidation.LetterLimits)
		if err != nil {
			return response.InternalServerError(c, "Failed to validate PDF")
		}
		if !result.Valid {
			return response.ValidationFieldErrors(c, map[string]string{"file": result.Error})
		}

		src, err := file.Open()
		if err != nil {
			return response.InternalServerError(c, "Failed to read uploaded file")
		}
		defer src.Close()

		key := fmt.Sprintf("letters/%d/%s/%s.pdf", req.InstituteID, req.Kind, uuid.New().String())
		if err := h.storage.Upload(c.UserContext(), key, src, "application/pdf"); err != nil {
			return response.InternalServerError(c, "Failed to store document")
		}
		letter.FileKey = key
	}

	if err := h.db.Create(&letter).Error; err != nil {
		return response.InternalServerError(c, "Failed to register letter")
	}

	return response.Created(c, letter)
}

// GetDownloadURL handles GET /api/v1/letters/:id/download
func (h *LetterHandler) GetDownloadURL(c *fiber.Ctx) error {
	if h.storage == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Object storage is not configured", "STORAGE_UNAVAILABLE")
	}

	id := c.Params("id")

	var letter model.Letter
	if err := h.db.First(&letter, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Letter not found")
		}
		return response.InternalServerError(c, "Failed to fetch letter")
	}

	if letter.FileKey == "" {
		return response.NotFound(c, "Letter has no attached document")
	}

	url, err := h.storage.PresignedURL(letter.FileKey, 15*time.Minute)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate download URL")
	}

	return response.Success(c, fiber.Map{"url": url, "expires_in": 15 * 60})
}

// DeleteLetter handles DELETE /api/v1/letters/:id
func (h *LetterHandler) DeleteLetter(c *fiber.Ctx) error {
	id := c.Params("id")

	var letter model.Letter
	if err := h.db.First(&letter, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Letter not found")
		}
		return response.InternalServerError(c, "Failed to fetch letter")
	}

	if letter.FileKey != "" && h.storage != nil {
		// Best effort; the register row is the source of truth
		_ = h.storage.Delete(c.UserContext(), letter.FileKey)
	}

	if err := h.db.Delete(&letter).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete letter")
	}

	return response.SuccessWithMessage(c, "Letter deleted successfully", nil)
}
