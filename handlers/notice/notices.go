package notice

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/services"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/pdfvalidation"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/storage"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// NoticeHandler handles institute notices and their fan-out
type NoticeHandler struct {
	db            *gorm.DB
	notifications *services.NotificationService
	storage       *storage.Client
	validator     *validation.Validator
}

// NewNoticeHandler creates a new notice handler. storageClient may be nil
// when object storage is not configured; attachment uploads then fail with
// an explicit error instead of at startup.
func NewNoticeHandler(db *gorm.DB, notifications *services.NotificationService, storageClient *storage.Client) *NoticeHandler {
	return &NoticeHandler{
		db:            db,
		notifications: notifications,
		storage:       storageClient,
		validator:     validation.NewValidator(),
	}
}

// CreateNoticeRequest represents the request body for creating a notice
type CreateNoticeRequest struct {
	InstituteID uint   `json:"institute_id" validate:"required,min=1"`
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Body        string `json:"body" validate:"required,min=2"`
	NoticeDate  string `json:"notice_date" validate:"omitempty,datetime=2006-01-02"`
	Audience    string `json:"audience" validate:"omitempty,oneof=all staff students"`
}

// ListNotices handles GET /api/v1/notices
func (h *NoticeHandler) ListNotices(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Notice{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}
	if audience := c.Query("audience", ""); audience != "" {
		query = query.Where("audience = ?", audience)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count notices")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var notices []model.Notice
	if err := query.Order("notice_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notices).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch notices")
	}

	return response.Paginated(c, notices, pagination)
}

// GetNotice handles GET /api/v1/notices/:id
func (h *NoticeHandler) GetNotice(c *fiber.Ctx) error {
	id := c.Params("id")

	var notice model.Notice
	if err := h.db.First(&notice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Notice not found")
		}
		return response.InternalServerError(c, "Failed to fetch notice")
	}

	return response.Success(c, notice)
}

// CreateNotice handles POST /api/v1/notices. Creating a notice fans out
// one notification per user in the target audience.
func (h *NoticeHandler) CreateNotice(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateNoticeRequest
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

	notice := model.Notice{
		InstituteID: req.InstituteID,
		Title:       validation.SanitizeString(req.Title),
		Body:        req.Body,
		NoticeDate:  dates.Today(),
		Audience:    model.NoticeAudienceAll,
		CreatedBy:   user.ID,
	}
	if req.NoticeDate != "" {
		noticeDate, err := dates.Parse(req.NoticeDate)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"notice_date": "Invalid date format, expected YYYY-MM-DD"})
		}
		notice.NoticeDate = noticeDate
	}
	if req.Audience != "" {
		notice.Audience = req.Audience
	}

	if err := h.db.Create(&notice).Error; err != nil {
		return response.InternalServerError(c, "Failed to create notice")
	}

	notified, err := h.notifications.FanOutNotice(c.UserContext(), &notice)
	if err != nil {
		// The notice itself exists; report the partial failure
		return response.SuccessWithMessage(c, "Notice created but notification fan-out failed", notice)
	}

	return response.Created(c, fiber.Map{
		"notice":   notice,
		"notified": notified,
	})
}

// UploadAttachment handles POST /api/v1/notices/:id/attachment with a
// multipart PDF upload.
func (h *NoticeHandler) UploadAttachment(c *fiber.Ctx) error {
	if h.storage == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Object storage is not configured", "STORAGE_UNAVAILABLE")
	}

	id := c.Params("id")

	var notice model.Notice
	if err := h.db.First(&notice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Notice not found")
		}
		return response.InternalServerError(c, "Failed to fetch notice")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}

	result, err := pdfvalidation.ValidatePDFFile(file, pdfvalidation.NoticeLimits)
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

	key := fmt.Sprintf("notices/%d/%s.pdf", notice.InstituteID, uuid.New().String())
	if err := h.storage.Upload(c.UserContext(), key, src, "application/pdf"); err != nil {
		return response.InternalServerError(c, "Failed to store attachment")
	}

	notice.AttachmentKey = key
	if err := h.db.Save(&notice).Error; err != nil {
		return response.InternalServerError(c, "Failed to update notice")
	}

	return response.Success(c, notice)
}

// DeleteNotice handles DELETE /api/v1/notices/:id
func (h *NoticeHandler) DeleteNotice(c *fiber.Ctx) error {
	id := c.Params("id")

	var notice model.Notice
	if err := h.db.First(&notice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Notice not found")
		}
		return response.InternalServerError(c, "Failed to fetch notice")
	}

	if err := h.db.Delete(&notice).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete notice")
	}

	return response.SuccessWithMessage(c, "Notice deleted successfully", nil)
}
