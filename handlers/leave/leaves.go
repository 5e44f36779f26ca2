package leave

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/services"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// LeaveHandler handles staff leave applications
type LeaveHandler struct {
	db        *gorm.DB
	service   *services.LeaveService
	validator *validation.Validator
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(db *gorm.DB, service *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{
		db:        db,
		service:   service,
		validator: validation.NewValidator(),
	}
}

// ApplyLeaveRequest represents the request body for filing a leave application
type ApplyLeaveRequest struct {
	StaffID   uint   `json:"staff_id" validate:"required,min=1"`
	LeaveType string `json:"leave_type" validate:"required,oneof=casual medical earned unpaid"`
	FromDate  string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate    string `json:"to_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"omitempty,max=2000"`
}

// DecideLeaveRequest represents the request body for an approve/reject decision
type DecideLeaveRequest struct {
	Remark string `json:"remark" validate:"omitempty,max=255"`
}

// ListLeaves handles GET /api/v1/leaves
func (h *LeaveHandler) ListLeaves(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	status := c.Query("status", "")
	staffID := c.Query("staff_id", "")

	query := h.db.Model(&model.Leave{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count leaves")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var leaves []model.Leave
	if err := query.Preload("Staff").Preload("Approver").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&leaves).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch leaves")
	}

	return response.Paginated(c, leaves, pagination)
}

// GetLeave handles GET /api/v1/leaves/:id
func (h *LeaveHandler) GetLeave(c *fiber.Ctx) error {
	id := c.Params("id")

	var leave model.Leave
	if err := h.db.Preload("Staff").Preload("Approver").First(&leave, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Leave not found")
		}
		return response.InternalServerError(c, "Failed to fetch leave")
	}

	return response.Success(c, leave)
}

// ApplyLeave handles POST /api/v1/leaves
func (h *LeaveHandler) ApplyLeave(c *fiber.Ctx) error {
	var req ApplyLeaveRequest
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

	leave := model.Leave{
		StaffID:   req.StaffID,
		LeaveType: req.LeaveType,
		FromDate:  fromDate,
		ToDate:    toDate,
		Reason:    validation.SanitizeString(req.Reason),
	}

	if err := h.service.Apply(c.UserContext(), &leave); err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			return response.ValidationFieldErrors(c, map[string]string{"to_date": "ToDate must not be before FromDate"})
		}
		if err.Error() == "staff not found" {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to file leave application")
	}

	return response.Created(c, leave)
}

// ApproveLeave handles POST /api/v1/leaves/:id/approve
func (h *LeaveHandler) ApproveLeave(c *fiber.Ctx) error {
	return h.decide(c, true)
}

// RejectLeave handles POST /api/v1/leaves/:id/reject
func (h *LeaveHandler) RejectLeave(c *fiber.Ctx) error {
	return h.decide(c, false)
}

func (h *LeaveHandler) decide(c *fiber.Ctx, approve bool) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	leaveID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid leave id")
	}

	var req DecideLeaveRequest
	// Body is optional for decisions
	_ = c.BodyParser(&req)

	leave, err := h.service.Decide(c.UserContext(), uint(leaveID), user.ID, approve, validation.SanitizeString(req.Remark))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeaveNotFound):
			return response.NotFound(c, "Leave not found")
		case errors.Is(err, services.ErrLeaveAlreadyDecided):
			return response.Conflict(c, "Leave has already been decided")
		default:
			return response.InternalServerError(c, "Failed to decide leave")
		}
	}

	return response.Success(c, leave)
}
