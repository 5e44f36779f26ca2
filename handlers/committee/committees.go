package committee

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

// CommitteeHandler handles institute committee requests
type CommitteeHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCommitteeHandler creates a new committee handler
func NewCommitteeHandler(db *gorm.DB) *CommitteeHandler {
	return &CommitteeHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCommitteeRequest represents the request body for creating a committee
type CreateCommitteeRequest struct {
	InstituteID uint   `json:"institute_id" validate:"required,min=1"`
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Purpose     string `json:"purpose" validate:"omitempty,max=2000"`
	FormedOn    string `json:"formed_on" validate:"omitempty,datetime=2006-01-02"`
}

// AddMemberRequest represents the request body for adding a committee member
type AddMemberRequest struct {
	StaffID uint   `json:"staff_id" validate:"required,min=1"`
	Role    string `json:"role" validate:"omitempty,oneof=chairperson secretary member"`
}

// ListCommittees handles GET /api/v1/committees
func (h *CommitteeHandler) ListCommittees(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Committee{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count committees")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var committees []model.Committee
	if err := query.Preload("Members.Staff").
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&committees).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch committees")
	}

	return response.Paginated(c, committees, pagination)
}

// GetCommittee handles GET /api/v1/committees/:id
func (h *CommitteeHandler) GetCommittee(c *fiber.Ctx) error {
	id := c.Params("id")

	var committee model.Committee
	if err := h.db.Preload("Members.Staff").First(&committee, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Committee not found")
		}
		return response.InternalServerError(c, "Failed to fetch committee")
	}

	return response.Success(c, committee)
}

// CreateCommittee handles POST /api/v1/committees
func (h *CommitteeHandler) CreateCommittee(c *fiber.Ctx) error {
	var req CreateCommitteeRequest
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

	committee := model.Committee{
		InstituteID: req.InstituteID,
		Name:        validation.SanitizeString(req.Name),
		Purpose:     req.Purpose,
	}
	if req.FormedOn != "" {
		formedOn, err := dates.Parse(req.FormedOn)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"formed_on": "Invalid date format, expected YYYY-MM-DD"})
		}
		committee.FormedOn = formedOn
	}

	if err := h.db.Create(&committee).Error; err != nil {
		return response.InternalServerError(c, "Failed to create committee")
	}

	return response.Created(c, committee)
}

// DeleteCommittee handles DELETE /api/v1/committees/:id
func (h *CommitteeHandler) DeleteCommittee(c *fiber.Ctx) error {
	id := c.Params("id")

	var committee model.Committee
	if err := h.db.First(&committee, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Committee not found")
		}
		return response.InternalServerError(c, "Failed to fetch committee")
	}

	if err := h.db.Delete(&committee).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete committee")
	}

	return response.SuccessWithMessage(c, "Committee deleted successfully", nil)
}

// AddMember handles POST /api/v1/committees/:id/members
func (h *CommitteeHandler) AddMember(c *fiber.Ctx) error {
	committeeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid committee id")
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var committee model.Committee
	if err := h.db.First(&committee, uint(committeeID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Committee not found")
		}
		return response.InternalServerError(c, "Failed to fetch committee")
	}

	var staff model.Staff
	if err := h.db.First(&staff, req.StaffID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff member not found")
		}
		return response.InternalServerError(c, "Failed to verify staff member")
	}
	if staff.InstituteID != committee.InstituteID {
		return response.BadRequest(c, "Staff member does not belong to the committee's institute")
	}

	var existing model.CommitteeMember
	if err := h.db.Where("committee_id = ? AND staff_id = ?", committee.ID, staff.ID).First(&existing).Error; err == nil {
		return response.Conflict(c, "Staff member is already on this committee")
	}

	member := model.CommitteeMember{
		CommitteeID: committee.ID,
		StaffID:     staff.ID,
		Role:        "member",
	}
	if req.Role != "" {
		member.Role = req.Role
	}

	if err := h.db.Create(&member).Error; err != nil {
		return response.InternalServerError(c, "Failed to add committee member")
	}

	h.db.Preload("Staff").First(&member, member.ID)

	return response.Created(c, member)
}

// RemoveMember handles DELETE /api/v1/committees/:id/members/:member_id
func (h *CommitteeHandler) RemoveMember(c *fiber.Ctx) error {
	committeeID := c.Params("id")
	memberID := c.Params("member_id")

	var member model.CommitteeMember
	if err := h.db.Where("committee_id = ?", committeeID).First(&member, memberID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Committee member not found")
		}
		return response.InternalServerError(c, "Failed to fetch committee member")
	}

	if err := h.db.Delete(&member).Error; err != nil {
		return response.InternalServerError(c, "Failed to remove committee member")
	}

	return response.SuccessWithMessage(c, "Committee member removed successfully", nil)
}
