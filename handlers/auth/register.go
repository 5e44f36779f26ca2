package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/auth"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required,oneof=admin staff viewer"`
	InstituteID *uint  `json:"institute_id" validate:"omitempty,min=1"`
}

// Register creates a new user account. Admin-gated at the route level so
// panel accounts are provisioned, never self-registered.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Email = validation.SanitizeString(req.Email)

	if ok, msgs := validation.ValidatePassword(req.Password); !ok {
		return response.ValidationFieldErrors(c, map[string]string{"password": msgs[0]})
	}

	// Duplicate check
	var existing model.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.Conflict(c, "User with this email already exists")
	}

	// Non-admin accounts must belong to an institute
	if req.Role != model.RoleAdmin {
		if req.InstituteID == nil {
			return response.ValidationFieldErrors(c, map[string]string{"institute_id": "InstituteID is required for non-admin accounts"})
		}
		var institute model.Institute
		if err := h.db.First(&institute, *req.InstituteID).Error; err != nil {
			return response.NotFound(c, "Institute not found")
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to hash password")
	}

	user := model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		InstituteID:  req.InstituteID,
		IsActive:     true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	return response.Created(c, UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		InstituteID: user.InstituteID,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	})
}
