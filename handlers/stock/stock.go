package stock

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

// StockHandler handles products and their stock ledger rows
type StockHandler struct {
	db        *gorm.DB
	service   *services.StockService
	validator *validation.Validator
}

// NewStockHandler creates a new stock handler
func NewStockHandler(db *gorm.DB, service *services.StockService) *StockHandler {
	return &StockHandler{
		db:        db,
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	InstituteID uint    `json:"institute_id" validate:"required,min=1"`
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Unit        string  `json:"unit" validate:"omitempty,max=20"`
	OpeningQty  float64 `json:"opening_qty" validate:"omitempty,gte=0"`
}

// CreateMovementRequest represents the request body for a stock ledger row
type CreateMovementRequest struct {
	TDate    string  `json:"t_date" validate:"required,datetime=2006-01-02"`
	Received float64 `json:"received" validate:"omitempty,gte=0"`
	Issued   float64 `json:"issued" validate:"omitempty,gte=0"`
	Remarks  string  `json:"remarks" validate:"omitempty,max=255"`
}

// UpdateMovementRequest represents the request body for updating a stock ledger row
type UpdateMovementRequest struct {
	TDate    string  `json:"t_date" validate:"omitempty,datetime=2006-01-02"`
	Received float64 `json:"received" validate:"omitempty,gte=0"`
	Issued   float64 `json:"issued" validate:"omitempty,gte=0"`
	Remarks  string  `json:"remarks" validate:"omitempty,max=255"`
}

// ListProducts handles GET /api/v1/products
func (h *StockHandler) ListProducts(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Product{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count products")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var products []model.Product
	if err := query.Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch products")
	}

	return response.Paginated(c, products, pagination)
}

// GetProduct handles GET /api/v1/products/:id
func (h *StockHandler) GetProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var product model.Product
	if err := h.db.First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to fetch product")
	}

	return response.Success(c, product)
}

// CreateProduct handles POST /api/v1/products
func (h *StockHandler) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
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

	product := model.Product{
		InstituteID: req.InstituteID,
		Name:        validation.SanitizeString(req.Name),
		Unit:        req.Unit,
		OpeningQty:  req.OpeningQty,
		ClosingQty:  req.OpeningQty, // no movements yet
	}

	if err := h.db.Create(&product).Error; err != nil {
		return response.InternalServerError(c, "Failed to create product")
	}

	return response.Created(c, product)
}

// ListMovements handles GET /api/v1/products/:id/movements
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	var product model.Product
	if err := h.db.First(&product, uint(productID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to fetch product")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := h.db.Model(&model.StockLedger{}).Where("product_id = ?", product.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count movements")
	}

	var rows []model.StockLedger
	if err := query.Order("t_date DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch movements")
	}

	return response.Paginated(c, rows, response.CalculatePagination(page, limit, total))
}

// CreateMovement handles POST /api/v1/products/:id/movements
func (h *StockHandler) CreateMovement(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	var req CreateMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	if req.Received == 0 && req.Issued == 0 {
		return response.ValidationFieldErrors(c, map[string]string{"received": "Either received or issued must be non-zero"})
	}

	tDate, err := dates.Parse(req.TDate)
	if err != nil {
		return response.ValidationFieldErrors(c, map[string]string{"t_date": "Invalid date format, expected YYYY-MM-DD"})
	}

	row := model.StockLedger{
		ProductID: uint(productID),
		TDate:     tDate,
		Received:  req.Received,
		Issued:    req.Issued,
		Remarks:   validation.SanitizeString(req.Remarks),
	}

	if err := h.service.AddMovement(c.UserContext(), &row); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to record stock movement")
	}

	return response.Created(c, row)
}

// UpdateMovement handles PUT /api/v1/stock-movements/:id
func (h *StockHandler) UpdateMovement(c *fiber.Ctx) error {
	rowID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid movement id")
	}

	var req UpdateMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	svcReq := services.UpdateMovementRequest{
		Received: req.Received,
		Issued:   req.Issued,
		Remarks:  validation.SanitizeString(req.Remarks),
	}
	if req.TDate != "" {
		tDate, err := dates.Parse(req.TDate)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"t_date": "Invalid date format, expected YYYY-MM-DD"})
		}
		svcReq.TDate = &tDate
	}

	row, err := h.service.UpdateMovement(c.UserContext(), uint(rowID), svcReq)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Stock movement not found")
		}
		return response.InternalServerError(c, "Failed to update stock movement")
	}

	return response.Success(c, row)
}

// DeleteMovement handles DELETE /api/v1/stock-movements/:id
func (h *StockHandler) DeleteMovement(c *fiber.Ctx) error {
	rowID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid movement id")
	}

	if err := h.service.DeleteMovement(c.UserContext(), uint(rowID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Stock movement not found")
		}
		return response.InternalServerError(c, "Failed to delete stock movement")
	}

	return response.SuccessWithMessage(c, "Stock movement deleted successfully", nil)
}

// RecalculateClosing handles POST /api/v1/products/:id/recalculate
func (h *StockHandler) RecalculateClosing(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	closing, err := h.service.RecalculateClosingQty(c.UserContext(), uint(productID))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to recalculate closing quantity")
	}

	return response.Success(c, fiber.Map{"closing_qty": closing})
}
