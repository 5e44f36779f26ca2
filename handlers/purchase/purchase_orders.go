package purchase

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// PurchaseOrderHandler handles purchase order requests
type PurchaseOrderHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(db *gorm.DB) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// OrderItemRequest is one line item on a purchase order request
type OrderItemRequest struct {
	Description string  `json:"description" validate:"required,min=2,max=255"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	Unit        string  `json:"unit" validate:"omitempty,max=20"`
	Rate        string  `json:"rate" validate:"required"`
}

// CreateOrderRequest represents the request body for creating a purchase order
type CreateOrderRequest struct {
	InstituteID uint               `json:"institute_id" validate:"required,min=1"`
	OrderDate   string             `json:"order_date" validate:"required,datetime=2006-01-02"`
	VendorName  string             `json:"vendor_name" validate:"required,min=2,max=255"`
	VendorEmail string             `json:"vendor_email" validate:"omitempty,email"`
	VendorPhone string             `json:"vendor_phone" validate:"omitempty,max=20"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// DecideOrderRequest represents the request body for an approve/reject decision
type DecideOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected completed"`
	Remark string `json:"remark" validate:"omitempty,max=255"`
}

// ListOrders handles GET /api/v1/purchase-orders
func (h *PurchaseOrderHandler) ListOrders(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	status := c.Query("status", "")

	query := h.db.Model(&model.PurchaseOrder{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count purchase orders")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var orders []model.PurchaseOrder
	if err := query.Preload("Items").
		Order("order_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch purchase orders")
	}

	return response.Paginated(c, orders, pagination)
}

// GetOrder handles GET /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) GetOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	var order model.PurchaseOrder
	if err := h.db.Preload("Items").Preload("Approver").First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Purchase order not found")
		}
		return response.InternalServerError(c, "Failed to fetch purchase order")
	}

	return response.Success(c, order)
}

// CreateOrder handles POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	orderDate, err := dates.Parse(req.OrderDate)
	if err != nil {
		return response.ValidationFieldErrors(c, map[string]string{"order_date": "Invalid date format, expected YYYY-MM-DD"})
	}

	var institute model.Institute
	if err := h.db.First(&institute, req.InstituteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to verify institute")
	}

	// Build line items and the order total
	items := make([]model.PurchaseOrderItem, 0, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		rate, err := decimal.NewFromString(item.Rate)
		if err != nil || rate.IsNegative() {
			return response.ValidationFieldErrors(c, map[string]string{
				fmt.Sprintf("items[%d].rate", i): "Rate must be a non-negative decimal",
			})
		}
		amount := rate.Mul(decimal.NewFromFloat(item.Quantity)).Round(2)
		total = total.Add(amount)
		items = append(items, model.PurchaseOrderItem{
			Description: validation.SanitizeString(item.Description),
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			Rate:        rate,
			Amount:      amount,
		})
	}

	order := model.PurchaseOrder{
		InstituteID: req.InstituteID,
		OrderNo:     fmt.Sprintf("PO-%s-%d", institute.Code, time.Now().UnixNano()/int64(time.Millisecond)),
		OrderDate:   orderDate,
		VendorName:  validation.SanitizeString(req.VendorName),
		VendorEmail: req.VendorEmail,
		VendorPhone: req.VendorPhone,
		Status:      model.PurchaseOrderPending,
		Total:       total,
		Items:       items,
	}

	if err := h.db.Create(&order).Error; err != nil {
		return response.InternalServerError(c, "Failed to create purchase order")
	}

	return response.Created(c, order)
}

// DecideOrder handles PUT /api/v1/purchase-orders/:id/status. Only pending
// orders may be approved or rejected; approved orders may be completed.
func (h *PurchaseOrderHandler) DecideOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	id := c.Params("id")

	var req DecideOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var order model.PurchaseOrder
	if err := h.db.First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Purchase order not found")
		}
		return response.InternalServerError(c, "Failed to fetch purchase order")
	}

	// Legal transitions only
	switch req.Status {
	case model.PurchaseOrderApproved, model.PurchaseOrderRejected:
		if order.Status != model.PurchaseOrderPending {
			return response.Conflict(c, "Purchase order has already been decided")
		}
	case model.PurchaseOrderCompleted:
		if order.Status != model.PurchaseOrderApproved {
			return response.Conflict(c, "Only approved purchase orders can be completed")
		}
	}

	now := time.Now()
	order.Status = req.Status
	order.StatusRemark = req.Remark
	if req.Status != model.PurchaseOrderCompleted {
		order.ApprovedBy = &user.ID
		order.ApprovedAt = &now
	}

	if err := h.db.Save(&order).Error; err != nil {
		return response.InternalServerError(c, "Failed to update purchase order")
	}

	return response.Success(c, order)
}

// DeleteOrder handles DELETE /api/v1/purchase-orders/:id. Only pending
// orders can be deleted.
func (h *PurchaseOrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	var order model.PurchaseOrder
	if err := h.db.First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Purchase order not found")
		}
		return response.InternalServerError(c, "Failed to fetch purchase order")
	}

	if order.Status != model.PurchaseOrderPending {
		return response.Conflict(c, "Only pending purchase orders can be deleted")
	}

	if err := h.db.Delete(&order).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete purchase order")
	}

	return response.SuccessWithMessage(c, "Purchase order deleted successfully", nil)
}
