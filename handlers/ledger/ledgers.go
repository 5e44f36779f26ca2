package ledger

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/services"
	"github.com/SanmishaTech/jssp-sub003/utils/dates"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/response"
	"github.com/SanmishaTech/jssp-sub003/utils/validation"
)

// LedgerHandler handles cash ledger requests (bank and peticash)
type LedgerHandler struct {
	db        *gorm.DB
	service   *services.LedgerService
	validator *validation.Validator
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(db *gorm.DB, service *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		db:        db,
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateLedgerRequest represents the request body for creating a ledger
type CreateLedgerRequest struct {
	InstituteID uint   `json:"institute_id" validate:"required,min=1"`
	Kind        string `json:"kind" validate:"required,oneof=bank peticash"`
	Name        string `json:"name" validate:"required,min=2,max=255"`
	TotalAmount string `json:"total_amount" validate:"required"`
	Note        string `json:"note" validate:"omitempty,max=255"`
	NoteAmount  string `json:"note_amount" validate:"omitempty"`
}

// RecordTransactionRequest represents the request body for recording a movement
type RecordTransactionRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=credit debit"`
	Description string `json:"description" validate:"required,min=2,max=255"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// LedgerResponse is a ledger together with its derived available balance
type LedgerResponse struct {
	model.Ledger
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// ListLedgers handles GET /api/v1/ledgers
func (h *LedgerHandler) ListLedgers(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	kind := c.Query("kind", "")

	query := h.db.Model(&model.Ledger{})

	if user.InstituteID != nil {
		query = query.Where("institute_id = ?", *user.InstituteID)
	} else if instituteID := c.Query("institute_id", ""); instituteID != "" {
		query = query.Where("institute_id = ?", instituteID)
	}
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count ledgers")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var ledgers []model.Ledger
	if err := query.Order("kind ASC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&ledgers).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch ledgers")
	}

	out := make([]LedgerResponse, 0, len(ledgers))
	for _, l := range ledgers {
		out = append(out, LedgerResponse{Ledger: l, AvailableBalance: l.AvailableBalance()})
	}

	return response.Paginated(c, out, pagination)
}

// GetLedger handles GET /api/v1/ledgers/:id
func (h *LedgerHandler) GetLedger(c *fiber.Ctx) error {
	id := c.Params("id")

	var ledger model.Ledger
	if err := h.db.First(&ledger, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Ledger not found")
		}
		return response.InternalServerError(c, "Failed to fetch ledger")
	}

	return response.Success(c, LedgerResponse{Ledger: ledger, AvailableBalance: ledger.AvailableBalance()})
}

// CreateLedger handles POST /api/v1/ledgers
func (h *LedgerHandler) CreateLedger(c *fiber.Ctx) error {
	var req CreateLedgerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil || totalAmount.IsNegative() {
		return response.ValidationFieldErrors(c, map[string]string{"total_amount": "TotalAmount must be a non-negative decimal"})
	}

	noteAmount := decimal.Zero
	if req.NoteAmount != "" {
		noteAmount, err = decimal.NewFromString(req.NoteAmount)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"note_amount": "NoteAmount must be a decimal"})
		}
	}

	var institute model.Institute
	if err := h.db.First(&institute, req.InstituteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to verify institute")
	}

	ledger := model.Ledger{
		InstituteID: req.InstituteID,
		Kind:        model.LedgerKind(req.Kind),
		Name:        validation.SanitizeString(req.Name),
		TotalAmount: totalAmount,
		TotalSpend:  decimal.Zero,
		Note:        req.Note,
		NoteAmount:  noteAmount,
	}

	if err := h.db.Create(&ledger).Error; err != nil {
		return response.InternalServerError(c, "Failed to create ledger")
	}

	return response.Created(c, LedgerResponse{Ledger: ledger, AvailableBalance: ledger.AvailableBalance()})
}

// RecordTransaction handles POST /api/v1/ledgers/:id/transactions
func (h *LedgerHandler) RecordTransaction(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	ledgerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ledger id")
	}

	var req RecordTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return response.ValidationFieldErrors(c, map[string]string{"amount": "Amount must be a decimal"})
	}

	date := dates.Today()
	if req.Date != "" {
		date, err = dates.Parse(req.Date)
		if err != nil {
			return response.ValidationFieldErrors(c, map[string]string{"date": "Invalid date format, expected YYYY-MM-DD"})
		}
	}

	created, err := h.service.RecordTransaction(c.UserContext(), services.RecordTransactionRequest{
		LedgerID:    uint(ledgerID),
		Amount:      amount,
		Type:        model.TransactionType(req.Type),
		Description: validation.SanitizeString(req.Description),
		Date:        date,
		CreatedBy:   user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLedgerNotFound):
			return response.NotFound(c, "Ledger not found")
		case errors.Is(err, services.ErrInsufficientBalance):
			return response.InsufficientBalance(c, "Debit amount exceeds the available balance")
		case errors.Is(err, services.ErrAmountNotPositive):
			return response.ValidationFieldErrors(c, map[string]string{"amount": "Amount must be greater than zero"})
		case errors.Is(err, services.ErrAmountTooLarge):
			return response.ValidationFieldErrors(c, map[string]string{"amount": "Amount exceeds the maximum allowed per transaction"})
		case errors.Is(err, services.ErrConcurrentUpdate):
			return response.Conflict(c, "Ledger was modified concurrently, please retry")
		default:
			return response.InternalServerError(c, "Failed to record transaction")
		}
	}

	return response.Created(c, created)
}

// ListTransactions handles GET /api/v1/ledgers/:id/transactions
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	ledgerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ledger id")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	transactions, total, err := h.service.ListTransactions(c.UserContext(), services.ListTransactionsOptions{
		LedgerID: uint(ledgerID),
		Type:     c.Query("type", ""),
		Date:     c.Query("date", ""),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		if errors.Is(err, services.ErrLedgerNotFound) {
			return response.NotFound(c, "Ledger not found")
		}
		return response.InternalServerError(c, "Failed to fetch transactions")
	}

	return response.Paginated(c, transactions, response.CalculatePagination(page, limit, total))
}
