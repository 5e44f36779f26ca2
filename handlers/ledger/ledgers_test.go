package ledger

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/services"
	"github.com/SanmishaTech/jssp-sub003/utils/auth"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	token string
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.JWTTokenBlacklist{},
		&model.Institute{},
		&model.Ledger{},
		&model.LedgerTransaction{},
	))

	institute := model.Institute{Name: "Test Institute", Code: "TST", IsActive: true}
	require.NoError(t, db.Create(&institute).Error)

	admin := model.User{
		Email:        "admin@example.com",
		PasswordHash: "x",
		Name:         "Admin",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&admin).Error)

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "jssp-institute-api",
	})
	token, _, err := jwtManager.GenerateAccessToken(admin.ID, admin.Email, admin.Role, nil, admin.TokenVersion)
	require.NoError(t, err)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	handler := NewLedgerHandler(db, services.NewLedgerService(db))

	app := fiber.New()
	ledgers := app.Group("/api/v1/ledgers", authMiddleware.Required())
	ledgers.Get("/", handler.ListLedgers)
	ledgers.Post("/", handler.CreateLedger)
	ledgers.Get("/:id", handler.GetLedger)
	ledgers.Post("/:id/transactions", handler.RecordTransaction)
	ledgers.Get("/:id/transactions", handler.ListTransactions)

	return testEnv{app: app, db: db, token: token}
}

func (e testEnv) request(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+e.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestLedgerEndpointsRequireAuth(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledgers", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateLedgerAndTransactionsOverHTTP(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/ledgers", fiber.Map{
		"institute_id": 1,
		"kind":         "peticash",
		"name":         "Office Peticash",
		"total_amount": "1000.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "1000", data["available_balance"])
	ledgerID := "1"

	// Credit raises the balance
	resp = env.request(t, http.MethodPost, "/api/v1/ledgers/"+ledgerID+"/transactions", fiber.Map{
		"amount":      "500.00",
		"type":        "credit",
		"description": "monthly top-up",
		"date":        "2024-04-10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body = decodeBody(t, resp)
	tx := body["data"].(map[string]interface{})
	assert.Equal(t, "1500", tx["balance_after"])

	// Over-debit bounces with a 400 and the documented error code
	resp = env.request(t, http.MethodPost, "/api/v1/ledgers/"+ledgerID+"/transactions", fiber.Map{
		"amount":      "1800.00",
		"type":        "debit",
		"description": "stationery purchase",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeBody(t, resp)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "INSUFFICIENT_BALANCE", errObj["code"])

	// Spending the exact balance drains the ledger to zero
	resp = env.request(t, http.MethodPost, "/api/v1/ledgers/"+ledgerID+"/transactions", fiber.Map{
		"amount":      "1500.00",
		"type":        "debit",
		"description": "event expenses",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body = decodeBody(t, resp)
	tx = body["data"].(map[string]interface{})
	assert.Equal(t, "0", tx["balance_after"])

	// The rejected debit left no history row
	resp = env.request(t, http.MethodGet, "/api/v1/ledgers/"+ledgerID+"/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	rows := body["data"].([]interface{})
	assert.Len(t, rows, 2)

	resp = env.request(t, http.MethodGet, "/api/v1/ledgers/"+ledgerID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "0", data["available_balance"])
}

func TestRecordTransactionValidationOverHTTP(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/ledgers", fiber.Map{
		"institute_id": 1,
		"kind":         "bank",
		"name":         "Main Bank Account",
		"total_amount": "100.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Unknown type is caught by struct validation
	resp = env.request(t, http.MethodPost, "/api/v1/ledgers/1/transactions", fiber.Map{
		"amount":      "10.00",
		"type":        "transfer",
		"description": "should fail",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Non-positive amount
	resp = env.request(t, http.MethodPost, "/api/v1/ledgers/1/transactions", fiber.Map{
		"amount":      "0",
		"type":        "credit",
		"description": "should fail",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Unknown ledger
	resp = env.request(t, http.MethodPost, "/api/v1/ledgers/999/transactions", fiber.Map{
		"amount":      "10.00",
		"type":        "credit",
		"description": "should fail",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
