package holiday

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SanmishaTech/jssp-sub003/model"
	"github.com/SanmishaTech/jssp-sub003/utils/auth"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
)

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	jwtManager *auth.JWTManager
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
		&model.Holiday{},
		&model.WeeklyHoliday{},
	))

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "jssp-institute-api",
	})

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	handler := NewHolidayHandler(db)

	app := fiber.New()
	app.Get("/api/v1/calendar_holidays", authMiddleware.Required(), handler.GetCalendarHolidays)

	return testEnv{app: app, db: db, jwtManager: jwtManager}
}

func (e testEnv) seedUser(t *testing.T, email string, instituteID *uint) string {
	t.Helper()

	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         email,
		Role:         model.RoleStaff,
		InstituteID:  instituteID,
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(&user).Error)

	token, _, err := e.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role, user.InstituteID, user.TokenVersion)
	require.NoError(t, err)
	return token
}

func (e testEnv) getCalendar(t *testing.T, token, query string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar_holidays"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func mustDate(t *testing.T, s string) datatypes.Date {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return datatypes.Date(parsed)
}

func TestGetCalendarHolidaysScopedUser(t *testing.T) {
	env := setupTestEnv(t)

	mine := model.Institute{Name: "Mine", Code: "MIN", IsActive: true}
	other := model.Institute{Name: "Other", Code: "OTH", IsActive: true}
	require.NoError(t, env.db.Create(&mine).Error)
	require.NoError(t, env.db.Create(&other).Error)

	require.NoError(t, env.db.Create(&model.Holiday{
		InstituteID: mine.ID,
		Title:       "New Year Break",
		FromDate:    mustDate(t, "2024-01-01"),
		ToDate:      mustDate(t, "2024-01-03"),
	}).Error)
	require.NoError(t, env.db.Create(&model.Holiday{
		InstituteID: other.ID,
		Title:       "Foundation Day",
		FromDate:    mustDate(t, "2024-02-01"),
		ToDate:      mustDate(t, "2024-02-01"),
	}).Error)
	require.NoError(t, env.db.Create(&model.WeeklyHoliday{InstituteID: mine.ID, DayOfWeek: 0}).Error)
	require.NoError(t, env.db.Create(&model.WeeklyHoliday{InstituteID: other.ID, DayOfWeek: 5}).Error)

	token := env.seedUser(t, "scoped@example.com", &mine.ID)

	status, body := env.getCalendar(t, token, "")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	regular := data["regular_holidays"].([]interface{})
	weekly := data["weekly_holidays"].([]interface{})

	require.Len(t, regular, 1)
	assert.Equal(t, "New Year Break", regular[0].(map[string]interface{})["title"])
	require.Len(t, weekly, 1)
	assert.Equal(t, float64(0), weekly[0].(map[string]interface{})["day_of_week"])
}

func TestGetCalendarHolidaysUnscopedUser(t *testing.T) {
	env := setupTestEnv(t)

	institute := model.Institute{Name: "Mine", Code: "MIN", IsActive: true}
	require.NoError(t, env.db.Create(&institute).Error)
	require.NoError(t, env.db.Create(&model.Holiday{
		InstituteID: institute.ID,
		Title:       "New Year Break",
		FromDate:    mustDate(t, "2024-01-01"),
		ToDate:      mustDate(t, "2024-01-03"),
	}).Error)
	require.NoError(t, env.db.Create(&model.WeeklyHoliday{InstituteID: institute.ID, DayOfWeek: 0}).Error)

	token := env.seedUser(t, "super@example.com", nil)

	// Without a filter the unscoped user sees everything
	status, body := env.getCalendar(t, token, "")
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["regular_holidays"].([]interface{}), 1)
	assert.Len(t, data["weekly_holidays"].([]interface{}), 1)

	// An explicit institute filter narrows the result
	status, body = env.getCalendar(t, token, "?institute_id=999")
	require.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]interface{})
	assert.Empty(t, data["regular_holidays"])
	assert.Empty(t, data["weekly_holidays"])
}
