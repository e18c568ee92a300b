package routes_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"requestlog-backend/database"
	"requestlog-backend/middlewares"
	"requestlog-backend/models"
	"requestlog-backend/requestlog"
	"requestlog-backend/routes"
)

// setupApp builds the full router exactly as main does, backed by a
// throwaway SQLite database so the payment handlers run for real.
func setupApp(t *testing.T) (*fiber.App, *requestlog.MemoryStore) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "routes-test-secret")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "routes.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Payment{}, &models.RequestRecord{}))
	database.DB = db

	store := requestlog.NewMemoryStore()
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	routes.Register(app, store)
	return app, store
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := middlewares.GenerateJWT(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, target, auth, key, body string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if key != "" {
		req.Header.Set(requestlog.HeaderIdempotencyKey, key)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestKeyedPaymentExecutesOnceAndReplays(t *testing.T) {
	app, store := setupApp(t)
	auth := bearerFor(t, "user-routing-1")
	body := `{"amount":12.5,"currency":"EUR","method":"card","reference":"inv-77"}`

	resp1, body1 := doJSON(t, app, fiber.MethodPost, "/api/payment", auth, "pay-key-1", body)
	require.Equal(t, fiber.StatusCreated, resp1.StatusCode, body1)

	resp2, body2 := doJSON(t, app, fiber.MethodPost, "/api/payment", auth, "pay-key-1", body)
	require.Equal(t, fiber.StatusCreated, resp2.StatusCode, body2)
	assert.Equal(t, "true", resp2.Header.Get(requestlog.HeaderIdempotentReplayed))
	assert.JSONEq(t, body1, body2)

	// The handler ran exactly once: one payment row, one stored record.
	var count int64
	require.NoError(t, database.DB.Model(&models.Payment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	records := store.All()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Key)
	assert.Equal(t, "pay-key-1", *records[0].Key)
	require.NotNil(t, records[0].UserID)
	assert.Equal(t, "user-routing-1", *records[0].UserID)
}

func TestKeylessAuthenticatedPostLogsSingleRecord(t *testing.T) {
	app, store := setupApp(t)
	auth := bearerFor(t, "user-routing-2")

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/payment", auth, "",
		`{"amount":3,"currency":"EUR","method":"sepa"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)

	records := store.All()
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Key)
}

func TestKeyedLoginRejectedBeforeHandler(t *testing.T) {
	app, store := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/login", "", "login-key",
		`{"email":"nobody@example.com","password":"pw"}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "idempotency_not_supported_error", payload["error_slug"])
	assert.Empty(t, store.All())
}

func TestRegistrationRecordAttributedToNewUser(t *testing.T) {
	app, store := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/registration", "", "",
		`{"first_name":"Ada","last_name":"L","email":"ada@example.com","password":"s3cret","password_confirm":"s3cret"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)

	records := store.All()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].UserID)

	var masked map[string]any
	require.NoError(t, json.Unmarshal(records[0].Body, &masked))
	assert.Equal(t, "*****", masked["password"])
	assert.Equal(t, "ada@example.com", masked["email"])
}
