package handlers_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/candyline/sweet-shop/internal/handlers"
	"github.com/candyline/sweet-shop/internal/hash"
	authmw "github.com/candyline/sweet-shop/internal/middleware/auth"
	"github.com/candyline/sweet-shop/internal/models"
	"github.com/candyline/sweet-shop/internal/service"
	httpserver "github.com/candyline/sweet-shop/internal/transport/http"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Sweet{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)

	authService := &service.AuthService{DB: db, JWTSecret: []byte("test_secret")}
	inventoryService := &service.InventoryService{DB: db}

	e := echo.New()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(slog.Default())
	e.Validator = handlers.NewValidator()

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  &handlers.AuthHandler{Auth: authService},
		SweetHandler: &handlers.SweetHandler{Inventory: inventoryService},
		TokenMW:      &authmw.TokenMiddleware{Auth: authService},
	})

	return &testEnv{T: t, E: e, DB: db}
}

func (env *testEnv) doJSON(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// userToken registers a regular user over HTTP and returns its token.
func userToken(t *testing.T, env *testEnv) string {
	rec := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "user@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// adminToken seeds an admin row directly and logs in through the API.
func adminToken(t *testing.T, env *testEnv) string {
	passwordHash, err := hash.HashPassword("admin_password")
	require.NoError(t, err)
	require.NoError(t, env.DB.Create(&models.User{
		Email:        "admin@example.com",
		PasswordHash: passwordHash,
		Role:         "admin",
	}).Error)

	rec := env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin_password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "admin", resp.Role)
	return resp.Token
}
