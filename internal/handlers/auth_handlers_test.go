package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/candyline/sweet-shop/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "test@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "test@example.com").First(&user).Error)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "password", user.PasswordHash)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "test@example.com",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"password": "password",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"email":    "test@example.com",
		"password": "password",
	}
	rec := env.doJSON(http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "email already exists", resp["error"])

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	userToken(t, env)

	rec := env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	require.Equal(t, "user", resp["role"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	userToken(t, env)

	recWrongPassword := env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	}, "")
	recUnknownEmail := env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	}, "")

	require.Equal(t, http.StatusBadRequest, recWrongPassword.Code)
	require.Equal(t, http.StatusBadRequest, recUnknownEmail.Code)
	require.JSONEq(t, recWrongPassword.Body.String(), recUnknownEmail.Body.String())
}
