package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haruyama/pos-backend/config"
	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/internal/app/service"
	"github.com/haruyama/pos-backend/internal/db"
	"github.com/haruyama/pos-backend/internal/middleware"
	"github.com/haruyama/pos-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	attemptRepo := repository.NewLoginAttemptRepository(testDB)

	jwtCfg := &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	authCfg := &config.AuthConfig{AttemptLimit: 3, BlockTime: time.Hour}

	authService := service.NewAuthService(userRepo, attemptRepo, jwtCfg, authCfg)
	userService := service.NewUserService(userRepo)
	ctrl := NewAuthController(authService, userService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, testDB.Create(&model.User{
		Name:         "cashier01",
		PasswordHash: hash,
		Role:         model.RoleStaff,
		IsActive:     true,
	}).Error)

	router := gin.New()
	router.POST("/login", ctrl.Login)
	router.POST("/refresh", ctrl.Refresh)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.Me)

	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Login_Success(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", LoginRequest{Name: "cashier01", Password: "password123"})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotNil(t, response["user"])
	assert.NotEmpty(t, response["access_token"])
	assert.NotEmpty(t, response["refresh_token"])
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", LoginRequest{Name: "cashier01", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", response["error"])
}

func TestAuthController_Login_MissingFields(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", map[string]string{"name": "cashier01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Login_BlockedAfterRepeatedFailures(t *testing.T) {
	router := setupAuthControllerTest(t)

	for i := 0; i < 3; i++ {
		w := postJSON(router, "/login", LoginRequest{Name: "cashier01", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := postJSON(router, "/login", LoginRequest{Name: "cashier01", Password: "password123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_TOO_MANY_ATTEMPTS", response["error"])
}

func TestAuthController_Refresh(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", LoginRequest{Name: "cashier01", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var login map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = postJSON(router, "/refresh", RefreshRequest{RefreshToken: login["refresh_token"].(string)})
	assert.Equal(t, http.StatusOK, w.Code)

	var refreshed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed["access_token"])
}

func TestAuthController_Refresh_InvalidToken(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/refresh", RefreshRequest{RefreshToken: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_Me(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", LoginRequest{Name: "cashier01", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var login map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login["access_token"].(string))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "cashier01", user["name"])
}

func TestAuthController_Me_WithoutToken(t *testing.T) {
	router := setupAuthControllerTest(t)

	req := httptest.NewRequest("GET", "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthController_Me_RefreshTokenRejected(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, "/login", LoginRequest{Name: "cashier01", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var login map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login["refresh_token"].(string))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
