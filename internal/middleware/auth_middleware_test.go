package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haruyama/pos-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupAuthMiddlewareTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	authMiddleware := NewAuthMiddleware(testSecret)

	router := gin.New()
	router.GET("/protected", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		name, _ := GetUserName(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "name": name})
	})
	router.GET("/admin-only",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole("admin"),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return router
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	tokens, err := util.GenerateTokenPair(1, "cashier01", role, testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_ValidToken(t *testing.T) {
	router := setupAuthMiddlewareTest(t)

	w := get(router, "/protected", tokenFor(t, "staff"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cashier01")
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	router := setupAuthMiddlewareTest(t)

	w := get(router, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	router := setupAuthMiddlewareTest(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	router := setupAuthMiddlewareTest(t)

	w := get(router, "/protected", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	router := setupAuthMiddlewareTest(t)

	tokens, err := util.GenerateTokenPair(1, "cashier01", "staff", testSecret, time.Nanosecond, time.Hour)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	w := get(router, "/protected", tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	router := setupAuthMiddlewareTest(t)

	w := get(router, "/admin-only", tokenFor(t, "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_StaffRejected(t *testing.T) {
	router := setupAuthMiddlewareTest(t)

	w := get(router, "/admin-only", tokenFor(t, "staff"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHZ_ADMIN_ONLY")
}
