package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/internal/app/service"
	"github.com/haruyama/pos-backend/internal/app/session"
	"github.com/haruyama/pos-backend/internal/db"
	"github.com/haruyama/pos-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*gin.Engine, *model.Product, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	store := session.NewMemoryCartStore()
	cartService := service.NewCartService(store, productRepo)
	checkoutService := service.NewCheckoutService(testDB, store, cartService)

	cartCtrl := NewCartController(cartService)
	checkoutCtrl := NewCheckoutController(checkoutService)

	product := &model.Product{
		Name:  "Americano",
		Price: 3000,
		Stock: 10,
		Options: []model.ProductOption{
			{Name: "Large", Price: 500},
		},
	}
	require.NoError(t, testDB.Create(product).Error)

	router := gin.New()
	router.Use(middleware.SessionMiddleware())
	router.GET("/cart", cartCtrl.GetCart)
	router.POST("/cart/lines", cartCtrl.AddLine)
	router.PUT("/cart/lines/:index", cartCtrl.UpdateLine)
	router.DELETE("/cart/lines/:index", cartCtrl.RemoveLine)
	router.DELETE("/cart", cartCtrl.ClearCart)
	router.POST("/checkout", checkoutCtrl.Confirm)

	return router, product, testDB
}

func doJSON(router *gin.Engine, method, path, sessionID string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartController_SessionIDIsMintedWhenMissing(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "GET", "/cart", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.SessionHeader))
}

func TestCartController_SessionIDIsEchoed(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "GET", "/cart", "register-7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "register-7", w.Header().Get(middleware.SessionHeader))
}

func TestCartController_AddLine(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/cart/lines", "s1", AddLineRequest{
		ProductID: product.ID,
		OptionIDs: []uint{product.Options[0].ID},
		Quantity:  2,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, float64(7000), response["total"])
}

func TestCartController_AddLine_UnknownProduct(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/cart/lines", "s1", AddLineRequest{ProductID: 9999, Quantity: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_UpdateAndRemoveLine(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/cart/lines", "s1", AddLineRequest{ProductID: product.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "PUT", "/cart/lines/0", "s1", UpdateLineRequest{Quantity: 4})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(12000), response["total"])

	w = doJSON(router, "DELETE", "/cart/lines/0", "s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
}

func TestCartController_UpdateLine_BadIndex(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "PUT", "/cart/lines/abc", "s1", UpdateLineRequest{Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "PUT", "/cart/lines/5", "s1", UpdateLineRequest{Quantity: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutController_Confirm(t *testing.T) {
	router, product, testDB := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/cart/lines", "s1", AddLineRequest{ProductID: product.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/checkout", "s1", CheckoutRequest{Payment: 10000})
	assert.Equal(t, http.StatusCreated, w.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, float64(6000), result["total"])
	assert.Equal(t, float64(4000), result["change"])

	var stored model.Product
	require.NoError(t, testDB.First(&stored, product.ID).Error)
	assert.Equal(t, 8, stored.Stock)
}

func TestCheckoutController_Confirm_InsufficientPayment(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/cart/lines", "s1", AddLineRequest{ProductID: product.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/checkout", "s1", CheckoutRequest{Payment: 100})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CHECKOUT_INSUFFICIENT_PAYMENT", response["error"])
}

func TestCheckoutController_Confirm_EmptyCart(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/checkout", "s1", CheckoutRequest{Payment: 1000})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CART_EMPTY", response["error"])
}
