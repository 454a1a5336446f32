package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haruyama/pos-backend/internal/app/service"
	apperrors "github.com/haruyama/pos-backend/internal/errors"
	"github.com/haruyama/pos-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type CheckoutRequest struct {
	Payment int64 `json:"payment" binding:"min=0"`
}

// Confirm commits the session cart as a cash sale
// POST /api/v1/checkout
func (ctrl *CheckoutController) Confirm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	result, err := ctrl.checkoutService.Confirm(c.Request.Context(), sessionID, req.Payment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientPayment):
			apperrors.UnprocessableEntity(c, apperrors.CheckoutInsufficientPayment, "Payment amount is less than the total")
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.UnprocessableEntity(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.Conflict(c, apperrors.CheckoutInsufficientStock, err.Error())
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, err.Error())
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"session_id": sessionID,
			})
			apperrors.InternalError(c, "Checkout failed")
		}
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"session_id": sessionID,
		"orders":     len(result.Orders),
		"total":      result.Total,
	})

	c.JSON(http.StatusCreated, result)
}
