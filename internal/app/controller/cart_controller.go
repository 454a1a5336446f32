package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/service"
	apperrors "github.com/haruyama/pos-backend/internal/errors"
	"github.com/haruyama/pos-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddLineRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	OptionIDs []uint `json:"option_ids"`
	Quantity  int    `json:"quantity"`
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}

func cartResponse(cart *model.Cart, warnings []service.CartWarning) gin.H {
	if warnings == nil {
		warnings = []service.CartWarning{}
	}
	return gin.H{
		"cart":     cart,
		"total":    cart.Total(),
		"count":    len(cart.Lines),
		"warnings": warnings,
	}
}

// GetCart returns the session cart, synced against the catalog
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	cart, warnings, err := ctrl.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, warnings))
}

// AddLine adds a product (with options) to the session cart
// POST /api/v1/cart/lines
func (ctrl *CartController) AddLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	cart, warnings, err := ctrl.cartService.AddLine(c.Request.Context(), sessionID, req.ProductID, req.OptionIDs, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidProductOption):
			apperrors.BadRequest(c, apperrors.ProductInvalidOption, "Option does not belong to this product")
		default:
			log.Error("Failed to add to cart", err, map[string]interface{}{
				"session_id": sessionID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "Failed to add to cart")
		}
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, warnings))
}

// UpdateLine changes the quantity of a cart line; zero removes it
// PUT /api/v1/cart/lines/:index
func (ctrl *CartController) UpdateLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid line index")
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, warnings, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), sessionID, index, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartLineNotFound) {
			apperrors.NotFound(c, apperrors.CartLineNotFound, "Cart line not found")
			return
		}
		log.Error("Failed to update cart line", err, map[string]interface{}{
			"session_id": sessionID,
			"line_index": index,
		})
		apperrors.InternalError(c, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, warnings))
}

// RemoveLine deletes a cart line
// DELETE /api/v1/cart/lines/:index
func (ctrl *CartController) RemoveLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid line index")
		return
	}

	cart, err := ctrl.cartService.RemoveLine(c.Request.Context(), sessionID, index)
	if err != nil {
		if errors.Is(err, service.ErrCartLineNotFound) {
			apperrors.NotFound(c, apperrors.CartLineNotFound, "Cart line not found")
			return
		}
		log.Error("Failed to remove cart line", err, map[string]interface{}{
			"session_id": sessionID,
			"line_index": index,
		})
		apperrors.InternalError(c, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart, nil))
}

// ClearCart empties the session cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	if err := ctrl.cartService.Clear(c.Request.Context(), sessionID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
