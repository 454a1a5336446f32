package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/session"
	"github.com/haruyama/pos-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("payment amount is less than the cart total")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

// CheckoutResult is what the terminal needs to finish a cash sale.
type CheckoutResult struct {
	Orders  []model.Order `json:"orders"`
	Total   int64         `json:"total"`
	Payment int64         `json:"payment"`
	Change  int64         `json:"change"`
}

type CheckoutService interface {
	Confirm(ctx context.Context, sessionID string, payment int64) (*CheckoutResult, error)
}

type checkoutService struct {
	db    *gorm.DB
	store session.CartStore
	carts CartService
}

func NewCheckoutService(db *gorm.DB, store session.CartStore, carts CartService) CheckoutService {
	return &checkoutService{
		db:    db,
		store: store,
		carts: carts,
	}
}

// Confirm commits the session cart as a cash sale. The cart is synced
// against the catalog first, then every line is re-read under a row lock
// inside one transaction: stock is verified and decremented, and one
// order row is written per line. Either the whole cart commits or
// nothing does.
func (s *checkoutService) Confirm(ctx context.Context, sessionID string, payment int64) (*CheckoutResult, error) {
	logger.Info("Confirming checkout", map[string]interface{}{
		"session_id": sessionID,
		"payment":    payment,
	})

	cart, warnings, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		logger.Warn("Cart adjusted during checkout sync", map[string]interface{}{
			"session_id": sessionID,
			"warnings":   len(warnings),
		})
	}

	total := cart.Total()
	if payment < total {
		logger.Warn("Checkout rejected: insufficient payment", map[string]interface{}{
			"session_id": sessionID,
			"total":      total,
			"payment":    payment,
		})
		return nil, ErrInsufficientPayment
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	orders := make([]model.Order, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, line.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.Name)
			}
			logger.Error("Failed to lock product row during checkout", err, map[string]interface{}{
				"product_id": line.ProductID,
			})
			return nil, err
		}

		if product.Stock < line.Quantity {
			tx.Rollback()
			logger.Warn("Checkout rejected: insufficient stock", map[string]interface{}{
				"session_id": sessionID,
				"product_id": product.ID,
				"stock":      product.Stock,
				"requested":  line.Quantity,
			})
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}

		if err := tx.Model(&model.Product{}).Where("id = ?", product.ID).
			Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement stock during checkout", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return nil, err
		}

		optionsJSON, err := json.Marshal(line.Options)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		order := model.Order{
			UUID:       uuid.NewString(),
			ProductID:  product.ID,
			Quantity:   line.Quantity,
			TotalPrice: line.LineTotal(),
			Options:    string(optionsJSON),
			Image:      line.Image,
		}
		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create order during checkout", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	if err := s.store.Clear(ctx, sessionID); err != nil {
		// The sale is committed; a stale cart is an inconvenience, not
		// a reason to fail the sale.
		logger.Warn("Failed to clear cart after checkout", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	logger.Info("Checkout committed", map[string]interface{}{
		"session_id": sessionID,
		"orders":     len(orders),
		"total":      total,
		"change":     payment - total,
	})

	return &CheckoutResult{
		Orders:  orders,
		Total:   total,
		Payment: payment,
		Change:  payment - total,
	}, nil
}
