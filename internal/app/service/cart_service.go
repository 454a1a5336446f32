package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/internal/app/session"
	"github.com/haruyama/pos-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidProductOption = errors.New("invalid product option")
	ErrCartLineNotFound     = errors.New("cart line not found")
)

// CartWarning reports a non-fatal adjustment the service made to the
// cart, such as clamping a quantity to the available stock. The terminal
// shows these to the cashier.
type CartWarning struct {
	ProductID uint   `json:"product_id"`
	Message   string `json:"message"`
}

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*model.Cart, []CartWarning, error)
	AddLine(ctx context.Context, sessionID string, productID uint, optionIDs []uint, quantity int) (*model.Cart, []CartWarning, error)
	UpdateQuantity(ctx context.Context, sessionID string, lineIndex int, quantity int) (*model.Cart, []CartWarning, error)
	RemoveLine(ctx context.Context, sessionID string, lineIndex int) (*model.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	store       session.CartStore
	productRepo repository.ProductRepository
}

func NewCartService(store session.CartStore, productRepo repository.ProductRepository) CartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
	}
}

// GetCart loads the session cart and reconciles it against the catalog:
// deleted and sold-out products are dropped, names, images and prices are
// refreshed, and quantities are clamped to the remaining stock.
func (s *cartService) GetCart(ctx context.Context, sessionID string) (*model.Cart, []CartWarning, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := s.sync(cart)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Put(ctx, sessionID, cart); err != nil {
		return nil, nil, err
	}
	return cart, warnings, nil
}

func (s *cartService) AddLine(ctx context.Context, sessionID string, productID uint, optionIDs []uint, quantity int) (*model.Cart, []CartWarning, error) {
	logger.Info("Adding line to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
		"option_ids": optionIDs,
		"quantity":   quantity,
	})

	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"session_id": sessionID,
				"product_id": productID,
			})
			return nil, nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, nil, err
	}

	options, err := resolveOptions(product, optionIDs)
	if err != nil {
		return nil, nil, err
	}
	// resolveOptions drops duplicate IDs; match lines on the canonical set.
	canonicalIDs := make([]uint, 0, len(options))
	for _, opt := range options {
		canonicalIDs = append(canonicalIDs, opt.ID)
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	var warnings []CartWarning

	if product.Stock <= 0 {
		logger.Warn("Cannot add to cart: product out of stock", map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
		})
		warnings = append(warnings, CartWarning{
			ProductID: productID,
			Message:   fmt.Sprintf("%s is out of stock", product.Name),
		})
		return cart, warnings, nil
	}

	idx := cart.FindLine(productID, canonicalIDs)
	if idx >= 0 {
		cart.Lines[idx].Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, model.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			UnitPrice: product.Price,
			Quantity:  quantity,
			Options:   options,
		})
		idx = len(cart.Lines) - 1
	}

	if cart.Lines[idx].Quantity > product.Stock {
		cart.Lines[idx].Quantity = product.Stock
		warnings = append(warnings, CartWarning{
			ProductID: productID,
			Message:   fmt.Sprintf("Only %d of %s available", product.Stock, product.Name),
		})
	}

	if err := s.store.Put(ctx, sessionID, cart); err != nil {
		return nil, nil, err
	}
	return cart, warnings, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, lineIndex int, quantity int) (*model.Cart, []CartWarning, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if lineIndex < 0 || lineIndex >= len(cart.Lines) {
		return nil, nil, ErrCartLineNotFound
	}

	// A zero or negative quantity means the cashier removed the line.
	if quantity <= 0 {
		cart.Lines = append(cart.Lines[:lineIndex], cart.Lines[lineIndex+1:]...)
		if err := s.store.Put(ctx, sessionID, cart); err != nil {
			return nil, nil, err
		}
		return cart, nil, nil
	}

	line := &cart.Lines[lineIndex]

	var warnings []CartWarning
	product, err := s.productRepo.FindByID(line.ProductID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		// Product vanished since it was added; the next sync drops it.
		line.Quantity = quantity
	} else {
		if quantity > product.Stock {
			quantity = product.Stock
			warnings = append(warnings, CartWarning{
				ProductID: line.ProductID,
				Message:   fmt.Sprintf("Only %d of %s available", product.Stock, product.Name),
			})
		}
		line.Quantity = quantity
	}

	if err := s.store.Put(ctx, sessionID, cart); err != nil {
		return nil, nil, err
	}
	return cart, warnings, nil
}

func (s *cartService) RemoveLine(ctx context.Context, sessionID string, lineIndex int) (*model.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if lineIndex < 0 || lineIndex >= len(cart.Lines) {
		return nil, ErrCartLineNotFound
	}

	cart.Lines = append(cart.Lines[:lineIndex], cart.Lines[lineIndex+1:]...)
	if err := s.store.Put(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	logger.Info("Cart line removed", map[string]interface{}{
		"session_id": sessionID,
		"line_index": lineIndex,
	})
	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// sync reconciles the cart lines with the current catalog state. It
// mutates the cart in place and returns warnings for every adjustment.
func (s *cartService) sync(cart *model.Cart) ([]CartWarning, error) {
	if cart.IsEmpty() {
		return nil, nil
	}

	ids := make([]uint, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var warnings []CartWarning
	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		product, ok := byID[line.ProductID]
		if !ok {
			warnings = append(warnings, CartWarning{
				ProductID: line.ProductID,
				Message:   fmt.Sprintf("%s is no longer available", line.Name),
			})
			continue
		}
		if product.Stock <= 0 {
			warnings = append(warnings, CartWarning{
				ProductID: line.ProductID,
				Message:   fmt.Sprintf("%s is out of stock", product.Name),
			})
			continue
		}

		line.Name = product.Name
		line.Image = product.Image
		line.UnitPrice = product.Price

		optionIDs := make([]uint, 0, len(line.Options))
		for _, opt := range line.Options {
			optionIDs = append(optionIDs, opt.ID)
		}
		refreshed, err := resolveOptions(product, optionIDs)
		if err != nil {
			// An option was removed from the product; drop the line
			// rather than sell a configuration that no longer exists.
			warnings = append(warnings, CartWarning{
				ProductID: line.ProductID,
				Message:   fmt.Sprintf("An option of %s is no longer available", product.Name),
			})
			continue
		}
		line.Options = refreshed

		if line.Quantity > product.Stock {
			line.Quantity = product.Stock
			warnings = append(warnings, CartWarning{
				ProductID: line.ProductID,
				Message:   fmt.Sprintf("Only %d of %s available", product.Stock, product.Name),
			})
		}
		kept = append(kept, line)
	}
	cart.Lines = kept
	return warnings, nil
}

// resolveOptions maps option IDs onto the product's own options and
// snapshots their current name and price. Every ID must belong to the
// product.
func resolveOptions(product *model.Product, optionIDs []uint) ([]model.CartOption, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}

	byID := make(map[uint]*model.ProductOption, len(product.Options))
	for i := range product.Options {
		byID[product.Options[i].ID] = &product.Options[i]
	}

	options := make([]model.CartOption, 0, len(optionIDs))
	seen := make(map[uint]bool, len(optionIDs))
	for _, id := range optionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		opt, ok := byID[id]
		if !ok {
			logger.Warn("Product option mismatch", map[string]interface{}{
				"product_id": product.ID,
				"option_id":  id,
			})
			return nil, ErrInvalidProductOption
		}
		options = append(options, model.CartOption{
			ID:    opt.ID,
			Name:  opt.Name,
			Price: opt.Price,
		})
	}
	return options, nil
}
