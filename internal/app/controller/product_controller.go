package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haruyama/pos-backend/internal/app/service"
	apperrors "github.com/haruyama/pos-backend/internal/errors"
	"github.com/haruyama/pos-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	Name    string          `json:"name" binding:"required"`
	Price   int64           `json:"price" binding:"min=0"`
	Stock   int             `json:"stock" binding:"min=0"`
	Image   string          `json:"image"`
	Options []OptionRequest `json:"options"`
}

type UpdateProductRequest struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
	Stock *int    `json:"stock"`
	Image *string `json:"image"`
}

type OptionRequest struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price" binding:"min=0"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// ListProducts returns the catalog with options, for the sale screen
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.ListProducts()
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.InternalError(c, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product with its options
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct adds a product to the catalog
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	input := service.CreateProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
		Image: req.Image,
	}
	for _, opt := range req.Options {
		input.Options = append(input.Options, service.OptionInput{
			Name:  opt.Name,
			Price: opt.Price,
		})
	}

	product, err := ctrl.productService.CreateProduct(input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) || errors.Is(err, service.ErrInvalidStock) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, err.Error())
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct edits catalog fields
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, service.UpdateProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
		Image: req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidStock):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, err.Error())
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.InternalError(c, "Failed to update product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product from the catalog
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// AdjustStock applies a relative restock or correction
// POST /api/v1/admin/products/:id/stock
func (ctrl *ProductController) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.AdjustStock(id, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidStock):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Stock cannot drop below zero")
		default:
			apperrors.InternalError(c, "Failed to adjust stock")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// AddOption attaches a priced option to a product
// POST /api/v1/admin/products/:id/options
func (ctrl *ProductController) AddOption(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	option, err := ctrl.productService.AddOption(id, service.OptionInput{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidPrice):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, err.Error())
		default:
			apperrors.InternalError(c, "Failed to add option")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"option": option})
}

// UpdateOption edits an option's name or price
// PUT /api/v1/admin/products/:id/options/:optionID
func (ctrl *ProductController) UpdateOption(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	optionID, ok := parseIDParam(c, "optionID")
	if !ok {
		return
	}

	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	option, err := ctrl.productService.UpdateOption(id, optionID, service.OptionInput{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOptionNotFound):
			apperrors.NotFound(c, apperrors.OptionNotFound, "Option not found")
		case errors.Is(err, service.ErrInvalidPrice):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, err.Error())
		default:
			apperrors.InternalError(c, "Failed to update option")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// DeleteOption removes an option from a product
// DELETE /api/v1/admin/products/:id/options/:optionID
func (ctrl *ProductController) DeleteOption(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	optionID, ok := parseIDParam(c, "optionID")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteOption(id, optionID); err != nil {
		if errors.Is(err, service.ErrOptionNotFound) {
			apperrors.NotFound(c, apperrors.OptionNotFound, "Option not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete option")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option deleted"})
}
