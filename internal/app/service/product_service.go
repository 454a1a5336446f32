package service

import (
	"errors"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOptionNotFound = errors.New("product option not found")
	ErrInvalidPrice   = errors.New("price must not be negative")
	ErrInvalidStock   = errors.New("stock must not be negative")
)

type CreateProductInput struct {
	Name    string
	Price   int64
	Stock   int
	Image   string
	Options []OptionInput
}

type OptionInput struct {
	Name  string
	Price int64
}

// UpdateProductInput uses pointers so a PATCH can change one field
// without clobbering the rest.
type UpdateProductInput struct {
	Name  *string
	Price *int64
	Stock *int
	Image *string
}

type ProductService interface {
	ListProducts() ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(input CreateProductInput) (*model.Product, error)
	UpdateProduct(id uint, input UpdateProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	AdjustStock(id uint, delta int) (*model.Product, error)
	AddOption(productID uint, input OptionInput) (*model.ProductOption, error)
	UpdateOption(productID, optionID uint, input OptionInput) (*model.ProductOption, error)
	DeleteOption(productID, optionID uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	optionRepo  repository.ProductOptionRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	optionRepo repository.ProductOptionRepository,
) ProductService {
	return &productService{
		productRepo: productRepo,
		optionRepo:  optionRepo,
	}
}

func (s *productService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input CreateProductInput) (*model.Product, error) {
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		return nil, ErrInvalidStock
	}

	product := &model.Product{
		Name:  input.Name,
		Price: input.Price,
		Stock: input.Stock,
		Image: input.Image,
	}
	for _, opt := range input.Options {
		if opt.Price < 0 {
			return nil, ErrInvalidPrice
		}
		product.Options = append(product.Options, model.ProductOption{
			Name:  opt.Name,
			Price: opt.Price,
		})
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input UpdateProductInput) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidStock
		}
		product.Stock = *input.Stock
	}
	if input.Image != nil {
		product.Image = *input.Image
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

// AdjustStock applies a relative restock or correction. The result may
// not drop below zero.
func (s *productService) AdjustStock(id uint, delta int) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if product.Stock+delta < 0 {
		return nil, ErrInvalidStock
	}

	if err := s.productRepo.AdjustStock(id, delta); err != nil {
		return nil, err
	}
	return s.GetProduct(id)
}

func (s *productService) AddOption(productID uint, input OptionInput) (*model.ProductOption, error) {
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}

	option := &model.ProductOption{
		ProductID: productID,
		Name:      input.Name,
		Price:     input.Price,
	}
	if err := s.optionRepo.Create(option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *productService) UpdateOption(productID, optionID uint, input OptionInput) (*model.ProductOption, error) {
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}

	option, err := s.findOwnedOption(productID, optionID)
	if err != nil {
		return nil, err
	}

	option.Name = input.Name
	option.Price = input.Price
	if err := s.optionRepo.Update(option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *productService) DeleteOption(productID, optionID uint) error {
	if _, err := s.findOwnedOption(productID, optionID); err != nil {
		return err
	}
	return s.optionRepo.Delete(optionID)
}

func (s *productService) findOwnedOption(productID, optionID uint) (*model.ProductOption, error) {
	option, err := s.optionRepo.FindByID(optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	if option.ProductID != productID {
		logger.Warn("Product option mismatch", map[string]interface{}{
			"product_id": productID,
			"option_id":  optionID,
		})
		return nil, ErrOptionNotFound
	}
	return option, nil
}
