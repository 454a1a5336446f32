package repository

import (
	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductOptionRepository interface {
	Create(option *model.ProductOption) error
	FindByID(id uint) (*model.ProductOption, error)
	FindByIDs(ids []uint) ([]model.ProductOption, error)
	FindByProductID(productID uint) ([]model.ProductOption, error)
	Update(option *model.ProductOption) error
	Delete(id uint) error
}

type productOptionRepository struct {
	db *gorm.DB
}

func NewProductOptionRepository(db *gorm.DB) ProductOptionRepository {
	return &productOptionRepository{db: db}
}

func (r *productOptionRepository) Create(option *model.ProductOption) error {
	logger.Debug("Creating product option in database", map[string]interface{}{
		"product_id": option.ProductID,
		"name":       option.Name,
		"price":      option.Price,
	})

	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create product option in database", err, map[string]interface{}{
			"product_id": option.ProductID,
			"name":       option.Name,
		})
		return err
	}
	return nil
}

func (r *productOptionRepository) FindByID(id uint) (*model.ProductOption, error) {
	var option model.ProductOption
	if err := r.db.First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *productOptionRepository) FindByIDs(ids []uint) ([]model.ProductOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var options []model.ProductOption
	if err := r.db.Where("id IN ?", ids).Find(&options).Error; err != nil {
		logger.Error("Failed to find product options by IDs in database", err, map[string]interface{}{
			"ids": ids,
		})
		return nil, err
	}
	return options, nil
}

func (r *productOptionRepository) FindByProductID(productID uint) ([]model.ProductOption, error) {
	var options []model.ProductOption
	if err := r.db.Where("product_id = ?", productID).Order("id ASC").Find(&options).Error; err != nil {
		logger.Error("Failed to list product options in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return options, nil
}

func (r *productOptionRepository) Update(option *model.ProductOption) error {
	logger.Debug("Updating product option in database", map[string]interface{}{
		"option_id": option.ID,
	})

	if err := r.db.Save(option).Error; err != nil {
		logger.Error("Failed to update product option in database", err, map[string]interface{}{
			"option_id": option.ID,
		})
		return err
	}
	return nil
}

func (r *productOptionRepository) Delete(id uint) error {
	logger.Debug("Deleting product option from database", map[string]interface{}{
		"option_id": id,
	})

	if err := r.db.Delete(&model.ProductOption{}, id).Error; err != nil {
		logger.Error("Failed to delete product option from database", err, map[string]interface{}{
			"option_id": id,
		})
		return err
	}
	return nil
}
