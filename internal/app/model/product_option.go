package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductOption struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"index;not null" json:"product_id"`
	Name      string         `gorm:"not null" json:"name"`
	Price     int64          `gorm:"not null;default:0" json:"price"` // additive, must be >= 0
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductOption) TableName() string {
	return "product_options"
}
