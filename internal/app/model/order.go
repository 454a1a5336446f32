package model

import (
	"time"

	"gorm.io/gorm"
)

// Order is one checkout line committed to the books. Rows are written only
// inside the checkout transaction and never mutated afterwards.
type Order struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UUID       string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Quantity   int            `gorm:"not null" json:"quantity"`
	TotalPrice int64          `gorm:"not null" json:"total_price"` // unit price incl. options x quantity
	Options    string         `gorm:"type:text" json:"options,omitempty"` // JSON snapshot of selected options
	Image      string         `json:"image,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}
