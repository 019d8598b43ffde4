package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"price"`
	Cost          decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"cost"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	MinStock      int             `gorm:"not null;default:5" json:"min_stock"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category      *Category       `json:"category,omitempty" validate:"-"`
	Barcode       *string         `gorm:"type:varchar(64);uniqueIndex" json:"barcode,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
}

// IsLowStock reports whether the product is at or below its minimum
// stock threshold. Advisory only, never enforced as a floor.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStock
}
