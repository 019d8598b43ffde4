package repository

import (
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(productID *uuid.UUID) ([]model.StockMovement, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

// Create appends one audit row. Movements are never updated or deleted.
func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return translate(tx.Create(movement).Error)
}

func (r *stockMovementRepo) FindAll(productID *uuid.UUID) ([]model.StockMovement, error) {
	query := r.db.Preload("Product").Preload("User").Order("created_at DESC")
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	var movements []model.StockMovement
	err := query.Find(&movements).Error
	return movements, translate(err)
}
