package repository

import (
	"time"

	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductSearchQuery struct {
	Term         string
	CategoryID   *uuid.UUID
	LowStockOnly bool
	ActiveOnly   bool
	Limit        int
	Offset       int
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
	FindLowStock() ([]model.Product, error)
	Search(q ProductSearchQuery) ([]model.Product, error)
	Update(product *model.Product) error
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error
	SetStock(tx *gorm.DB, id uuid.UUID, quantity int) error
	CountActive() (int64, error)
	CountLowStock() (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return translate(tx.Create(product).Error)
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Order("name ASC").Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	return r.FindByIDTx(r.db, id)
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(barcode string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "barcode = ?", barcode).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Where("is_active = ? AND stock_quantity <= min_stock", true).
		Order("stock_quantity ASC").
		Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) Search(q ProductSearchQuery) ([]model.Product, error) {
	query := r.db.Preload("Category")

	if q.Term != "" {
		pattern := "%" + q.Term + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR barcode = ?", pattern, q.Term)
	}
	if q.CategoryID != nil {
		query = query.Where("category_id = ?", *q.CategoryID)
	}
	if q.LowStockOnly {
		query = query.Where("stock_quantity <= min_stock")
	}
	if q.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var products []model.Product
	err := query.Order("name ASC").Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) Update(product *model.Product) error {
	return translate(r.db.Save(product).Error)
}

// AdjustStock applies a signed delta as a single conditional update. The
// WHERE clause re-validates stock at decrement time, so a stale earlier
// read can never drive stock below zero; a rejected guard is reported as
// ErrStockGuard with zero rows touched.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStockGuard
	}
	return nil
}

// SetStock overwrites the absolute stock level. Callers validate that
// quantity is non-negative before reaching the storage layer.
func (r *productRepo) SetStock(tx *gorm.DB, id uuid.UUID, quantity int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": quantity,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("is_active = ?", true).Count(&count).Error
	return count, translate(err)
}

func (r *productRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity <= min_stock", true).
		Count(&count).Error
	return count, translate(err)
}
