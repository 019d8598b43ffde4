package repository

import (
	"time"

	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionSearchQuery struct {
	Term      string // matches against the transaction number
	StartDate *time.Time
	EndDate   *time.Time
	Status    *model.TransactionStatus
	UserID    *uuid.UUID
	Limit     int
	Offset    int
}

// SalesSummary aggregates completed sales for a period.
type SalesSummary struct {
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int64           `json:"transaction_count"`
}

// ProductSales is one row of the top-products report.
type ProductSales struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailySales is one day of the sales breakdown.
type DailySales struct {
	Date         string          `json:"date"`
	Sales        decimal.Decimal `json:"sales"`
	Transactions int64           `json:"transactions"`
}

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	CreateItem(tx *gorm.DB, item *model.TransactionItem) error
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	Search(q TransactionSearchQuery) ([]model.Transaction, error)
	SalesSummary(startDate, endDate time.Time) (*SalesSummary, error)
	TopProducts(startDate, endDate time.Time, limit int) ([]ProductSales, error)
	DailyBreakdown(startDate, endDate time.Time) ([]DailySales, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	return translate(tx.Create(transaction).Error)
}

func (r *transactionRepo) CreateItem(tx *gorm.DB, item *model.TransactionItem) error {
	return translate(tx.Create(item).Error)
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("User").Order("created_at DESC").Find(&transactions).Error
	return transactions, translate(err)
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &transaction, nil
}

func (r *transactionRepo) Search(q TransactionSearchQuery) ([]model.Transaction, error) {
	query := r.db.Preload("User")

	if q.Term != "" {
		query = query.Where("transaction_number LIKE ?", "%"+q.Term+"%")
	}
	if q.StartDate != nil {
		query = query.Where("created_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		query = query.Where("created_at <= ?", *q.EndDate)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var transactions []model.Transaction
	err := query.Order("created_at DESC").Find(&transactions).Error
	return transactions, translate(err)
}

func (r *transactionRepo) SalesSummary(startDate, endDate time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	err := r.db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(total_amount), 0) AS total_sales, COUNT(*) AS transaction_count").
		Where("status = ? AND created_at >= ? AND created_at <= ?", model.TxCompleted, startDate, endDate).
		Scan(&summary).Error
	if err != nil {
		return nil, translate(err)
	}
	return &summary, nil
}

func (r *transactionRepo) TopProducts(startDate, endDate time.Time, limit int) ([]ProductSales, error) {
	var results []ProductSales
	err := r.db.Model(&model.TransactionItem{}).
		Select(`
			transaction_items.product_id AS product_id,
			products.name AS product_name,
			SUM(transaction_items.quantity) AS quantity_sold,
			SUM(transaction_items.total_price) AS revenue
		`).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Joins("JOIN products ON products.id = transaction_items.product_id").
		Where("transactions.status = ? AND transactions.created_at >= ? AND transactions.created_at <= ?",
			model.TxCompleted, startDate, endDate).
		Group("transaction_items.product_id, products.name").
		Order("SUM(transaction_items.total_price) DESC").
		Limit(limit).
		Scan(&results).Error
	return results, translate(err)
}

func (r *transactionRepo) DailyBreakdown(startDate, endDate time.Time) ([]DailySales, error) {
	var results []DailySales
	err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) AS date,
			COALESCE(SUM(total_amount), 0) AS sales,
			COUNT(*) AS transactions
		`).
		Where("status = ? AND created_at >= ? AND created_at <= ?", model.TxCompleted, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results).Error
	return results, translate(err)
}
