package service

import (
	"time"

	"go-pos-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TodaySales        decimal.Decimal `json:"today_sales"`
	TodayTransactions int64           `json:"today_transactions"`
	LowStockProducts  int64           `json:"low_stock_products"`
	TotalProducts     int64           `json:"total_products"`
	ActiveUsers       int64           `json:"active_users"`
}

type SalesReport struct {
	TotalSales         decimal.Decimal           `json:"total_sales"`
	TotalTransactions  int64                     `json:"total_transactions"`
	AverageTransaction decimal.Decimal           `json:"average_transaction"`
	TopProducts        []repository.ProductSales `json:"top_products"`
	DailySales         []repository.DailySales   `json:"daily_sales"`
}

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetSalesReport(startDate, endDate time.Time) (*SalesReport, error)
}

type dashboardService struct {
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewDashboardService(txRepo repository.TransactionRepository, pRepo repository.ProductRepository, uRepo repository.UserRepository) DashboardService {
	return &dashboardService{txRepo: txRepo, productRepo: pRepo, userRepo: uRepo}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	summary, err := s.txRepo.SalesSummary(today, tomorrow)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.CountLowStock()
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.productRepo.CountActive()
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.userRepo.CountActive()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TodaySales:        summary.TotalSales,
		TodayTransactions: summary.TransactionCount,
		LowStockProducts:  lowStock,
		TotalProducts:     totalProducts,
		ActiveUsers:       activeUsers,
	}, nil
}

func (s *dashboardService) GetSalesReport(startDate, endDate time.Time) (*SalesReport, error) {
	summary, err := s.txRepo.SalesSummary(startDate, endDate)
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if summary.TransactionCount > 0 {
		average = summary.TotalSales.DivRound(decimal.NewFromInt(summary.TransactionCount), 4)
	}

	topProducts, err := s.txRepo.TopProducts(startDate, endDate, 10)
	if err != nil {
		return nil, err
	}
	dailySales, err := s.txRepo.DailyBreakdown(startDate, endDate)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		TotalSales:         summary.TotalSales,
		TotalTransactions:  summary.TransactionCount,
		AverageTransaction: average,
		TopProducts:        topProducts,
		DailySales:         dailySales,
	}, nil
}
