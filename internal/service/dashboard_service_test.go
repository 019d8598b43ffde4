package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStatsReflectTodaySales(t *testing.T) {
	env := newTestEnv(t)

	coffee := env.seedProduct(t, "Kopi Tubruk", "10.00", 50)
	env.seedProduct(t, "Gula Merah", "8.00", 3) // min_stock 5

	_, err := env.tx.Commit(commitInput(coffee.ID, 2, "10.00"), env.userID)
	require.NoError(t, err)
	_, err = env.tx.Commit(commitInput(coffee.ID, 1, "10.00"), env.userID)
	require.NoError(t, err)

	stats, err := env.dash.GetDashboardStats()
	require.NoError(t, err)

	requireDecimalEqual(t, "30.00", stats.TodaySales)
	assert.Equal(t, int64(2), stats.TodayTransactions)
	assert.Equal(t, int64(1), stats.LowStockProducts)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ActiveUsers)
}

func TestDashboardStatsEmptyDatabase(t *testing.T) {
	env := newTestEnv(t)

	stats, err := env.dash.GetDashboardStats()
	require.NoError(t, err)

	requireDecimalEqual(t, "0", stats.TodaySales)
	assert.Equal(t, int64(0), stats.TodayTransactions)
	assert.Equal(t, int64(0), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ActiveUsers)
}

func TestSalesReportAggregation(t *testing.T) {
	env := newTestEnv(t)

	coffee := env.seedProduct(t, "Kopi Tubruk", "10.00", 50)
	tea := env.seedProduct(t, "Teh Tarik", "6.00", 50)

	// Three sales: coffee revenue 40, tea revenue 6.
	_, err := env.tx.Commit(commitInput(coffee.ID, 2, "10.00"), env.userID)
	require.NoError(t, err)
	_, err = env.tx.Commit(commitInput(coffee.ID, 2, "10.00"), env.userID)
	require.NoError(t, err)
	_, err = env.tx.Commit(commitInput(tea.ID, 1, "6.00"), env.userID)
	require.NoError(t, err)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	report, err := env.dash.GetSalesReport(start, end)
	require.NoError(t, err)

	requireDecimalEqual(t, "46.00", report.TotalSales)
	assert.Equal(t, int64(3), report.TotalTransactions)
	requireDecimalEqual(t, "15.3333", report.AverageTransaction)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, coffee.ID, report.TopProducts[0].ProductID)
	assert.Equal(t, "Kopi Tubruk", report.TopProducts[0].ProductName)
	assert.Equal(t, int64(4), report.TopProducts[0].QuantitySold)
	requireDecimalEqual(t, "40.00", report.TopProducts[0].Revenue)
	assert.Equal(t, tea.ID, report.TopProducts[1].ProductID)

	require.Len(t, report.DailySales, 1)
	requireDecimalEqual(t, "46.00", report.DailySales[0].Sales)
	assert.Equal(t, int64(3), report.DailySales[0].Transactions)
}

func TestSalesReportOutsideWindowIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	coffee := env.seedProduct(t, "Kopi Tubruk", "10.00", 50)
	_, err := env.tx.Commit(commitInput(coffee.ID, 1, "10.00"), env.userID)
	require.NoError(t, err)

	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 0, -6)

	report, err := env.dash.GetSalesReport(start, end)
	require.NoError(t, err)

	require.True(t, report.TotalSales.Equal(decimal.Zero))
	assert.Equal(t, int64(0), report.TotalTransactions)
	require.True(t, report.AverageTransaction.Equal(decimal.Zero))
	assert.Empty(t, report.TopProducts)
	assert.Empty(t, report.DailySales)
}
