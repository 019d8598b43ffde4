package service

import (
	"fmt"
	"testing"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. A single open
// connection keeps SQLite from throwing busy errors under the
// concurrency tests while still exercising the real transactional path.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.StockMovement{},
	))

	return db
}

type testEnv struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txRepo       repository.TransactionRepository
	movementRepo repository.StockMovementRepository
	userRepo     repository.UserRepository

	stock   StockService
	tx      TransactionService
	catalog CatalogService
	dash    DashboardService

	userID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:           db,
		productRepo:  repository.NewProductRepo(db),
		categoryRepo: repository.NewCategoryRepo(db),
		txRepo:       repository.NewTransactionRepo(db),
		movementRepo: repository.NewStockMovementRepo(db),
		userRepo:     repository.NewUserRepo(db),
	}

	env.stock = NewStockService(env.productRepo, env.movementRepo, db, nil)
	env.tx = NewTransactionService(env.productRepo, env.txRepo, env.stock, db, nil)
	env.catalog = NewCatalogService(env.productRepo, env.categoryRepo, env.stock, db, nil)
	env.dash = NewDashboardService(env.txRepo, env.productRepo, env.userRepo)

	cashier := &model.User{
		Username: "kasir1",
		Email:    "kasir1@example.com",
		FullName: "Kasir Satu",
		Role:     model.RoleKasir,
		IsActive: true,
	}
	require.NoError(t, cashier.SetPassword("secret123"))
	require.NoError(t, env.userRepo.Create(cashier))
	env.userID = cashier.ID

	return env
}

// seedProduct inserts a product directly through the repository,
// bypassing the initial-stock movement the catalog service would book.
func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Cost:     decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		MinStock: 5,
		IsActive: true,
	}
	require.NoError(t, e.productRepo.Create(e.db, product))
	if stock != 0 {
		require.NoError(t, e.productRepo.SetStock(e.db, product.ID, stock))
		product.StockQuantity = stock
	}
	return product
}

func (e *testEnv) reloadProduct(t *testing.T, id uuid.UUID) *model.Product {
	t.Helper()
	product, err := e.productRepo.FindByID(id)
	require.NoError(t, err)
	return product
}

func (e *testEnv) countRows(t *testing.T, value interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(value).Count(&count).Error)
	return count
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(decimal.RequireFromString(want)), "expected %s, got %s", want, got)
}
