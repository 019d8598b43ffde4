package service

import (
	"testing"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductWithInitialStock(t *testing.T) {
	env := newTestEnv(t)

	product, err := env.catalog.CreateProduct(CreateProductInput{
		Name:          "Indomie Goreng",
		Price:         decimal.RequireFromString("3.50"),
		Cost:          decimal.RequireFromString("2.80"),
		StockQuantity: 40,
		MinStock:      10,
	}, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 40, product.StockQuantity)

	// Initial stock is booked through the applier, so the audit trail
	// starts at row one.
	var movements []model.StockMovement
	require.NoError(t, env.db.Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementIn, movements[0].Type)
	assert.Equal(t, 40, movements[0].Quantity)
	require.NotNil(t, movements[0].ReferenceType)
	assert.Equal(t, model.RefInitialStock, *movements[0].ReferenceType)
	require.NotNil(t, movements[0].ReferenceID)
	assert.Equal(t, product.ID, *movements[0].ReferenceID)

	assert.Equal(t, 40, env.reloadProduct(t, product.ID).StockQuantity)
}

func TestCreateProductWithoutInitialStockHasNoMovement(t *testing.T) {
	env := newTestEnv(t)

	product, err := env.catalog.CreateProduct(CreateProductInput{
		Name:  "Galon Kosong",
		Price: decimal.RequireFromString("25.00"),
	}, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, product.StockQuantity)
	assert.Equal(t, int64(0), env.countRows(t, &model.StockMovement{}))
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.CreateProduct(CreateProductInput{
		Name:  "Gratisan",
		Price: decimal.Zero,
	}, env.userID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestCreateProductUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	categoryID := uuid.New()
	_, err := env.catalog.CreateProduct(CreateProductInput{
		Name:       "Tanpa Kategori",
		Price:      decimal.RequireFromString("1.00"),
		CategoryID: &categoryID,
	}, env.userID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	env := newTestEnv(t)

	barcode := "8991001101234"
	_, err := env.catalog.CreateProduct(CreateProductInput{
		Name:    "Coklat Batang",
		Price:   decimal.RequireFromString("12.00"),
		Barcode: &barcode,
	}, env.userID)
	require.NoError(t, err)

	_, err = env.catalog.CreateProduct(CreateProductInput{
		Name:    "Coklat Batang KW",
		Price:   decimal.RequireFromString("11.00"),
		Barcode: &barcode,
	}, env.userID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestUpdateProductPartialEdit(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Sambal Botol", "14.00", 25)

	newPrice := decimal.RequireFromString("15.50")
	inactive := false
	updated, err := env.catalog.UpdateProduct(product.ID, UpdateProductInput{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	requireDecimalEqual(t, "15.50", updated.Price)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Sambal Botol", updated.Name)
	// Stock is never edited through this path.
	assert.Equal(t, 25, updated.StockQuantity)
}

func TestUpdateProductUnknown(t *testing.T) {
	env := newTestEnv(t)

	name := "Apa Saja"
	_, err := env.catalog.UpdateProduct(uuid.New(), UpdateProductInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLowStockClassification(t *testing.T) {
	env := newTestEnv(t)

	atThreshold := env.seedProduct(t, "Pas Ambang", "1.00", 5)   // min_stock 5
	aboveThreshold := env.seedProduct(t, "Masih Aman", "1.00", 6) // min_stock 5
	inactiveProduct := env.seedProduct(t, "Nonaktif", "1.00", 1)

	off := false
	_, err := env.catalog.UpdateProduct(inactiveProduct.ID, UpdateProductInput{IsActive: &off})
	require.NoError(t, err)

	low, err := env.catalog.LowStockProducts()
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, atThreshold.ID, low[0].ID)

	assert.True(t, low[0].IsLowStock())
	assert.False(t, aboveThreshold.IsLowStock())
}

func TestSearchProducts(t *testing.T) {
	env := newTestEnv(t)

	category, err := env.catalog.CreateCategory(CreateCategoryInput{Name: "Minuman"})
	require.NoError(t, err)

	barcode := "8990000000001"
	_, err = env.catalog.CreateProduct(CreateProductInput{
		Name:       "Teh Botol Sosro",
		Price:      decimal.RequireFromString("4.00"),
		CategoryID: &category.ID,
		Barcode:    &barcode,
	}, env.userID)
	require.NoError(t, err)
	env.seedProduct(t, "Kerupuk Udang", "6.00", 10)

	byName, err := env.catalog.SearchProducts(repository.ProductSearchQuery{Term: "teh botol", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Teh Botol Sosro", byName[0].Name)

	byBarcode, err := env.catalog.SearchProducts(repository.ProductSearchQuery{Term: barcode})
	require.NoError(t, err)
	require.Len(t, byBarcode, 1)

	byCategory, err := env.catalog.SearchProducts(repository.ProductSearchQuery{CategoryID: &category.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	all, err := env.catalog.SearchProducts(repository.ProductSearchQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoriesRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	desc := "Kebutuhan dapur"
	_, err := env.catalog.CreateCategory(CreateCategoryInput{Name: "Sembako", Description: &desc})
	require.NoError(t, err)

	_, err = env.catalog.CreateCategory(CreateCategoryInput{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	categories, err := env.catalog.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Sembako", categories[0].Name)
}
