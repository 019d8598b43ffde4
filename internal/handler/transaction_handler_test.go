package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	app   *fiber.App
	db    *gorm.DB
	token string
}

func newTestApp(t *testing.T) *testApp {
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

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	stockService := service.NewStockService(productRepo, movementRepo, db, nil)
	txService := service.NewTransactionService(productRepo, txRepo, stockService, db, nil)
	authService := service.NewAuthService(userRepo)

	cashier := &model.User{
		Username: "kasir1",
		Email:    "kasir1@example.com",
		FullName: "Kasir Satu",
		Role:     model.RoleKasir,
		IsActive: true,
	}
	require.NoError(t, cashier.SetPassword("secret123"))
	require.NoError(t, userRepo.Create(cashier))

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/auth/login", NewAuthHandler(authService).Login)

	protected := api.Group("", middleware.RequireAuth(userRepo))
	txHandler := NewTransactionHandler(txService)
	protected.Post("/transactions", txHandler.CreateTransaction)
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/:id", txHandler.GetTransaction)

	result, err := authService.Login("kasir1", "secret123")
	require.NoError(t, err)

	return &testApp{app: app, db: db, token: result.Token}
}

func (ta *testApp) seedProduct(t *testing.T, name string, price string, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		MinStock: 5,
		IsActive: true,
	}
	require.NoError(t, ta.db.Create(product).Error)
	require.NoError(t, ta.db.Model(product).Update("stock_quantity", stock).Error)
	product.StockQuantity = stock
	return product
}

func (ta *testApp) request(t *testing.T, method, path string, body interface{}, authed bool) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+ta.token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func commitBody(productID uuid.UUID, qty int, unitPrice, payment string) fiber.Map {
	return fiber.Map{
		"items": []fiber.Map{
			{"product_id": productID, "quantity": qty, "unit_price": unitPrice},
		},
		"payment_method": "cash",
		"payment_amount": payment,
	}
}

func TestCreateTransactionEndpoint(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedProduct(t, "Kopi Susu Botol", "19.99", 100)

	resp, body := ta.request(t, "POST", "/api/v1/transactions",
		commitBody(product.ID, 2, "19.99", "50.00"), true)

	assert.Equal(t, 201, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "39.98", data["subtotal"])
	assert.Equal(t, "completed", data["status"])
	assert.NotEmpty(t, data["transaction_number"])
}

func TestCreateTransactionInsufficientStockConflict(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedProduct(t, "Kopi Susu Botol", "19.99", 1)

	resp, body := ta.request(t, "POST", "/api/v1/transactions",
		commitBody(product.ID, 5, "19.99", "200.00"), true)

	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, "insufficient_stock", body["kind"])
	assert.Equal(t, product.ID.String(), body["id"])
}

func TestCreateTransactionUnknownProductNotFound(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.request(t, "POST", "/api/v1/transactions",
		commitBody(uuid.New(), 1, "5.00", "10.00"), true)

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "not_found", body["kind"])
}

func TestCreateTransactionRequiresAuth(t *testing.T) {
	ta := newTestApp(t)
	product := ta.seedProduct(t, "Kopi Susu Botol", "19.99", 100)

	resp, _ := ta.request(t, "POST", "/api/v1/transactions",
		commitBody(product.ID, 1, "19.99", "50.00"), false)

	assert.Equal(t, 401, resp.StatusCode)
}

func TestGetTransactionNotFound(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.request(t, "GET", "/api/v1/transactions/"+uuid.NewString(), nil, true)

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "not_found", body["kind"])
}

func TestLoginEndpoint(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.request(t, "POST", "/api/v1/auth/login",
		fiber.Map{"username": "kasir1", "password": "secret123"}, false)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, _ = ta.request(t, "POST", "/api/v1/auth/login",
		fiber.Map{"username": "kasir1", "password": "salah"}, false)
	assert.Equal(t, 401, resp.StatusCode)
}
