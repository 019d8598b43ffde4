package service

import (
	"errors"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type CreateProductInput struct {
	Name          string          `json:"name" validate:"required"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	MinStock      int             `json:"min_stock" validate:"gte=0"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Barcode       *string         `json:"barcode"`
	ImageURL      *string         `json:"image_url"`
}

// UpdateProductInput carries partial edits. Stock is deliberately
// absent: stock changes go through the movement applier so every change
// leaves an audit row.
type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	MinStock    *int             `json:"min_stock"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Barcode     *string          `json:"barcode"`
	ImageURL    *string          `json:"image_url"`
	IsActive    *bool            `json:"is_active"`
}

type CatalogService interface {
	CreateCategory(input CreateCategoryInput) (*model.Category, error)
	ListCategories() ([]model.Category, error)
	CreateProduct(input CreateProductInput, actingUserID uuid.UUID) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	UpdateProduct(id uuid.UUID, input UpdateProductInput) (*model.Product, error)
	SearchProducts(q repository.ProductSearchQuery) ([]model.Product, error)
	LowStockProducts() ([]model.Product, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stock        StockService
	db           *gorm.DB
	hub          *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.CategoryRepository, stock StockService, db *gorm.DB, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		stock:        stock,
		db:           db,
		hub:          hub,
	}
}

func (s *catalogService) CreateCategory(input CreateCategoryInput) (*model.Category, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, apperr.InvalidInput(validator.FirstMessage(errs))
	}

	category := &model.Category{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

// CreateProduct inserts the product and, when initial stock is given,
// books it through the applier so the audit trail starts at row one.
func (s *catalogService) CreateProduct(input CreateProductInput, actingUserID uuid.UUID) (*model.Product, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, apperr.InvalidInput(validator.FirstMessage(errs))
	}
	if !input.Price.IsPositive() {
		return nil, apperr.InvalidInput("price must be positive")
	}
	if input.Cost.IsNegative() {
		return nil, apperr.InvalidInput("cost cannot be negative")
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("category", input.CategoryID.String())
			}
			return nil, err
		}
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Cost:        input.Cost,
		MinStock:    input.MinStock,
		CategoryID:  input.CategoryID,
		Barcode:     input.Barcode,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				barcode := ""
				if input.Barcode != nil {
					barcode = *input.Barcode
				}
				return apperr.Duplicate("barcode", barcode)
			}
			return err
		}

		if input.StockQuantity > 0 {
			refType := model.RefInitialStock
			refID := product.ID
			note := "Initial stock for new product"
			_, err := s.stock.ApplyTx(tx, ApplyMovementInput{
				ProductID:     product.ID,
				Type:          model.MovementIn,
				Quantity:      input.StockQuantity,
				ReferenceType: &refType,
				ReferenceID:   &refID,
				Notes:         &note,
			}, actingUserID)
			if err != nil {
				return err
			}
			product.StockQuantity = input.StockQuantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ws.StockUpdate{
		Event:       "product_created",
		ProductID:   product.ID.String(),
		ProductName: product.Name,
		NewStock:    product.StockQuantity,
		ActorID:     actingUserID.String(),
	})

	return product, nil
}

func (s *catalogService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id.String())
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, input UpdateProductInput) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperr.InvalidInput("name cannot be empty")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, apperr.InvalidInput("price must be positive")
		}
		product.Price = *input.Price
	}
	if input.Cost != nil {
		if input.Cost.IsNegative() {
			return nil, apperr.InvalidInput("cost cannot be negative")
		}
		product.Cost = *input.Cost
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, apperr.InvalidInput("min stock cannot be negative")
		}
		product.MinStock = *input.MinStock
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("category", input.CategoryID.String())
			}
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			barcode := ""
			if product.Barcode != nil {
				barcode = *product.Barcode
			}
			return nil, apperr.Duplicate("barcode", barcode)
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) SearchProducts(q repository.ProductSearchQuery) ([]model.Product, error) {
	return s.productRepo.Search(q)
}

func (s *catalogService) LowStockProducts() ([]model.Product, error) {
	return s.productRepo.FindLowStock()
}
