package service

import (
	"errors"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplyMovementInput is the request for one stock movement. Quantity is
// signed; how it is interpreted depends on Type (in/out apply the
// absolute value, adjustment takes it as the new absolute level).
type ApplyMovementInput struct {
	ProductID     uuid.UUID          `json:"product_id" validate:"uuid_required"`
	Type          model.MovementType `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity      int                `json:"quantity"`
	ReferenceType *string            `json:"reference_type"`
	ReferenceID   *uuid.UUID         `json:"reference_id"`
	Notes         *string            `json:"notes"`
}

type StockService interface {
	Apply(input ApplyMovementInput, actingUserID uuid.UUID) (*model.StockMovement, error)
	// ApplyTx runs the applier inside an existing database transaction so
	// the commit pipeline can fold per-item decrements into its own unit
	// of work.
	ApplyTx(tx *gorm.DB, input ApplyMovementInput, actingUserID uuid.UUID) (*model.StockMovement, error)
	ListMovements(productID *uuid.UUID) ([]model.StockMovement, error)
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
	hub          *ws.Hub
}

func NewStockService(pRepo repository.ProductRepository, mRepo repository.StockMovementRepository, db *gorm.DB, hub *ws.Hub) StockService {
	return &stockService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		db:           db,
		hub:          hub,
	}
}

func (s *stockService) Apply(input ApplyMovementInput, actingUserID uuid.UUID) (*model.StockMovement, error) {
	var movement *model.StockMovement
	var newStock int
	var productName string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, stock, name, err := s.applyTx(tx, input, actingUserID)
		if err != nil {
			return err
		}
		movement, newStock, productName = m, stock, name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ws.StockUpdate{
		Event:       "movement_applied",
		ProductID:   input.ProductID.String(),
		ProductName: productName,
		NewStock:    newStock,
		ActorID:     actingUserID.String(),
	})

	return movement, nil
}

func (s *stockService) ApplyTx(tx *gorm.DB, input ApplyMovementInput, actingUserID uuid.UUID) (*model.StockMovement, error) {
	movement, _, _, err := s.applyTx(tx, input, actingUserID)
	return movement, err
}

// applyTx is the critical section: product lookup, guarded stock write
// and audit append run against the same transaction handle, so either
// all of it lands or none of it does.
func (s *stockService) applyTx(tx *gorm.DB, input ApplyMovementInput, actingUserID uuid.UUID) (*model.StockMovement, int, string, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, 0, "", apperr.InvalidInput(validator.FirstMessage(errs))
	}

	product, err := s.productRepo.FindByIDTx(tx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, "", apperr.NotFound("product", input.ProductID.String())
		}
		return nil, 0, "", err
	}

	magnitude := input.Quantity
	if magnitude < 0 {
		magnitude = -magnitude
	}

	var newStock int
	switch input.Type {
	case model.MovementIn:
		newStock = product.StockQuantity + magnitude
		err = s.productRepo.AdjustStock(tx, product.ID, magnitude)
	case model.MovementOut:
		newStock = product.StockQuantity - magnitude
		err = s.productRepo.AdjustStock(tx, product.ID, -magnitude)
	case model.MovementAdjustment:
		// Quantity is the new absolute stock level, not a delta.
		newStock = input.Quantity
		if newStock < 0 {
			return nil, 0, "", apperr.InsufficientStock(product.ID.String(), product.StockQuantity, input.Quantity)
		}
		err = s.productRepo.SetStock(tx, product.ID, newStock)
	}
	if err != nil {
		if errors.Is(err, repository.ErrStockGuard) {
			return nil, 0, "", apperr.InsufficientStock(product.ID.String(), product.StockQuantity, magnitude)
		}
		return nil, 0, "", err
	}

	// The audit row keeps the caller's original signed quantity even for
	// in/out, where stock was mutated by the absolute value.
	movement := &model.StockMovement{
		ProductID:     product.ID,
		Type:          input.Type,
		Quantity:      input.Quantity,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Notes:         input.Notes,
		UserID:        actingUserID,
	}
	if err := s.movementRepo.Create(tx, movement); err != nil {
		return nil, 0, "", err
	}

	return movement, newStock, product.Name, nil
}

func (s *stockService) ListMovements(productID *uuid.UUID) ([]model.StockMovement, error) {
	return s.movementRepo.FindAll(productID)
}
