package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// numberAttempts bounds the retry loop on transaction-number collisions.
const numberAttempts = 3

type CommitItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CommitTransactionInput struct {
	Items          []CommitItemInput   `json:"items" validate:"required,min=1,dive"`
	CustomerName   *string             `json:"customer_name"`
	CustomerPhone  *string             `json:"customer_phone"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TaxRate        decimal.Decimal     `json:"tax_rate"`
	PaymentMethod  model.PaymentMethod `json:"payment_method"`
	PaymentAmount  decimal.Decimal     `json:"payment_amount"`
	Notes          *string             `json:"notes"`
}

type TransactionService interface {
	Commit(input CommitTransactionInput, actingUserID uuid.UUID) (*model.Transaction, error)
	List() ([]model.Transaction, error)
	Search(q repository.TransactionSearchQuery) ([]model.Transaction, error)
	Details(id uuid.UUID) (*model.Transaction, error)
}

type transactionService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	stock       StockService
	db          *gorm.DB
	hub         *ws.Hub

	// numberFn generates the human-readable transaction number.
	// Overridable in tests to force collisions.
	numberFn func() string
}

func NewTransactionService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, stock StockService, db *gorm.DB, hub *ws.Hub) TransactionService {
	return &transactionService{
		productRepo: pRepo,
		txRepo:      tRepo,
		stock:       stock,
		db:          db,
		hub:         hub,
		numberFn:    newTransactionNumber,
	}
}

func newTransactionNumber() string {
	return fmt.Sprintf("TXN-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

// Commit turns a cart into a persisted Transaction plus its inventory
// effects, as one atomic unit: validation pass, totals, transaction +
// item rows, and one guarded "out" movement per item. Any failure rolls
// the whole attempt back; a concurrent reader never observes a partial
// commit.
func (s *transactionService) Commit(input CommitTransactionInput, actingUserID uuid.UUID) (*model.Transaction, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, apperr.InvalidInput(validator.FirstMessage(errs))
	}
	if !model.ValidPaymentMethod(input.PaymentMethod) {
		return nil, apperr.InvalidInput("unknown payment method")
	}
	for _, item := range input.Items {
		if !item.UnitPrice.IsPositive() {
			return nil, apperr.InvalidInput("item unit price must be positive")
		}
	}
	if input.DiscountAmount.IsNegative() {
		return nil, apperr.InvalidInput("discount amount cannot be negative")
	}
	if input.TaxRate.IsNegative() {
		return nil, apperr.InvalidInput("tax rate cannot be negative")
	}
	if !input.PaymentAmount.IsPositive() {
		return nil, apperr.InvalidInput("payment amount must be positive")
	}

	// Totals are pure functions of the input, computed in decimal so no
	// floating drift sneaks into the persisted row.
	subtotal := decimal.Zero
	for _, item := range input.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	taxAmount := subtotal.Mul(input.TaxRate)
	totalAmount := subtotal.Add(taxAmount).Sub(input.DiscountAmount)
	if input.PaymentAmount.LessThan(totalAmount) {
		return nil, apperr.InvalidInput(fmt.Sprintf("payment amount %s is below total %s", input.PaymentAmount, totalAmount))
	}
	changeAmount := input.PaymentAmount.Sub(totalAmount)
	if changeAmount.IsNegative() {
		changeAmount = decimal.Zero
	}

	var number string
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number = s.numberFn()

		transaction := &model.Transaction{
			TransactionNumber: number,
			UserID:            actingUserID,
			CustomerName:      input.CustomerName,
			CustomerPhone:     input.CustomerPhone,
			Subtotal:          subtotal,
			TaxAmount:         taxAmount,
			DiscountAmount:    input.DiscountAmount,
			TotalAmount:       totalAmount,
			PaymentMethod:     input.PaymentMethod,
			PaymentAmount:     input.PaymentAmount,
			ChangeAmount:      changeAmount,
			Status:            model.TxCompleted,
			Notes:             input.Notes,
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			// Validation pass against the transaction's own snapshot. The
			// guarded decrement below re-validates, so a racing commit
			// losing here fails cleanly instead of overselling.
			for _, item := range input.Items {
				product, err := s.productRepo.FindByIDTx(tx, item.ProductID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperr.NotFound("product", item.ProductID.String())
					}
					return err
				}
				if product.StockQuantity < item.Quantity {
					return apperr.InsufficientStock(product.ID.String(), product.StockQuantity, item.Quantity)
				}
			}

			if err := s.txRepo.Create(tx, transaction); err != nil {
				return err
			}

			for _, item := range input.Items {
				txItem := &model.TransactionItem{
					TransactionID: transaction.ID,
					ProductID:     item.ProductID,
					Quantity:      item.Quantity,
					UnitPrice:     item.UnitPrice,
					TotalPrice:    item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
				}
				if err := s.txRepo.CreateItem(tx, txItem); err != nil {
					return err
				}

				refType := model.RefTransaction
				refID := transaction.ID
				note := "Sale transaction " + number
				_, err := s.stock.ApplyTx(tx, ApplyMovementInput{
					ProductID:     item.ProductID,
					Type:          model.MovementOut,
					Quantity:      -item.Quantity, // audit records the negative of the sold quantity
					ReferenceType: &refType,
					ReferenceID:   &refID,
					Notes:         &note,
				}, actingUserID)
				if err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue // number collision, regenerate and retry
			}
			return nil, err
		}

		s.hub.Publish(ws.StockUpdate{
			Event:     "transaction_committed",
			Reference: number,
			ActorID:   actingUserID.String(),
			Message:   fmt.Sprintf("transaction %s committed, total %s", number, totalAmount),
		})

		return transaction, nil
	}

	return nil, apperr.Duplicate("transaction_number", number)
}

func (s *transactionService) List() ([]model.Transaction, error) {
	return s.txRepo.FindAll()
}

func (s *transactionService) Search(q repository.TransactionSearchQuery) ([]model.Transaction, error) {
	return s.txRepo.Search(q)
}

func (s *transactionService) Details(id uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.txRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction", id.String())
		}
		return nil, err
	}
	return transaction, nil
}
