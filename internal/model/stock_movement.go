package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// Reference types recorded on movements for provenance.
const (
	RefTransaction  = "transaction"
	RefInitialStock = "initial_stock"
)

// StockMovement is an append-only audit row for every inventory change.
// Quantity keeps the caller's original signed value even though "in" and
// "out" apply the absolute value to stock.
type StockMovement struct {
	BaseModel
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product     `json:"product,omitempty" validate:"-"`
	Type          MovementType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=in out adjustment"`
	Quantity      int          `gorm:"not null" json:"quantity"`
	ReferenceType *string      `gorm:"type:varchar(50)" json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID   `gorm:"type:uuid" json:"reference_id,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null" json:"user_id"`
	User          *User        `json:"user,omitempty" validate:"-"`
}
