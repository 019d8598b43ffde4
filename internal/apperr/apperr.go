// Package apperr defines the error taxonomy shared by services and
// handlers. Every error carries a kind plus enough structured detail
// for a client to render an actionable message.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindInsufficientStock Kind = "insufficient_stock"
	KindDuplicate         Kind = "duplicate_identifier"
	KindBusy              Kind = "busy"
	KindStorage           Kind = "storage_failure"
)

type Error struct {
	Kind    Kind   `json:"kind"`
	Entity  string `json:"entity,omitempty"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`

	// Populated for insufficient-stock errors.
	Available int `json:"available,omitempty"`
	Requested int `json:"requested,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.Entity != "" && e.ID != "" {
		return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Entity, e.ID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: entity + " not found"}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func InsufficientStock(productID string, available, requested int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Entity:    "product",
		ID:        productID,
		Message:   fmt.Sprintf("insufficient stock for product %s: available %d, requested %d", productID, available, requested),
		Available: available,
		Requested: requested,
	}
}

func Duplicate(entity, value string) *Error {
	return &Error{Kind: KindDuplicate, Entity: entity, ID: value, Message: entity + " already exists"}
}

func Busy(cause error) *Error {
	return &Error{Kind: KindBusy, Message: "resource busy, retry later", cause: cause}
}

func Storage(cause error) *Error {
	return &Error{Kind: KindStorage, Message: "storage failure", cause: cause}
}

// KindOf extracts the kind from err, or KindStorage when err is not an
// apperr.Error. A nil err has no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
