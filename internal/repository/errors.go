package repository

import (
	"context"
	"errors"

	"go-pos-backend/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrStockGuard is returned when a conditional stock update touches zero
// rows: the guarded decrement would have driven stock below zero.
var ErrStockGuard = errors.New("stock guard rejected update")

// translate maps driver-level failures onto the shared error taxonomy.
// Lock waits, deadlocks and serialization conflicts surface as retryable
// Busy errors. Record-not-found and duplicate-key pass through untouched
// because only the caller knows which entity was involved.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40001", "40P01": // lock_not_available, serialization_failure, deadlock_detected
			return apperr.Busy(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Busy(err)
	}
	return apperr.Storage(err)
}
