package repository

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports why a reservation was refused. Available
// is the stock observed at failure time; it is best-effort and meant for
// messaging, not for follow-up decisions.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested=%d available=%d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Product is the stock-bearing product record. Stock is the single
// source of truth for availability and never goes below zero.
type Product struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// StockLedger is the only mutation path to a product's stock counter.
// Every implementation must apply TryReserve as one atomic conditional
// decrement with respect to concurrent calls on the same product.
type StockLedger interface {
	// Get returns the current product record, ErrNotFound if absent.
	Get(ctx context.Context, productID string) (*Product, error)

	// TryReserve decrements stock by quantity if and only if the current
	// stock covers it, as a single atomic step. It returns the remaining
	// stock on success, ErrNotFound, or an *InsufficientStockError.
	// Quantity must be positive; callers enforce that.
	TryReserve(ctx context.Context, productID string, quantity int) (int, error)

	// Release adds quantity back to stock. It is used only to compensate
	// a previously successful TryReserve and assumes correct callers; it
	// does not deduplicate.
	Release(ctx context.Context, productID string, quantity int) error

	// Adjust applies a signed delta to stock through the same atomic
	// primitive (admin stock edits must never blind-overwrite the
	// counter). A negative delta is refused if it would drop stock below
	// zero. Returns the new stock value.
	Adjust(ctx context.Context, productID string, delta int) (int, error)

	// Set creates or replaces a product record (seeding/admin).
	Set(ctx context.Context, p *Product) error
}
