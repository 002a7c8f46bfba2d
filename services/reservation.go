package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	awspkg "github.com/abrekoglu/lignovia-store-sub001/aws"
	apperrors "github.com/abrekoglu/lignovia-store-sub001/errors"
	"github.com/abrekoglu/lignovia-store-sub001/logger"
	"github.com/abrekoglu/lignovia-store-sub001/models"
	"github.com/abrekoglu/lignovia-store-sub001/repository"
)

// ReservedItem is one committed reservation. The coordinator keeps the
// list so a later failure can undo exactly what was decremented.
type ReservedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Remaining int    `json:"remaining"`
}

// ReservationCoordinator drives the per-item reserve-or-fail sequence
// across a cart against the stock ledger.
type ReservationCoordinator struct {
	ledger  repository.StockLedger
	metrics *awspkg.MetricsClient
}

// NewReservationCoordinator creates a new ReservationCoordinator
func NewReservationCoordinator(ledger repository.StockLedger, metrics *awspkg.MetricsClient) *ReservationCoordinator {
	return &ReservationCoordinator{ledger: ledger, metrics: metrics}
}

// ReserveAll reserves stock for each item in request order. Items are
// processed sequentially: the first failure stops the walk, every prior
// success is released, and the failure is returned. On full success the
// committed list is returned in cart order.
func (c *ReservationCoordinator) ReserveAll(ctx context.Context, items []models.CheckoutItem) ([]ReservedItem, *apperrors.Error) {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, apperrors.New(http.StatusBadRequest,
				fmt.Sprintf("invalid quantity %d for product %s", it.Quantity, it.ProductID), nil)
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, apperrors.New(http.StatusBadRequest,
				fmt.Sprintf("product %s appears more than once in the order", it.ProductID), nil)
		}
		seen[it.ProductID] = struct{}{}
	}

	committed := make([]ReservedItem, 0, len(items))
	for _, it := range items {
		remaining, err := c.ledger.TryReserve(ctx, it.ProductID, it.Quantity)
		if err != nil {
			// undo everything reserved so far, then report the failure
			c.ReleaseAll(ctx, committed)

			var ise *repository.InsufficientStockError
			switch {
			case errors.As(err, &ise):
				return nil, apperrors.New(http.StatusConflict,
					fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
						c.productName(ctx, it.ProductID), ise.Requested, ise.Available), err)
			case errors.Is(err, repository.ErrNotFound):
				return nil, apperrors.New(http.StatusNotFound,
					fmt.Sprintf("product %s not found", it.ProductID), err)
			default:
				return nil, apperrors.New(http.StatusInternalServerError, "failed to reserve stock", err)
			}
		}

		committed = append(committed, ReservedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Remaining: remaining,
		})
		if c.metrics != nil {
			_ = c.metrics.RecordCount(ctx, awspkg.MetricStockReserved, map[string]string{"Product": it.ProductID})
		}
	}

	return committed, nil
}

// ReleaseAll releases the given committed reservations. A failed release
// is logged and counted but never retried or escalated; the remaining
// entries are still released, so a store error here can leave inventory
// under-restored.
//
// The releases run detached from the caller's cancellation: compensation
// is most often needed exactly when the request deadline has expired, and
// an expired context would fail every release before it reached the store.
func (c *ReservationCoordinator) ReleaseAll(ctx context.Context, committed []ReservedItem) {
	ctx = context.WithoutCancel(ctx)
	for _, r := range committed {
		if err := c.ledger.Release(ctx, r.ProductID, r.Quantity); err != nil {
			logger.Error(ctx, "stock release failed", err,
				zap.String("product_id", r.ProductID), zap.Int("quantity", r.Quantity))
			if c.metrics != nil {
				_ = c.metrics.RecordCount(ctx, awspkg.MetricStockReleaseFailed, map[string]string{"Product": r.ProductID})
			}
			continue
		}
		if c.metrics != nil {
			_ = c.metrics.RecordCount(ctx, awspkg.MetricStockReleased, map[string]string{"Product": r.ProductID})
		}
	}
}

// productName resolves a display name for error messages, falling back
// to the id when the lookup fails.
func (c *ReservationCoordinator) productName(ctx context.Context, productID string) string {
	p, err := c.ledger.Get(ctx, productID)
	if err != nil || p.Name == "" {
		return productID
	}
	return p.Name
}
