package services

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	awspkg "github.com/abrekoglu/lignovia-store-sub001/aws"
	apperrors "github.com/abrekoglu/lignovia-store-sub001/errors"
	"github.com/abrekoglu/lignovia-store-sub001/logger"
	"github.com/abrekoglu/lignovia-store-sub001/repository"
)

// InventoryService handles admin stock operations. Every mutation goes
// through the ledger's atomic primitives; the stock counter is shared
// with in-flight checkouts and must never be blind-overwritten.
type InventoryService struct {
	ledger  repository.StockLedger
	metrics *awspkg.MetricsClient
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(ledger repository.StockLedger, metrics *awspkg.MetricsClient) *InventoryService {
	return &InventoryService{ledger: ledger, metrics: metrics}
}

// GetStock returns the current product record
func (s *InventoryService) GetStock(ctx context.Context, productID string) (*repository.Product, *apperrors.Error) {
	p, err := s.ledger.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(http.StatusNotFound, "product not found", err)
		}
		return nil, apperrors.New(http.StatusInternalServerError, "failed to fetch stock", err)
	}
	return p, nil
}

// SetStock creates or replaces a product record (seeding)
func (s *InventoryService) SetStock(ctx context.Context, p *repository.Product) *apperrors.Error {
	if p.Stock < 0 {
		return apperrors.New(http.StatusBadRequest, "stock must not be negative", nil)
	}
	if err := s.ledger.Set(ctx, p); err != nil {
		return apperrors.New(http.StatusInternalServerError, "failed to set stock", err)
	}
	logger.Info(ctx, "stock set",
		zap.String("product_id", p.ProductID), zap.Int("stock", p.Stock))
	return nil
}

// AdjustStock applies a signed delta through the atomic primitive. A
// negative delta that would drive stock below zero is refused.
func (s *InventoryService) AdjustStock(ctx context.Context, productID string, delta int) (int, *apperrors.Error) {
	if delta == 0 {
		return 0, apperrors.New(http.StatusBadRequest, "delta must not be zero", nil)
	}

	newStock, err := s.ledger.Adjust(ctx, productID, delta)
	if err != nil {
		var ise *repository.InsufficientStockError
		switch {
		case errors.As(err, &ise):
			return 0, apperrors.New(http.StatusConflict, "adjustment would drive stock below zero", err)
		case errors.Is(err, repository.ErrNotFound):
			return 0, apperrors.New(http.StatusNotFound, "product not found", err)
		default:
			return 0, apperrors.New(http.StatusInternalServerError, "failed to adjust stock", err)
		}
	}

	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricStockAdjusted, map[string]string{"Product": productID})
	}
	logger.Info(ctx, "stock adjusted",
		zap.String("product_id", productID), zap.Int("delta", delta), zap.Int("stock", newStock))
	return newStock, nil
}
