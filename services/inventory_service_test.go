package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abrekoglu/lignovia-store-sub001/repository"
)

func TestInventoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns the product", func(t *testing.T) {
		ledger := newFakeLedger(&repository.Product{ProductID: "p1", Name: "Oak Shelf", Stock: 7})
		svc := NewInventoryService(ledger, nil)

		p, appErr := svc.GetStock(ctx, "p1")
		assert.Nil(t, appErr)
		assert.Equal(t, 7, p.Stock)
	})

	t.Run("get unknown product is a 404", func(t *testing.T) {
		svc := NewInventoryService(newFakeLedger(), nil)

		_, appErr := svc.GetStock(ctx, "ghost")
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusNotFound, appErr.Code)
		}
	})

	t.Run("set rejects negative stock", func(t *testing.T) {
		svc := NewInventoryService(newFakeLedger(), nil)

		appErr := svc.SetStock(ctx, &repository.Product{ProductID: "p1", Stock: -1})
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		}
	})

	t.Run("set seeds a new product", func(t *testing.T) {
		ledger := newFakeLedger()
		svc := NewInventoryService(ledger, nil)

		appErr := svc.SetStock(ctx, &repository.Product{ProductID: "p1", Name: "Oak Shelf", Stock: 12})
		assert.Nil(t, appErr)
		assert.Equal(t, 12, ledger.stockOf(t, "p1"))
	})

	t.Run("adjust applies a signed delta", func(t *testing.T) {
		ledger := newFakeLedger(&repository.Product{ProductID: "p1", Name: "Oak Shelf", Stock: 4})
		svc := NewInventoryService(ledger, nil)

		newStock, appErr := svc.AdjustStock(ctx, "p1", -3)
		assert.Nil(t, appErr)
		assert.Equal(t, 1, newStock)

		newStock, appErr = svc.AdjustStock(ctx, "p1", 9)
		assert.Nil(t, appErr)
		assert.Equal(t, 10, newStock)
	})

	t.Run("adjust refuses to go below zero", func(t *testing.T) {
		ledger := newFakeLedger(&repository.Product{ProductID: "p1", Name: "Oak Shelf", Stock: 2})
		svc := NewInventoryService(ledger, nil)

		_, appErr := svc.AdjustStock(ctx, "p1", -5)
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusConflict, appErr.Code)
		}
		assert.Equal(t, 2, ledger.stockOf(t, "p1"))
	})

	t.Run("adjust rejects a zero delta", func(t *testing.T) {
		svc := NewInventoryService(newFakeLedger(), nil)

		_, appErr := svc.AdjustStock(ctx, "p1", 0)
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		}
	})
}
