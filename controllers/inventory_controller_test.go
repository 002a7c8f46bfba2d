package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/abrekoglu/lignovia-store-sub001/repository"
	"github.com/abrekoglu/lignovia-store-sub001/services"
)

// memLedger backs the inventory handler tests with an in-memory store.
type memLedger struct {
	mu       sync.Mutex
	products map[string]*repository.Product
}

func newMemLedger(products ...*repository.Product) *memLedger {
	m := &memLedger{products: make(map[string]*repository.Product)}
	for _, p := range products {
		cp := *p
		m.products[p.ProductID] = &cp
	}
	return m
}

func (m *memLedger) Get(_ context.Context, productID string) (*repository.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memLedger) TryReserve(_ context.Context, productID string, quantity int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if p.Stock < quantity {
		return 0, &repository.InsufficientStockError{ProductID: productID, Requested: quantity, Available: p.Stock}
	}
	p.Stock -= quantity
	return p.Stock, nil
}

func (m *memLedger) Release(_ context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock += quantity
	return nil
}

func (m *memLedger) Adjust(_ context.Context, productID string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return 0, &repository.InsufficientStockError{ProductID: productID, Requested: -delta, Available: p.Stock}
	}
	p.Stock += delta
	return p.Stock, nil
}

func (m *memLedger) Set(_ context.Context, p *repository.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ProductID] = &cp
	return nil
}

func inventoryRouter(ledger repository.StockLedger) *gin.Engine {
	r := gin.New()
	ic := NewInventoryController(services.NewInventoryService(ledger, nil))
	inv := r.Group("/inventory")
	{
		inv.GET("/:productId", ic.GetStock)
		inv.POST("", ic.SetStock)
		inv.POST("/adjust", ic.AdjustStock)
	}
	return r
}

func TestInventoryHandlers(t *testing.T) {
	t.Run("get returns the stock record", func(t *testing.T) {
		r := inventoryRouter(newMemLedger(&repository.Product{ProductID: "p1", Name: "Oak Shelf", Stock: 6}))

		req := httptest.NewRequest(http.MethodGet, "/inventory/p1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var p repository.Product
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, 6, p.Stock)
	})

	t.Run("get unknown product is a 404", func(t *testing.T) {
		r := inventoryRouter(newMemLedger())

		req := httptest.NewRequest(http.MethodGet, "/inventory/ghost", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("set seeds a product", func(t *testing.T) {
		ledger := newMemLedger()
		r := inventoryRouter(ledger)

		body, _ := json.Marshal(map[string]any{"product_id": "p1", "name": "Oak Shelf", "stock": 9})
		req := httptest.NewRequest(http.MethodPost, "/inventory", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		p, err := ledger.Get(context.Background(), "p1")
		assert.NoError(t, err)
		assert.Equal(t, 9, p.Stock)
	})

	t.Run("set rejects negative stock at binding", func(t *testing.T) {
		r := inventoryRouter(newMemLedger())

		body, _ := json.Marshal(map[string]any{"product_id": "p1", "stock": -2})
		req := httptest.NewRequest(http.MethodPost, "/inventory", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("adjust applies a delta and returns the new stock", func(t *testing.T) {
		r := inventoryRouter(newMemLedger(&repository.Product{ProductID: "p1", Name: "Oak Shelf", Stock: 5}))

		body, _ := json.Marshal(map[string]any{"product_id": "p1", "delta": -2})
		req := httptest.NewRequest(http.MethodPost, "/inventory/adjust", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"stock":3`)
	})

	t.Run("adjust below zero is a conflict", func(t *testing.T) {
		r := inventoryRouter(newMemLedger(&repository.Product{ProductID: "p1", Name: "Oak Shelf", Stock: 1}))

		body, _ := json.Marshal(map[string]any{"product_id": "p1", "delta": -4})
		req := httptest.NewRequest(http.MethodPost, "/inventory/adjust", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
