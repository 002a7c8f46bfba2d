package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/abrekoglu/lignovia-store-sub001/aws"
	apperrors "github.com/abrekoglu/lignovia-store-sub001/errors"
	"github.com/abrekoglu/lignovia-store-sub001/kafka"
	"github.com/abrekoglu/lignovia-store-sub001/logger"
	"github.com/abrekoglu/lignovia-store-sub001/models"
	"github.com/abrekoglu/lignovia-store-sub001/repository"
)

const defaultCheckoutTimeout = 15 * time.Second

// CheckoutService is the single entry point for order placement. It
// validates the request, reserves stock through the coordinator, records
// the order, and maps every outcome to one structured result.
type CheckoutService struct {
	coordinator *ReservationCoordinator
	orders      repository.OrderRepository
	producer    kafka.ProducerAPI
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	metrics     *awspkg.MetricsClient
	timeout     time.Duration
}

// NewCheckoutService creates a new CheckoutService. producer and
// snsClient may be nil; events are then skipped.
func NewCheckoutService(
	coordinator *ReservationCoordinator,
	orders repository.OrderRepository,
	producer kafka.ProducerAPI,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	metrics *awspkg.MetricsClient,
	timeout time.Duration,
) *CheckoutService {
	if timeout <= 0 {
		timeout = defaultCheckoutTimeout
	}
	return &CheckoutService{
		coordinator: coordinator,
		orders:      orders,
		producer:    producer,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		timeout:     timeout,
	}
}

// PlaceOrder processes order placement
func (s *CheckoutService) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.PlaceOrderResponse, *apperrors.Error) {
	if appErr := validatePlaceOrder(req); appErr != nil {
		return nil, appErr
	}

	// bound reservation plus order write with one deadline; a timeout
	// mid-sequence takes the same compensation path as any other failure
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	committed, appErr := s.coordinator.ReserveAll(ctx, req.Items)
	if appErr != nil {
		if s.metrics != nil {
			_ = s.metrics.RecordCount(ctx, awspkg.MetricOrdersFailed, nil)
		}
		return nil, appErr
	}

	order := buildOrder(req)
	if err := s.orders.Create(ctx, order); err != nil {
		// The stock reserved above stays decremented when the order
		// insert fails; cleanup currently falls to operational tooling
		// watching the OrderWriteFailed metric.
		// TODO: release the committed reservations on order-write failure.
		logger.Error(ctx, "order insert failed after reservation", err,
			zap.String("order_id", order.ID), zap.Int("items", len(committed)))
		if s.metrics != nil {
			_ = s.metrics.RecordCount(ctx, awspkg.MetricOrderWriteFailed, nil)
		}
		return nil, apperrors.New(http.StatusInternalServerError, "failed to place order", err)
	}

	s.publishOrderCreated(ctx, order)

	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricOrdersPlaced, nil)
	}
	logger.Info(ctx, "order placed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total))

	return &models.PlaceOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
	}, nil
}

// GetOrder retrieves a previously placed order
func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*models.Order, *apperrors.Error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.New(http.StatusNotFound, "order not found", err)
		}
		return nil, apperrors.New(http.StatusInternalServerError, "failed to fetch order", err)
	}
	return order, nil
}

func buildOrder(req *models.PlaceOrderRequest) *models.Order {
	items := make([]models.OrderItem, 0, len(req.Items))
	var total float64
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		total += float64(it.Quantity) * it.UnitPrice
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	var billing *models.BillingSnapshot
	if req.Billing != nil {
		b := *req.Billing
		billing = &b
	}
	return &models.Order{
		ID:          id,
		OrderNumber: "ORD-" + now.Format("20060102-150405") + "-" + id[:8],
		Items:       items,
		Total:       total,
		Status:      models.OrderStatusPending,
		Shipping:    req.Shipping,
		Billing:     billing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// publishOrderCreated emits the order-created event to Kafka and SNS.
// Both are best-effort: a broker failure never fails the placement.
func (s *CheckoutService) publishOrderCreated(ctx context.Context, order *models.Order) {
	evt := models.OrderCreatedEvent{
		EventType:   models.EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Items:       order.Items,
		Total:       order.Total,
		Timestamp:   time.Now().UTC(),
	}

	if s.producer != nil {
		if err := s.producer.SendOrderCreated(ctx, evt); err != nil {
			logger.Warn(ctx, "kafka publish failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if s.snsClient != nil && s.snsTopicArn != "" {
		data, err := json.Marshal(evt)
		if err == nil {
			err = s.snsClient.Publish(ctx, s.snsTopicArn, data)
		}
		if err != nil {
			logger.Warn(ctx, "sns publish failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}

func validatePlaceOrder(req *models.PlaceOrderRequest) *apperrors.Error {
	if appErr := validateShipping(&req.Shipping); appErr != nil {
		return appErr
	}
	if appErr := validateBilling(req.Billing); appErr != nil {
		return appErr
	}

	if len(req.Items) == 0 {
		return apperrors.New(http.StatusBadRequest, "order must contain at least one item", nil)
	}
	seen := make(map[string]struct{}, len(req.Items))
	for _, it := range req.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return apperrors.New(http.StatusBadRequest, "item is missing a product id", nil)
		}
		if it.Quantity <= 0 {
			return apperrors.New(http.StatusBadRequest,
				fmt.Sprintf("invalid quantity %d for product %s", it.Quantity, it.ProductID), nil)
		}
		if it.UnitPrice < 0 {
			return apperrors.New(http.StatusBadRequest,
				fmt.Sprintf("invalid unit price for product %s", it.ProductID), nil)
		}
		if _, dup := seen[it.ProductID]; dup {
			return apperrors.New(http.StatusBadRequest,
				fmt.Sprintf("product %s appears more than once in the order", it.ProductID), nil)
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}

func validateShipping(s *models.ShippingSnapshot) *apperrors.Error {
	required := []struct {
		field string
		value string
	}{
		{"full name", s.FullName},
		{"phone", s.Phone},
		{"address", s.Address},
		{"city", s.City},
		{"postal code", s.PostalCode},
		{"country", s.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.New(http.StatusBadRequest,
				fmt.Sprintf("shipping %s is required", f.field), nil)
		}
	}
	return nil
}

func validateBilling(b *models.BillingSnapshot) *apperrors.Error {
	if b == nil {
		return nil
	}
	switch b.Type {
	case models.BillingTypeIndividual:
		return nil
	case models.BillingTypeCorporate:
		if strings.TrimSpace(b.CompanyName) == "" {
			return apperrors.New(http.StatusBadRequest, "corporate billing requires a company name", nil)
		}
		if strings.TrimSpace(b.TaxNumber) == "" {
			return apperrors.New(http.StatusBadRequest, "corporate billing requires a tax number", nil)
		}
		return nil
	default:
		return apperrors.New(http.StatusBadRequest,
			fmt.Sprintf("unknown billing type %q", b.Type), nil)
	}
}
