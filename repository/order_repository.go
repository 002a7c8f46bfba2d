package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/abrekoglu/lignovia-store-sub001/models"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
}

// MongoOrderRepository implements OrderRepository on the orders collection
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoOrderRepository
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

// Create inserts the order document. The order is written exactly once;
// a duplicate id is surfaced as an error, never merged.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("mongodb InsertOne failed: %w", err)
	}
	return nil
}

// FindByID retrieves a single order by id
func (r *MongoOrderRepository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongodb FindOne failed: %w", err)
	}
	return &order, nil
}
