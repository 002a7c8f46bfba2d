package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStockLedger implements StockLedger on the products collection.
// Reservations are single-document conditional updates, so the check and
// the decrement are serialized per product by the storage engine.
type MongoStockLedger struct {
	collection *mongo.Collection
}

// NewMongoStockLedger creates a MongoDB backed stock ledger
func NewMongoStockLedger(db *mongo.Database) *MongoStockLedger {
	return &MongoStockLedger{collection: db.Collection("products")}
}

type mongoProduct struct {
	ProductID string    `bson:"_id"`
	Name      string    `bson:"name"`
	Stock     int       `bson:"stock"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *MongoStockLedger) Get(ctx context.Context, productID string) (*Product, error) {
	var mp mongoProduct
	err := r.collection.FindOne(ctx, bson.M{"_id": productID}).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongodb FindOne failed: %w", err)
	}
	return &Product{ProductID: mp.ProductID, Name: mp.Name, Stock: mp.Stock}, nil
}

func (r *MongoStockLedger) TryReserve(ctx context.Context, productID string, quantity int) (int, error) {
	filter := bson.M{"_id": productID, "stock": bson.M{"$gte": quantity}}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoProduct
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mp)
	if err == nil {
		return mp.Stock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("mongodb FindOneAndUpdate failed: %w", err)
	}

	// No matching document: either the product is missing or the stock
	// condition failed. Re-read to tell the two apart; the stock value
	// reported here may already be stale.
	p, gerr := r.Get(ctx, productID)
	if gerr != nil {
		if errors.Is(gerr, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, gerr
	}
	return 0, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: p.Stock}
}

func (r *MongoStockLedger) Release(ctx context.Context, productID string, quantity int) error {
	update := bson.M{
		"$inc": bson.M{"stock": quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return fmt.Errorf("mongodb UpdateOne failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStockLedger) Adjust(ctx context.Context, productID string, delta int) (int, error) {
	filter := bson.M{"_id": productID}
	if delta < 0 {
		// refuse adjustments that would drive stock negative
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoProduct
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mp)
	if err == nil {
		return mp.Stock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("mongodb FindOneAndUpdate failed: %w", err)
	}

	p, gerr := r.Get(ctx, productID)
	if gerr != nil {
		if errors.Is(gerr, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, gerr
	}
	return 0, &InsufficientStockError{ProductID: productID, Requested: -delta, Available: p.Stock}
}

func (r *MongoStockLedger) Set(ctx context.Context, p *Product) error {
	mp := mongoProduct{
		ProductID: p.ProductID,
		Name:      p.Name,
		Stock:     p.Stock,
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ProductID}, mp, opts); err != nil {
		return fmt.Errorf("mongodb ReplaceOne failed: %w", err)
	}
	return nil
}
