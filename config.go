package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the checkout service.
type Config struct {
	Port          string        // Service port (default: 8085)
	Env           string        // "production" or "development"
	MongoURI      string        // MongoDB connection string
	MongoDatabase string        // Store database name
	StockBackend  string        // "mongo" (default) or "dynamo"
	DDBTable      string        // DynamoDB table name when StockBackend=dynamo
	KafkaBrokers  []string      // Kafka brokers; empty disables event publishing
	OrderTopic    string        // Topic for order-created events
	SNSTopicArn   string        // SNS topic for best-effort order events; empty disables
	CheckoutTTL   time.Duration // Deadline for the whole reserve + record sequence
}

// LoadConfig loads environment variables into Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          os.Getenv("PORT"),
		Env:           os.Getenv("ENV"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: os.Getenv("MONGO_DB"),
		StockBackend:  os.Getenv("STOCK_BACKEND"),
		DDBTable:      os.Getenv("DDB_TABLE_PRODUCTS"),
		OrderTopic:    os.Getenv("ORDER_TOPIC"),
		SNSTopicArn:   os.Getenv("SNS_ORDER_TOPIC_ARN"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.Port == "" {
		cfg.Port = "8085"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "lignovia"
	}
	if cfg.StockBackend == "" {
		cfg.StockBackend = "mongo"
	}
	if cfg.StockBackend != "mongo" && cfg.StockBackend != "dynamo" {
		return nil, fmt.Errorf("unknown STOCK_BACKEND %q", cfg.StockBackend)
	}
	if cfg.DDBTable == "" {
		cfg.DDBTable = "Products"
	}
	if cfg.OrderTopic == "" {
		cfg.OrderTopic = "order-events"
	}

	cfg.CheckoutTTL = 15 * time.Second
	if v := os.Getenv("CHECKOUT_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid CHECKOUT_TIMEOUT_SECONDS %q", v)
		}
		cfg.CheckoutTTL = time.Duration(secs) * time.Second
	}

	return cfg, nil
}
