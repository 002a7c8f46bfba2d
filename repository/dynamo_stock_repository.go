package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStockLedger implements StockLedger using DynamoDB conditional
// updates. The condition expression makes TryReserve a single atomic
// check-and-decrement, same contract as the Mongo backend.
type DynamoStockLedger struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoStockLedger creates a DynamoDB backed stock ledger
func NewDynamoStockLedger(client *dynamodb.Client, table string) *DynamoStockLedger {
	return &DynamoStockLedger{client: client, table: table}
}

type ddbProduct struct {
	ProductID string `dynamodbav:"product_id"`
	Name      string `dynamodbav:"name"`
	Stock     int    `dynamodbav:"stock"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func (r *DynamoStockLedger) key(productID string) (map[string]types.AttributeValue, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return key, nil
}

func (r *DynamoStockLedger) Get(ctx context.Context, productID string) (*Product, error) {
	key, err := r.key(productID)
	if err != nil {
		return nil, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &Product{ProductID: dp.ProductID, Name: dp.Name, Stock: dp.Stock}, nil
}

func (r *DynamoStockLedger) TryReserve(ctx context.Context, productID string, quantity int) (int, error) {
	key, err := r.key(productID)
	if err != nil {
		return 0, err
	}

	expr := "SET #stock = #stock - :qty, updated_at = :now"
	condExpr := "#stock >= :qty"

	qtyAV, _ := attributevalue.Marshal(quantity)
	nowAV, _ := attributevalue.Marshal(time.Now().UTC().Format(time.RFC3339))

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &r.table,
		Key:                 key,
		UpdateExpression:    &expr,
		ConditionExpression: &condExpr,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qty": qtyAV,
			":now": nowAV,
		},
		ExpressionAttributeNames: map[string]string{
			"#stock": "stock",
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// the condition also fails when the item is absent entirely
			p, gerr := r.Get(ctx, productID)
			if gerr != nil {
				if errors.Is(gerr, ErrNotFound) {
					return 0, ErrNotFound
				}
				return 0, gerr
			}
			return 0, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: p.Stock}
		}
		return 0, fmt.Errorf("reserve failed: %w", err)
	}

	return remainingStock(out.Attributes)
}

func (r *DynamoStockLedger) Release(ctx context.Context, productID string, quantity int) error {
	key, err := r.key(productID)
	if err != nil {
		return err
	}

	expr := "SET #stock = #stock + :qty, updated_at = :now"
	condExpr := "attribute_exists(product_id)"

	qtyAV, _ := attributevalue.Marshal(quantity)
	nowAV, _ := attributevalue.Marshal(time.Now().UTC().Format(time.RFC3339))

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &r.table,
		Key:                 key,
		UpdateExpression:    &expr,
		ConditionExpression: &condExpr,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qty": qtyAV,
			":now": nowAV,
		},
		ExpressionAttributeNames: map[string]string{
			"#stock": "stock",
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("release failed: %w", err)
	}
	return nil
}

func (r *DynamoStockLedger) Adjust(ctx context.Context, productID string, delta int) (int, error) {
	key, err := r.key(productID)
	if err != nil {
		return 0, err
	}

	expr := "SET #stock = #stock + :delta, updated_at = :now"
	condExpr := "attribute_exists(product_id)"
	values := map[string]types.AttributeValue{}

	deltaAV, _ := attributevalue.Marshal(delta)
	nowAV, _ := attributevalue.Marshal(time.Now().UTC().Format(time.RFC3339))
	values[":delta"] = deltaAV
	values[":now"] = nowAV

	if delta < 0 {
		condExpr = "attribute_exists(product_id) AND #stock >= :abs"
		absAV, _ := attributevalue.Marshal(-delta)
		values[":abs"] = absAV
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       key,
		UpdateExpression:          &expr,
		ConditionExpression:       &condExpr,
		ExpressionAttributeValues: values,
		ExpressionAttributeNames: map[string]string{
			"#stock": "stock",
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			p, gerr := r.Get(ctx, productID)
			if gerr != nil {
				if errors.Is(gerr, ErrNotFound) {
					return 0, ErrNotFound
				}
				return 0, gerr
			}
			return 0, &InsufficientStockError{ProductID: productID, Requested: -delta, Available: p.Stock}
		}
		return 0, fmt.Errorf("adjust failed: %w", err)
	}

	return remainingStock(out.Attributes)
}

func (r *DynamoStockLedger) Set(ctx context.Context, p *Product) error {
	dp := ddbProduct{
		ProductID: p.ProductID,
		Name:      p.Name,
		Stock:     p.Stock,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	item, err := attributevalue.MarshalMap(dp)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

// remainingStock extracts the post-update stock value from UPDATED_NEW
// attributes.
func remainingStock(attrs map[string]types.AttributeValue) (int, error) {
	av, ok := attrs["stock"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("missing stock attribute in update result")
	}
	n, err := strconv.Atoi(av.Value)
	if err != nil {
		return 0, fmt.Errorf("parse stock attribute: %w", err)
	}
	return n, nil
}
