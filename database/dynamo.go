package database

import (
	"context"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	awspkg "github.com/abrekoglu/lignovia-store-sub001/aws"
)

// NewDynamoDBClient builds a DynamoDB client from the ambient AWS config.
// AWS_ENDPOINT redirects the client to LocalStack for local development.
func NewDynamoDBClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := os.Getenv("AWS_ENDPOINT")
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})
	return client, nil
}
