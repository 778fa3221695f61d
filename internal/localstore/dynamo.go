package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Dynamo stores the blob as a single DynamoDB item keyed by profile.
type Dynamo struct {
	client    *dynamodb.Client
	tableName string
	key       string
}

type dynamoBlob struct {
	ProfileKey string `dynamodbav:"profile_key"`
	Data       []byte `dynamodbav:"data"`
	UpdatedAt  string `dynamodbav:"updated_at"`
}

func NewDynamo(client *dynamodb.Client, tableName, key string) *Dynamo {
	return &Dynamo{
		client:    client,
		tableName: tableName,
		key:       key,
	}
}

func (d *Dynamo) Load(ctx context.Context) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"profile_key": &types.AttributeValueMemberS{Value: d.key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cart blob: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var blob dynamoBlob
	if err := attributevalue.UnmarshalMap(out.Item, &blob); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart blob: %w", err)
	}
	return blob.Data, nil
}

func (d *Dynamo) Save(ctx context.Context, data []byte) error {
	item := dynamoBlob{
		ProfileKey: d.key,
		Data:       data,
		UpdatedAt:  time.Now().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal cart blob: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put cart blob: %w", err)
	}
	return nil
}
