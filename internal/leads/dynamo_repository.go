package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// leadItem is the DynamoDB shape: the lead plus its partition key.
type leadItem struct {
	Phone string `dynamodbav:"phone"`
	Lead
}

// DynamoRepository stores leads in a DynamoDB table keyed by phone.
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
}

// NewDynamoRepository builds a repo backed by the provided DynamoDB client.
func NewDynamoRepository(client dynamoAPI, tableName string) *DynamoRepository {
	if client == nil {
		panic("leads: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("leads: table name cannot be empty")
	}
	return &DynamoRepository{client: client, tableName: tableName}
}

func (r *DynamoRepository) key(phone string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"phone": &types.AttributeValueMemberS{Value: phone},
	}
}

func (r *DynamoRepository) get(ctx context.Context, phone string) (*Lead, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(phone),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("leads: dynamo get: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrLeadNotFound
	}
	var item leadItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("leads: unmarshal item: %w", err)
	}
	return &item.Lead, nil
}

func (r *DynamoRepository) put(ctx context.Context, phone string, lead *Lead) error {
	item, err := attributevalue.MarshalMap(leadItem{Phone: phone, Lead: *lead})
	if err != nil {
		return fmt.Errorf("leads: marshal item: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("leads: dynamo put: %w", err)
	}
	return nil
}

// GetOrCreate returns the stored lead or writes and returns a default one.
func (r *DynamoRepository) GetOrCreate(ctx context.Context, phone string) (*Lead, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	lead, err := r.get(ctx, phone)
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, ErrLeadNotFound) {
		return nil, err
	}
	now := time.Now().In(storeLocation())
	fresh := &Lead{CreatedAt: now, UpdatedAt: now}
	if err := r.put(ctx, phone, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Get returns the lead or ErrLeadNotFound.
func (r *DynamoRepository) Get(ctx context.Context, phone string) (*Lead, error) {
	return r.get(ctx, phone)
}

// Update merges the partial update and writes the whole item back.
// Last writer wins; the conversation handler serializes turns per phone.
func (r *DynamoRepository) Update(ctx context.Context, phone string, upd Update) (*Lead, error) {
	lead, err := r.GetOrCreate(ctx, phone)
	if err != nil {
		return nil, err
	}
	upd.apply(lead)
	lead.UpdatedAt = time.Now().In(storeLocation())
	if err := r.put(ctx, phone, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// Delete removes the item; absent phones are a no-op.
func (r *DynamoRepository) Delete(ctx context.Context, phone string) error {
	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(phone),
	}); err != nil {
		return fmt.Errorf("leads: dynamo delete: %w", err)
	}
	return nil
}

// List scans the whole table. The table is small (one item per customer).
func (r *DynamoRepository) List(ctx context.Context) (map[string]Lead, error) {
	out := make(map[string]Lead)
	var startKey map[string]types.AttributeValue
	for {
		page, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("leads: dynamo scan: %w", err)
		}
		for _, raw := range page.Items {
			var item leadItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("leads: unmarshal item: %w", err)
			}
			out[item.Phone] = item.Lead
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		startKey = page.LastEvaluatedKey
	}
	return out, nil
}
