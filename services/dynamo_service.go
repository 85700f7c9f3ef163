package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fanlink_server/utils"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"
)

// Datastore is the document-store boundary the engines are written against.
// DynamoService is the production implementation; tests provide an
// in-memory one. The store's per-document atomicity is the serialization
// point for every conditional and counter operation.
type Datastore interface {
	GetItem(ctx context.Context, tableName string, key map[string]string, out interface{}) error
	PutItem(ctx context.Context, tableName string, item interface{}) error
	PutItemIfAbsent(ctx context.Context, tableName string, item interface{}, keyAttr string) error
	DeleteItem(ctx context.Context, tableName string, key map[string]string) error
	DeleteItemIfExists(ctx context.Context, tableName string, key map[string]string, keyAttr string) error
	AtomicAdd(ctx context.Context, tableName string, key map[string]string, field string, delta int) (int, error)
	SetField(ctx context.Context, tableName string, key map[string]string, field string, value interface{}) error
	AddToStringSet(ctx context.Context, tableName string, key map[string]string, field, member string) error
	AppendToList(ctx context.Context, tableName string, key map[string]string, field string, value interface{}) error
	QueryByField(ctx context.Context, tableName, indexName, field, value string, limit int32, out interface{}) error
	QueryByKey(ctx context.Context, tableName, keyAttr, keyValue string, limit int32, out interface{}) error
	ScanNumericAtMost(ctx context.Context, tableName, field string, max int64, out interface{}) error
	BatchDeleteItems(ctx context.Context, tableName string, keys []map[string]string) error
}

// DynamoService wraps the DynamoDB client with the generic document
// operations the engines need.
type DynamoService struct {
	Client *dynamodb.Client
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// GetItem retrieves a single document and unmarshals it into out.
// Returns ErrItemNotFound when no document has the given key.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]string, out interface{}) error {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key:       utils.StringKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}
	if output.Item == nil {
		return ErrItemNotFound
	}
	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item from table '%s': %w", tableName, err)
	}
	return nil
}

// PutItem writes a document, replacing any existing one with the same key.
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaledItem,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// PutItemIfAbsent writes a document only if no document with the same key
// exists yet. Returns ErrConditionFailed when one does — concurrent
// duplicate creates lose the race instead of overwriting.
func (ds *DynamoService) PutItemIfAbsent(ctx context.Context, tableName string, item interface{}, keyAttr string) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	condition := fmt.Sprintf("attribute_not_exists(%s)", keyAttr)
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &tableName,
		Item:                marshaledItem,
		ConditionExpression: &condition,
	})
	if err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return ErrConditionFailed
		}
		return fmt.Errorf("failed to conditionally put item in table '%s': %w", tableName, err)
	}
	return nil
}

// DeleteItem removes a document. Deleting an absent key is a no-op.
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]string) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &tableName,
		Key:       utils.StringKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}
	return nil
}

// DeleteItemIfExists removes a document only if it is present, returning
// ErrConditionFailed otherwise. Used where the caller must know whether it
// was the one that performed the removal.
func (ds *DynamoService) DeleteItemIfExists(ctx context.Context, tableName string, key map[string]string, keyAttr string) error {
	condition := fmt.Sprintf("attribute_exists(%s)", keyAttr)
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &tableName,
		Key:                 utils.StringKey(key),
		ConditionExpression: &condition,
	})
	if err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return ErrConditionFailed
		}
		return fmt.Errorf("failed to conditionally delete item from table '%s': %w", tableName, err)
	}
	return nil
}

// AtomicAdd adds delta to a numeric field and returns the new value.
// Decrements are conditional on the field covering the delta; when the
// condition fails the field is clamped to zero so counters never go
// negative.
func (ds *DynamoService) AtomicAdd(ctx context.Context, tableName string, key map[string]string, field string, delta int) (int, error) {
	updateExpression := "ADD #f :d"
	expressionNames := map[string]string{"#f": field}
	expressionValues := map[string]types.AttributeValue{
		":d": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 &tableName,
		Key:                       utils.StringKey(key),
		UpdateExpression:          &updateExpression,
		ExpressionAttributeNames:  expressionNames,
		ExpressionAttributeValues: expressionValues,
		ReturnValues:              types.ReturnValueAllNew,
	}

	if delta < 0 {
		condition := "#f >= :abs"
		expressionValues[":abs"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", -delta)}
		input.ConditionExpression = &condition
	}

	output, err := ds.Client.UpdateItem(ctx, input)
	if err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			// Counter below the decrement; clamp to the floor.
			if err := ds.SetField(ctx, tableName, key, field, 0); err != nil {
				return 0, err
			}
			return 0, nil
		}
		return 0, fmt.Errorf("failed to update counter '%s' in table '%s': %w", field, tableName, err)
	}

	return utils.ExtractNumber(output.Attributes, field), nil
}

// SetField sets a single attribute on an existing document.
func (ds *DynamoService) SetField(ctx context.Context, tableName string, key map[string]string, field string, value interface{}) error {
	marshaled, err := attributevalue.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal field value: %w", err)
	}
	updateExpression := "SET #f = :v"
	_, err = ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                &tableName,
		Key:                      utils.StringKey(key),
		UpdateExpression:         &updateExpression,
		ExpressionAttributeNames: map[string]string{"#f": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": marshaled,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set field '%s' in table '%s': %w", field, tableName, err)
	}
	return nil
}

// AddToStringSet adds a member to a string-set attribute. The ADD action is
// natively idempotent, which is what makes view tracking re-entrant.
func (ds *DynamoService) AddToStringSet(ctx context.Context, tableName string, key map[string]string, field, member string) error {
	updateExpression := "ADD #f :m"
	_, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                &tableName,
		Key:                      utils.StringKey(key),
		UpdateExpression:         &updateExpression,
		ExpressionAttributeNames: map[string]string{"#f": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":m": &types.AttributeValueMemberSS{Value: []string{member}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add to set '%s' in table '%s': %w", field, tableName, err)
	}
	return nil
}

// AppendToList appends a value to a list attribute, creating the list when
// it does not exist yet.
func (ds *DynamoService) AppendToList(ctx context.Context, tableName string, key map[string]string, field string, value interface{}) error {
	marshaled, err := attributevalue.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal list value: %w", err)
	}
	updateExpression := "SET #f = list_append(if_not_exists(#f, :empty), :newItem)"
	_, err = ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                &tableName,
		Key:                      utils.StringKey(key),
		UpdateExpression:         &updateExpression,
		ExpressionAttributeNames: map[string]string{"#f": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":newItem": &types.AttributeValueMemberL{Value: []types.AttributeValue{marshaled}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to append to list '%s' in table '%s': %w", field, tableName, err)
	}
	return nil
}

// QueryByField queries a GSI by attribute equality and unmarshals the
// matching documents into out.
func (ds *DynamoService) QueryByField(ctx context.Context, tableName, indexName, field, value string, limit int32, out interface{}) error {
	keyCondition := "#k = :v"
	output, err := ds.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                &tableName,
		IndexName:                &indexName,
		KeyConditionExpression:   &keyCondition,
		ExpressionAttributeNames: map[string]string{"#k": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		Limit: &limit,
	})
	if err != nil {
		return fmt.Errorf("failed to query GSI '%s' on table '%s': %w", indexName, tableName, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(output.Items, out); err != nil {
		return fmt.Errorf("failed to unmarshal query result: %w", err)
	}
	return nil
}

// QueryByKey queries a table by its partition key.
func (ds *DynamoService) QueryByKey(ctx context.Context, tableName, keyAttr, keyValue string, limit int32, out interface{}) error {
	keyCondition := "#k = :v"
	output, err := ds.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                &tableName,
		KeyConditionExpression:   &keyCondition,
		ExpressionAttributeNames: map[string]string{"#k": keyAttr},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: keyValue},
		},
		Limit: &limit,
	})
	if err != nil {
		return fmt.Errorf("failed to query table '%s': %w", tableName, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(output.Items, out); err != nil {
		return fmt.Errorf("failed to unmarshal query result: %w", err)
	}
	return nil
}

// ScanNumericAtMost scans the whole table for documents whose numeric field
// is <= max. Only the expiry sweep uses it; story tables stay small because
// the sweep keeps removing what this finds.
func (ds *DynamoService) ScanNumericAtMost(ctx context.Context, tableName, field string, max int64, out interface{}) error {
	filterExpression := "#f <= :max"
	output, err := ds.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                &tableName,
		FilterExpression:         &filterExpression,
		ExpressionAttributeNames: map[string]string{"#f": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":max": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", max)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to scan table '%s': %w", tableName, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(output.Items, out); err != nil {
		return fmt.Errorf("failed to unmarshal scan result: %w", err)
	}
	return nil
}

// BatchDeleteItems deletes multiple documents in batches of 25.
func (ds *DynamoService) BatchDeleteItems(ctx context.Context, tableName string, keys []map[string]string) error {
	const maxBatchSize = 25

	writeRequests := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		writeRequests = append(writeRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: utils.StringKey(key)},
		})
	}

	for i := 0; i < len(writeRequests); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(writeRequests) {
			end = len(writeRequests)
		}
		_, err := ds.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				tableName: writeRequests[i:end],
			},
		})
		if err != nil {
			return fmt.Errorf("failed to batch delete items from table '%s': %w", tableName, err)
		}
	}
	return nil
}

var _ Datastore = (*DynamoService)(nil)
