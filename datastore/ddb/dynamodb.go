/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/logreport/datastore"
	storeerrors "github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/registry"
)

// KeySeparator joins the partition and sort key in the string keys accepted
// by GetOne and Delete.
const KeySeparator = "|"

// API is the subset of the DynamoDB client the data store calls.
type API interface {
	sdk.ScanAPIClient
	sdk.QueryAPIClient
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// DynamodbDataStore implements datastore.DataStore[T] by using AWS DynamoDB as the underlying data store.
type DynamodbDataStore[T any] struct {
	client    API
	tableName string
	logger    *zap.Logger
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	// Convert keysInput to a map of attribute values
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))

	for fieldName, template := range indexMap {
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			val, ok := av[key]
			if !ok {
				return ""
			}

			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				// NULL, binary and set members have no key representation
				return ""
			}
		})
		res[fieldName] = expanded
	}

	return res, nil
}

// NewDynamoDBClient initializes a DynamoDB client using AWS credentials.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := datastore.LoadAWSConfig(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, err
	}
	return sdk.NewFromConfig(cfg), nil
}

// NewDynamodbDataStore constructs a new DynamodbDataStore for type T.
func NewDynamodbDataStore[T any](ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, awsDDBTableName string, logger *zap.Logger) (*DynamodbDataStore[T], error) {
	client, err := NewDynamoDBClient(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	if logger != nil {
		logger.Debug("DynamoDB client initialized",
			zap.String("table", awsDDBTableName),
			zap.String("region", awsRegion))
	}
	return NewFromClient[T](client, awsDDBTableName, logger), nil
}

// NewFromClient wraps an existing client.
func NewFromClient[T any](client API, tableName string, logger *zap.Logger) *DynamodbDataStore[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DynamodbDataStore[T]{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// KeyOf returns the "PK|SK" string key that GetOne and Delete accept for entity.
func KeyOf[T any](entity T) (string, error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return "", storeerrors.ErrNoIndexMap
	}
	expanded, err := expandMacros(indexMap, entity)
	if err != nil {
		return "", err
	}
	if expanded["PK"] == "" || expanded["SK"] == "" {
		return "", fmt.Errorf("expanded index map missing valid PK or SK")
	}
	return expanded["PK"] + KeySeparator + expanded["SK"], nil
}

// GetOne retrieves a single item from DynamoDB using a "PK|SK" string key.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, key string) (*T, error) {
	keyMap, err := buildKeyFromString(key)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		var zero T
		return nil, storeerrors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Put stores the given 'entity' using macros in the registered index map
// to populate the partition and sort keys.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, entity T) error {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return storeerrors.ErrNoIndexMap
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	expanded, err := expandMacros(indexMap, entity)
	if err != nil {
		return err
	}
	if _, err := buildKeyFromExpanded(expanded); err != nil {
		return err
	}

	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	av["EntityType"] = &types.AttributeValueMemberS{Value: entityTypeName[T]()}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// Scan reads the whole table, following LastEvaluatedKey, and unmarshals
// every item that passes the optional filter.
func (d *DynamodbDataStore[T]) Scan(ctx context.Context, params *datastore.ScanParams) ([]T, error) {
	input := &sdk.ScanInput{TableName: &d.tableName}
	if params != nil {
		input.FilterExpression = params.FilterExpression
		input.Limit = params.PageSize
		if len(params.ExpressionAttributeNames) > 0 {
			input.ExpressionAttributeNames = params.ExpressionAttributeNames
		}
		if len(params.ExpressionAttributeValues) > 0 {
			input.ExpressionAttributeValues = make(map[string]types.AttributeValue, len(params.ExpressionAttributeValues))
			for k, v := range params.ExpressionAttributeValues {
				input.ExpressionAttributeValues[k] = &types.AttributeValueMemberS{Value: v}
			}
		}
	}

	var results []T
	paginator := sdk.NewScanPaginator(d.client, input)
	pages := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to scan table %s: %w", d.tableName, err)
		}
		pages++

		for _, item := range out.Items {
			var entity T
			if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
				return nil, fmt.Errorf("failed to unmarshal item: %w", err)
			}
			results = append(results, entity)
		}
		if pages > 1 {
			d.logger.Debug("scanning for more items", zap.String("table", d.tableName), zap.Int("page", pages))
		}
	}

	return results, nil
}

// Delete removes an item from DynamoDB using a "PK|SK" string key.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, key string) error {
	keyMap, err := buildKeyFromString(key)
	if err != nil {
		return fmt.Errorf("failed to build key for Delete: %w", err)
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("delete condition failed: %w", err)
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
// It assumes that the expanded map has valid non-empty values for "PK" and "SK".
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// buildKeyFromString splits a "PK|SK" key.
func buildKeyFromString(key string) (map[string]types.AttributeValue, error) {
	pk, sk, ok := strings.Cut(key, KeySeparator)
	if !ok {
		return nil, storeerrors.NewValidationError("key", fmt.Sprintf("%q is not of the form PK%sSK", key, KeySeparator))
	}
	return buildKeyFromExpanded(map[string]string{"PK": pk, "SK": sk})
}

func entityTypeName[T any]() string {
	var zero T
	return reflect.TypeOf(zero).Name()
}
