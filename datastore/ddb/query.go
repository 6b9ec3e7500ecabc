/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/logreport/datastore"
	storeerrors "github.com/suparena/logreport/errors"
)

// buildQueryInput turns key-range parameters into a key condition on PK and SK.
func (d *DynamodbDataStore[T]) buildQueryInput(params *datastore.QueryParams) (*sdk.QueryInput, error) {
	if params == nil || params.PartitionKey == "" {
		return nil, storeerrors.NewValidationError("partitionKey", "is required")
	}

	cond := "#pk = :pk"
	names := map[string]string{"#pk": "PK"}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: params.PartitionKey},
	}

	from, to := params.SortKeyFrom, params.SortKeyTo
	switch {
	case from != nil && to != nil:
		cond += " AND #sk BETWEEN :from AND :to"
	case from != nil:
		cond += " AND #sk >= :from"
	case to != nil:
		cond += " AND #sk <= :to"
	}
	if from != nil {
		values[":from"] = &types.AttributeValueMemberS{Value: *from}
	}
	if to != nil {
		values[":to"] = &types.AttributeValueMemberS{Value: *to}
	}
	if from != nil || to != nil {
		names["#sk"] = "SK"
	}

	return &sdk.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(!params.Descending),
		Limit:                     params.PageSize,
	}, nil
}

// Query reads every page under the partition key.
func (d *DynamodbDataStore[T]) Query(ctx context.Context, params *datastore.QueryParams) ([]T, error) {
	input, err := d.buildQueryInput(params)
	if err != nil {
		return nil, err
	}

	var results []T
	paginator := sdk.NewQueryPaginator(d.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query error: %w", err)
		}
		for _, item := range out.Items {
			var entity T
			if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
				return nil, fmt.Errorf("failed to unmarshal item: %w", err)
			}
			results = append(results, entity)
		}
	}

	d.logger.Debug("query complete",
		zap.String("table", d.tableName),
		zap.String("pk", params.PartitionKey),
		zap.Int("items", len(results)))
	return results, nil
}
