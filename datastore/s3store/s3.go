/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package s3store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/suparena/logreport/datastore"
	"github.com/suparena/logreport/storagemodels"
)

// API is the subset of the S3 client the object store calls.
type API interface {
	sdk.ListObjectsV2APIClient
	SelectObjectContent(ctx context.Context, params *sdk.SelectObjectContentInput, optFns ...func(*sdk.Options)) (*sdk.SelectObjectContentOutput, error)
}

// eventReader is satisfied by *sdk.SelectObjectContentEventStream.
type eventReader interface {
	Events() <-chan types.SelectObjectContentEventStream
	Close() error
	Err() error
}

// S3ObjectStore implements datastore.ObjectStore on top of Amazon S3.
type S3ObjectStore struct {
	client API
	logger *zap.Logger
	open   func(ctx context.Context, input *sdk.SelectObjectContentInput) (eventReader, error)
}

var _ datastore.ObjectStore = (*S3ObjectStore)(nil)

// NewS3Client initializes an S3 client using AWS credentials.
func NewS3Client(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := datastore.LoadAWSConfig(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, err
	}
	return sdk.NewFromConfig(cfg), nil
}

// NewS3ObjectStore constructs an S3ObjectStore with a freshly configured client.
func NewS3ObjectStore(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string, logger *zap.Logger) (*S3ObjectStore, error) {
	client, err := NewS3Client(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	logger.Debug("S3 client initialized", zap.String("region", awsRegion))
	return NewFromClient(client, logger), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client API, logger *zap.Logger) *S3ObjectStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &S3ObjectStore{client: client, logger: logger}
	s.open = s.openStream
	return s
}

// ListObjects returns every object under params.Prefix, following continuation tokens.
func (s *S3ObjectStore) ListObjects(ctx context.Context, params *storagemodels.ListParams) ([]storagemodels.StorageObject, error) {
	input := &sdk.ListObjectsV2Input{
		Bucket: aws.String(params.Bucket),
		Prefix: aws.String(params.Prefix),
	}
	if params.PageSize != nil {
		input.MaxKeys = params.PageSize
	}

	var objects []storagemodels.StorageObject
	paginator := sdk.NewListObjectsV2Paginator(s.client, input)
	pages := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListObjectsV2 error on page %d: %w", pages+1, err)
		}
		pages++

		for _, obj := range page.Contents {
			objects = append(objects, storagemodels.StorageObject{
				Key:          aws.ToString(obj.Key),
				LastModified: aws.ToTime(obj.LastModified),
				Size:         aws.ToInt64(obj.Size),
			})
		}
	}

	s.logger.Debug("listed objects",
		zap.String("bucket", params.Bucket),
		zap.String("prefix", params.Prefix),
		zap.Int("pages", pages),
		zap.Int("objects", len(objects)))
	return objects, nil
}

func (s *S3ObjectStore) openStream(ctx context.Context, input *sdk.SelectObjectContentInput) (eventReader, error) {
	out, err := s.client.SelectObjectContent(ctx, input)
	if err != nil {
		return nil, err
	}
	return out.GetStream(), nil
}

// buildSelectInput translates select parameters into the SDK request.
func buildSelectInput(params *storagemodels.SelectParams) (*sdk.SelectObjectContentInput, error) {
	if params.Key == "" {
		return nil, fmt.Errorf("select requires an object key")
	}
	if params.Expression == "" {
		return nil, fmt.Errorf("select requires an expression")
	}

	in := &types.InputSerialization{}
	switch params.Compression {
	case storagemodels.CompressionGzip:
		in.CompressionType = types.CompressionTypeGzip
	case storagemodels.CompressionNone, "":
		in.CompressionType = types.CompressionTypeNone
	default:
		return nil, fmt.Errorf("unsupported compression %q", params.Compression)
	}

	switch params.InputFormat {
	case storagemodels.InputJSONLines, "":
		in.JSON = &types.JSONInput{Type: types.JSONTypeLines}
	default:
		return nil, fmt.Errorf("unsupported input format %q", params.InputFormat)
	}

	if params.OutputFormat != "" && params.OutputFormat != storagemodels.OutputCSV {
		return nil, fmt.Errorf("unsupported output format %q", params.OutputFormat)
	}

	return &sdk.SelectObjectContentInput{
		Bucket:              aws.String(params.Bucket),
		Key:                 aws.String(params.Key),
		Expression:          aws.String(params.Expression),
		ExpressionType:      types.ExpressionTypeSql,
		InputSerialization:  in,
		OutputSerialization: &types.OutputSerialization{CSV: &types.CSVOutput{}},
	}, nil
}
