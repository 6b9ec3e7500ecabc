/*
Package datastore defines the storage capabilities the log report pipeline calls.

ObjectStore is the object-store capability: list keys under a prefix and run
a server-side select query whose records stream back as chunks:

	type ObjectStore interface {
	    ListObjects(ctx context.Context, params *storagemodels.ListParams) ([]storagemodels.StorageObject, error)
	    Select(ctx context.Context, params *storagemodels.SelectParams, opts ...storagemodels.SelectOption) <-chan storagemodels.SelectChunk
	}

DataStore[T] is the key-value capability used by the event archive:

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, key string) (*T, error)
	    Put(ctx context.Context, entity T) error
	    Scan(ctx context.Context, params *ScanParams) ([]T, error)
	    Query(ctx context.Context, params *QueryParams) ([]T, error)
	    Delete(ctx context.Context, key string) error
	}

Implementations:
  - s3store: S3 implementation of ObjectStore (ListObjectsV2, SelectObjectContent)
  - ddb: DynamoDB implementation of DataStore with macro-based key expansion
  - mock: In-memory implementations for testing
*/
package datastore
