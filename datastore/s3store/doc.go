/*
Package s3store provides an Amazon S3 implementation of the ObjectStore interface.

The S3ObjectStore supports:
  - Prefix listing with automatic ListObjectsV2 pagination
  - SelectObjectContent queries over compressed JSON-lines objects
  - Streaming of records events in arrival order
  - A bounded timeout per query call and optional retries for throttling

Streaming:

	chunks := store.Select(ctx, &storagemodels.SelectParams{
	    Bucket:      "logs-archive",
	    Key:         key,
	    Expression:  expr,
	    Compression: storagemodels.CompressionGzip,
	    InputFormat: storagemodels.InputJSONLines,
	},
	    storagemodels.WithTimeout(30*time.Second),
	    storagemodels.WithMaxRetries(2),
	)
	for c := range chunks {
	    if c.Error != nil {
	        return c.Error
	    }
	    buf.Write(c.Payload)
	}

A failed attempt is retried only when it produced no records, so a retry can
never duplicate rows.
*/
package s3store
