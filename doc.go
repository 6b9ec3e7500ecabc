/*
Package logreport turns an identity-provider audit-log archive kept in S3 into
CSV and PDF activity reports.

The archive holds gzip-compressed JSON-lines objects whose keys embed a
timestamp. A run:
  - lists the objects under a prefix
  - keeps the objects whose key timestamp lies in the requested date range
  - runs an S3 Select query per object for seven user lifecycle and membership event types
  - normalizes the CSV rows returned into fixed nine-field events
  - renders a CSV file and a paginated landscape PDF table

Failures on one object, one response or one artifact are collected as
diagnostics and never stop the run. Normalized events can optionally be
archived to a DynamoDB table and listed later.

Basic Usage:

	store, _ := s3store.NewS3ObjectStore(ctx, accessKey, secretKey, "us-east-1", logger)
	p := pipeline.New(store, pipeline.WithLogger(logger))
	res, err := p.Run(ctx, storagemodels.DateRange{Start: start, End: end},
	    storagemodels.ReportContext{StartDate: "2024-01-01", EndDate: "2024-01-31"})

The logreport command in cmd/logreport wraps the same pipeline with
configuration loading, interactive date prompts and file output.
*/
package logreport
