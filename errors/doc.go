/*
Package errors provides semantic error types for the log report pipeline.

Every non-fatal failure the pipeline records wraps one of the sentinels below,
so callers classify diagnostics with the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrUnrecognizedKeyFormat = errors.New("unrecognized object key format")
	    ErrQueryExecution        = errors.New("query execution failed")
	    ErrRowParse              = errors.New("row parse failed")
	    ErrTruncatedRow          = errors.New("row truncated")
	    ErrRenderEncoding        = errors.New("incompatible string encoding")
	    ErrArchive               = errors.New("archive write failed")
	    ErrInvalidInput          = errors.New("invalid input")
	)

Usage:

	for _, d := range result.Diagnostics {
	    if errors.IsQueryExecution(d.Err) {
	        // the object's rows are missing from the report
	    }
	}

	// Create typed errors
	err := errors.NewQueryError(key, cause)
	err := errors.NewValidationError("start", "must not be after end")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
