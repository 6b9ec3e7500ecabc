package storagemodels

import (
	"time"
)

// SelectChunk is one records payload streamed back from a select query,
// or the error that terminated the stream.
type SelectChunk struct {
	Payload []byte    // Raw record bytes
	Error   error     // Stream-terminating error, if any
	Meta    ChunkMeta // Metadata about this chunk
}

// ChunkMeta contains metadata about a streamed chunk
type ChunkMeta struct {
	Index     int64     // Chunk index in stream (0-based)
	Attempt   int       // Query attempt that produced it (0-based)
	Timestamp time.Time // When the chunk was received
}

// SelectOptions configures select query behavior
type SelectOptions struct {
	BufferSize   int           // Channel buffer size (default: 16)
	MaxRetries   int           // Retry attempts for transient errors (default: 0)
	RetryBackoff time.Duration // Backoff between retries (default: 1s)
	Timeout      time.Duration // Bound on each query call (default: 60s)
}

// SelectOption is a functional option for configuring select queries
type SelectOption func(*SelectOptions)

// DefaultSelectOptions returns default select options
func DefaultSelectOptions() SelectOptions {
	return SelectOptions{
		BufferSize:   16,
		MaxRetries:   0,
		RetryBackoff: time.Second,
		Timeout:      60 * time.Second,
	}
}

// WithBufferSize sets the channel buffer size
func WithBufferSize(size int) SelectOption {
	return func(opts *SelectOptions) {
		opts.BufferSize = size
	}
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) SelectOption {
	return func(opts *SelectOptions) {
		opts.MaxRetries = retries
	}
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) SelectOption {
	return func(opts *SelectOptions) {
		opts.RetryBackoff = backoff
	}
}

// WithTimeout bounds each select call
func WithTimeout(timeout time.Duration) SelectOption {
	return func(opts *SelectOptions) {
		opts.Timeout = timeout
	}
}
