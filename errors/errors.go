/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrUnrecognizedKeyFormat is returned when an object key carries no parseable timestamp
	ErrUnrecognizedKeyFormat = errors.New("unrecognized object key format")

	// ErrQueryExecution is returned when a server-side select query fails for an object
	ErrQueryExecution = errors.New("query execution failed")

	// ErrRowParse is returned when a query response cannot be parsed as CSV
	ErrRowParse = errors.New("row parse failed")

	// ErrTruncatedRow is returned when a row carries more columns than the event schema holds
	ErrTruncatedRow = errors.New("row truncated")

	// ErrRenderEncoding is returned when a field cannot be re-encoded for the PDF renderer
	ErrRenderEncoding = errors.New("incompatible string encoding")

	// ErrArchive is returned when an event cannot be written to the archive table
	ErrArchive = errors.New("archive write failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrNoIndexMap is returned when no index map is found for a type
	ErrNoIndexMap = errors.New("no index map found for type")
)

// UnrecognizedKeyError represents an object key without an embedded timestamp
type UnrecognizedKeyError struct {
	Key string
}

func (e *UnrecognizedKeyError) Error() string {
	return fmt.Sprintf("unable to find timestamp in %s", e.Key)
}

func (e *UnrecognizedKeyError) Is(target error) bool {
	return target == ErrUnrecognizedKeyFormat
}

// QueryError represents a failed select query against one object
type QueryError struct {
	Key string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query against %q failed: %v", e.Key, e.Err)
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQueryExecution
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// RowParseError represents a response text (or a single row of it) that could not be mapped.
// Row is -1 when the whole input was rejected.
type RowParseError struct {
	Input int
	Row   int
	Err   error
}

func (e *RowParseError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("response %d: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("response %d row %d: %v", e.Input, e.Row, e.Err)
}

func (e *RowParseError) Is(target error) bool {
	return target == ErrRowParse
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}

// TruncatedRowError represents a row whose trailing columns were discarded
type TruncatedRowError struct {
	Input   int
	Row     int
	Columns int
	Kept    int
}

func (e *TruncatedRowError) Error() string {
	return fmt.Sprintf("response %d row %d: %d columns, only the first %d were mapped", e.Input, e.Row, e.Columns, e.Kept)
}

func (e *TruncatedRowError) Is(target error) bool {
	return target == ErrTruncatedRow
}

// RenderEncodingError represents a field the PDF renderer cannot encode
type RenderEncodingError struct {
	Field string
	Value string
	Err   error
}

func (e *RenderEncodingError) Error() string {
	return fmt.Sprintf("field %s value %q is incompatible with ISO-8859-1: %v", e.Field, e.Value, e.Err)
}

func (e *RenderEncodingError) Is(target error) bool {
	return target == ErrRenderEncoding
}

func (e *RenderEncodingError) Unwrap() error {
	return e.Err
}

// ArchiveError represents a failed archive write for one event
type ArchiveError struct {
	Key string
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Key, e.Err)
}

func (e *ArchiveError) Is(target error) bool {
	return target == ErrArchive
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Helper functions for creating errors

// NewUnrecognizedKeyError creates a new UnrecognizedKeyError
func NewUnrecognizedKeyError(key string) error {
	return &UnrecognizedKeyError{Key: key}
}

// NewQueryError creates a new QueryError
func NewQueryError(key string, err error) error {
	return &QueryError{Key: key, Err: err}
}

// NewRowParseError creates a new RowParseError
func NewRowParseError(input, row int, err error) error {
	return &RowParseError{Input: input, Row: row, Err: err}
}

// NewTruncatedRowError creates a new TruncatedRowError
func NewTruncatedRowError(input, row, columns, kept int) error {
	return &TruncatedRowError{Input: input, Row: row, Columns: columns, Kept: kept}
}

// NewRenderEncodingError creates a new RenderEncodingError
func NewRenderEncodingError(field, value string, err error) error {
	return &RenderEncodingError{Field: field, Value: value, Err: err}
}

// NewArchiveError creates a new ArchiveError
func NewArchiveError(key string, err error) error {
	return &ArchiveError{Key: key, Err: err}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// IsUnrecognizedKeyFormat checks if an error is an unrecognized key error
func IsUnrecognizedKeyFormat(err error) bool {
	return errors.Is(err, ErrUnrecognizedKeyFormat)
}

// IsQueryExecution checks if an error is a query execution error
func IsQueryExecution(err error) bool {
	return errors.Is(err, ErrQueryExecution)
}

// IsRowParse checks if an error is a row parse error
func IsRowParse(err error) bool {
	return errors.Is(err, ErrRowParse)
}

// IsTruncatedRow checks if an error is a truncated row error
func IsTruncatedRow(err error) bool {
	return errors.Is(err, ErrTruncatedRow)
}

// IsRenderEncoding checks if an error is a render encoding error
func IsRenderEncoding(err error) bool {
	return errors.Is(err, ErrRenderEncoding)
}

// IsArchive checks if an error is an archive error
func IsArchive(err error) bool {
	return errors.Is(err, ErrArchive)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Kind returns a short label for the diagnostic class of err.
func Kind(err error) string {
	switch {
	case IsUnrecognizedKeyFormat(err):
		return "UnrecognizedKeyFormat"
	case IsQueryExecution(err):
		return "QueryExecutionFailure"
	case IsRowParse(err):
		return "RowParseFailure"
	case IsTruncatedRow(err):
		return "TruncatedRow"
	case IsRenderEncoding(err):
		return "RenderEncodingFailure"
	case IsArchive(err):
		return "ArchiveFailure"
	case IsValidationError(err):
		return "ValidationError"
	case IsNotFound(err):
		return "NotFound"
	default:
		return "Error"
	}
}
