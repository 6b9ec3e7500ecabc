/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/suparena/logreport/errors"
)

// NotApplicable fills target slots that were absent from the source event.
const NotApplicable = "not applicable"

// StorageObject describes one object returned by a prefix listing.
type StorageObject struct {
	Key          string
	LastModified time.Time
	Size         int64
}

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate fails when either bound is unset or Start is after End.
func (r DateRange) Validate() error {
	if r.Start.IsZero() {
		return errors.NewValidationError("start", "is required")
	}
	if r.End.IsZero() {
		return errors.NewValidationError("end", "is required")
	}
	if r.Start.After(r.End) {
		return errors.NewValidationError("start", "must not be after end")
	}
	return nil
}

// Contains reports whether t lies within the range, both bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// RawEventRow is one CSV row returned by the select query.
type RawEventRow []string

// QueryResponse is the concatenated CSV text a select query returned for one object.
type QueryResponse struct {
	Key  string
	Text string
}

// NormalizedEvent is the fixed-shape record rendered into both artifacts.
// Target fields never hold an empty value by absence; see NotApplicable.
type NormalizedEvent struct {
	EventType          string `json:"event_type" dynamodbav:"event_type"`
	ActorDisplayName   string `json:"actor_display_name" dynamodbav:"actor_display_name"`
	ActorAlternateID   string `json:"actor_alternate_id" dynamodbav:"actor_alternate_id"`
	ActorType          string `json:"actor_type" dynamodbav:"actor_type"`
	TargetDisplayName1 string `json:"target_display_name1" dynamodbav:"target_display_name1"`
	TargetDisplayName2 string `json:"target_display_name2" dynamodbav:"target_display_name2"`
	TargetDisplayName3 string `json:"target_display_name3" dynamodbav:"target_display_name3"`
	OutcomeResult      string `json:"outcome_result" dynamodbav:"outcome_result"`
	Published          string `json:"published" dynamodbav:"published"`
}

// EventFieldCount is the number of columns in a rendered event row.
const EventFieldCount = 9

// Fields returns the event values in report column order.
func (e NormalizedEvent) Fields() []string {
	return []string{
		e.EventType,
		e.ActorDisplayName,
		e.ActorAlternateID,
		e.ActorType,
		e.TargetDisplayName1,
		e.TargetDisplayName2,
		e.TargetDisplayName3,
		e.OutcomeResult,
		e.Published,
	}
}

// EventFromFields is the inverse of Fields. It returns false unless exactly
// EventFieldCount values are given.
func EventFromFields(fields []string) (NormalizedEvent, bool) {
	if len(fields) != EventFieldCount {
		return NormalizedEvent{}, false
	}
	return NormalizedEvent{
		EventType:          fields[0],
		ActorDisplayName:   fields[1],
		ActorAlternateID:   fields[2],
		ActorType:          fields[3],
		TargetDisplayName1: fields[4],
		TargetDisplayName2: fields[5],
		TargetDisplayName3: fields[6],
		OutcomeResult:      fields[7],
		Published:          fields[8],
	}, true
}

// DefaultHeaders are the column labels used when the caller supplies none.
var DefaultHeaders = []string{
	"Event", "Actor", "ActorEmail", "ActorType",
	"Target1", "Target2", "Target3", "Outcome", "Published",
}

// ReportContext labels both artifacts. StartDate and EndDate are the literal
// strings the user entered.
type ReportContext struct {
	StartDate string
	EndDate   string
	Headers   []string
}

// Diagnostic records one non-fatal failure. Err wraps a sentinel from the errors package.
type Diagnostic struct {
	Stage   string
	Subject string
	Err     error
}

// StageResult carries a stage's output along with the diagnostics it produced.
type StageResult[T any] struct {
	Items       []T
	Diagnostics []Diagnostic
}

// ListParams defines parameters for an object listing.
type ListParams struct {
	// Bucket is the bucket to list.
	Bucket string
	// Prefix restricts the listing to keys starting with it.
	Prefix string
	// PageSize is an optional per-page key limit.
	PageSize *int32
}

// Compression and serialization hints for a select query.
const (
	CompressionGzip = "GZIP"
	CompressionNone = "NONE"

	InputJSONLines = "JSON_LINES"
	OutputCSV      = "CSV"
)

// SelectParams defines a server-side filtered query against one object.
type SelectParams struct {
	Bucket      string
	Key         string
	Expression  string
	Compression string
	InputFormat string
	// OutputFormat is always OutputCSV today.
	OutputFormat string
}
