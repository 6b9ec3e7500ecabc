/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/suparena/logreport/datastore"
	"github.com/suparena/logreport/registry"
	"github.com/suparena/logreport/storagemodels"
)

// EventIndexMap keys archived events by label, then by publish time, actor,
// targets and outcome. Events that differ only in a target or the outcome get
// distinct items; an event archived twice overwrites itself.
var EventIndexMap = map[string]string{
	"PK": "EVENT#{event_type}",
	"SK": "{published}#{actor_alternate_id}#{target_display_name1}#{target_display_name2}#{target_display_name3}#{outcome_result}",
}

func init() {
	registry.RegisterIndexMap[storagemodels.NormalizedEvent](EventIndexMap)
}

// EventTypeScan returns scan parameters matching archived events with the given label.
// An empty label matches everything.
func EventTypeScan(label string) *datastore.ScanParams {
	if label == "" {
		return &datastore.ScanParams{}
	}
	return &datastore.ScanParams{
		FilterExpression:          aws.String("#t = :t"),
		ExpressionAttributeNames:  map[string]string{"#t": "event_type"},
		ExpressionAttributeValues: map[string]string{":t": label},
	}
}

// EventPartition returns the partition key holding events with label.
func EventPartition(label string) string {
	return "EVENT#" + label
}

// sortKeyCeiling sorts after every character that can follow a date in a sort key.
const sortKeyCeiling = "~"

// EventRange returns query parameters for events with label published between
// since and until. Both are date or timestamp prefixes and both are inclusive;
// an empty bound is open.
func EventRange(label, since, until string) *datastore.QueryParams {
	params := &datastore.QueryParams{PartitionKey: EventPartition(label)}
	if since != "" {
		params.SortKeyFrom = aws.String(since)
	}
	if until != "" {
		params.SortKeyTo = aws.String(until + sortKeyCeiling)
	}
	return params
}
