/*
Package ddb provides a DynamoDB implementation of the DataStore interface,
used as the optional archive for normalized events.

The DynamodbDataStore supports:
  - Macro-based key expansion from the registry index map
  - String keys of the form "PK|SK" for GetOne and Delete
  - Paginated, filtered table scans
  - Partition queries bounded by a sort key range
  - Automatic EntityType injection

Macro Expansion:
Keys use macros that are replaced with the entity's dynamodbav attribute values:

	var EventIndexMap = map[string]string{
	    "PK": "EVENT#{event_type}", // Becomes "EVENT#User Created"
	    "SK": "{published}#{actor_alternate_id}#{target_display_name1}#{target_display_name2}#{target_display_name3}#{outcome_result}",
	}

The sort key for the event above becomes
"2024-01-05T10:00:01Z#jane@x.com#App1#not applicable#not applicable#SUCCESS".
It starts with the publish time, so date ranges stay prefix ranges.

Scanning and querying:

	events, err := store.Scan(ctx, ddb.EventTypeScan("User Created"))

	// Only one partition is read; both dates are inclusive.
	events, err = store.Query(ctx, ddb.EventRange("User Created", "2024-01-01", "2024-01-31"))
*/
package ddb
