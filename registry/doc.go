/*
Package registry associates Go types with the key templates used to archive them.

Index Map Registry:
Each archived type registers the macros its partition and sort keys expand from,
usually in an init() function next to the store that writes it:

	registry.RegisterIndexMap[storagemodels.NormalizedEvent](map[string]string{
	    "PK": "EVENT#{event_type}",
	    "SK": "{published}#{actor_alternate_id}#{outcome_result}",
	})

Macros name dynamodbav attribute names, not Go field names. The registry is
safe for concurrent use.
*/
package registry
