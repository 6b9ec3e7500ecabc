/*
Package storagemodels defines the data structures passed between pipeline stages.

Key Types:

StorageObject:
One entry of an object listing (key, size, modification time).

DateRange:
An inclusive window. Validate rejects unset bounds and Start after End:

	r := storagemodels.DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
	    return err
	}

NormalizedEvent:
The fixed-shape record both report artifacts are rendered from. Absent
targets hold NotApplicable, so every event renders exactly EventFieldCount
columns.

StageResult:
Every stage returns its items together with the diagnostics it recorded:

	type StageResult[T any] struct {
	    Items       []T
	    Diagnostics []Diagnostic
	}

SelectOptions:
Configuration for select query streaming:

	opts := []SelectOption{
	    WithTimeout(30 * time.Second),
	    WithMaxRetries(2),
	}
*/
package storagemodels
