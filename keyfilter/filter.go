/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package keyfilter selects archive objects by the timestamp embedded in their keys.
package keyfilter

import (
	"regexp"
	"time"

	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// Stage names this step in diagnostics.
const Stage = "keyfilter"

// timestampPattern matches YYYY-MM-DDTHH:MM:SS.fraction anywhere in a key.
var timestampPattern = regexp.MustCompile(`\d{4}-[01]\d-[0-3]\dT[0-2]\d:[0-5]\d:[0-5]\d\.\d+`)

// keyLayout omits the fraction; time.Parse accepts one of any length after the seconds.
const keyLayout = "2006-01-02T15:04:05"

// ExtractTimestamp returns the first real calendar time embedded in key, read
// as UTC. Matches such as month 13 or hour 24 are skipped; a key with no valid
// match is rejected.
func ExtractTimestamp(key string) (time.Time, error) {
	for _, match := range timestampPattern.FindAllString(key, -1) {
		if ts, err := time.ParseInLocation(keyLayout, match, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errors.NewUnrecognizedKeyError(key)
}

// Filter keeps the objects whose key timestamp lies within r, preserving input
// order. Keys without a timestamp are dropped with a diagnostic.
func Filter(objects []storagemodels.StorageObject, r storagemodels.DateRange) storagemodels.StageResult[storagemodels.StorageObject] {
	var res storagemodels.StageResult[storagemodels.StorageObject]

	for _, obj := range objects {
		ts, err := ExtractTimestamp(obj.Key)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, storagemodels.Diagnostic{
				Stage:   Stage,
				Subject: obj.Key,
				Err:     err,
			})
			continue
		}
		if r.Contains(ts) {
			res.Items = append(res.Items, obj)
		}
	}

	return res
}
