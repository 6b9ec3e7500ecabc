/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package normalize

import (
	"fmt"
	"sort"

	"github.com/suparena/logreport/storagemodels"
)

// Fixed leading columns present in every row.
const (
	colEventType = iota
	colActorDisplayName
	colActorAlternateID
	colActorType
	colFirstTarget
)

// Layout maps the positional columns of a row with a given width onto the
// variable part of a NormalizedEvent.
type Layout struct {
	Columns   int
	Targets   []int
	Outcome   int
	Published int
}

// Layouts is keyed by column count. Missing targets are not serialized by the
// query engine, so each extra column shifts outcome and published right by one.
var Layouts = map[int]Layout{
	7: {Columns: 7, Targets: []int{4}, Outcome: 5, Published: 6},
	8: {Columns: 8, Targets: []int{4, 5}, Outcome: 6, Published: 7},
	9: {Columns: 9, Targets: []int{4, 5, 6}, Outcome: 7, Published: 8},
}

// MinColumns and MaxColumns bound the widths with a declared layout.
var MinColumns, MaxColumns = layoutBounds()

func layoutBounds() (int, int) {
	widths := make([]int, 0, len(Layouts))
	for w := range Layouts {
		widths = append(widths, w)
	}
	sort.Ints(widths)
	return widths[0], widths[len(widths)-1]
}

// LayoutFor returns the layout for a row of n columns. Rows wider than
// MaxColumns use the widest layout and report truncated=true.
func LayoutFor(n int) (layout Layout, truncated bool, err error) {
	if n > MaxColumns {
		return Layouts[MaxColumns], true, nil
	}
	l, ok := Layouts[n]
	if !ok {
		return Layout{}, false, fmt.Errorf("%d columns, want between %d and %d", n, MinColumns, MaxColumns)
	}
	return l, false, nil
}

// Apply maps row through the layout. The row must have at least l.Columns fields.
func (l Layout) Apply(row storagemodels.RawEventRow) storagemodels.NormalizedEvent {
	targets := [3]string{storagemodels.NotApplicable, storagemodels.NotApplicable, storagemodels.NotApplicable}
	for i, col := range l.Targets {
		targets[i] = row[col]
	}

	return storagemodels.NormalizedEvent{
		EventType:          Label(row[colEventType]),
		ActorDisplayName:   row[colActorDisplayName],
		ActorAlternateID:   row[colActorAlternateID],
		ActorType:          ActorType(row[colActorType]),
		TargetDisplayName1: targets[0],
		TargetDisplayName2: targets[1],
		TargetDisplayName3: targets[2],
		OutcomeResult:      row[l.Outcome],
		Published:          row[l.Published],
	}
}
