/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package normalize

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/extract"
	"github.com/suparena/logreport/storagemodels"
)

const na = storagemodels.NotApplicable

func responses(texts ...string) []storagemodels.QueryResponse {
	out := make([]storagemodels.QueryResponse, len(texts))
	for i, t := range texts {
		out[i] = storagemodels.QueryResponse{Key: "logs." + string(rune('a'+i)), Text: t}
	}
	return out
}

func TestNormalizeSevenColumnRow(t *testing.T) {
	res := New(nil).Normalize(responses(
		"user.lifecycle.create,Jane Doe,jane@x.com,SystemPrincipal,App1,SUCCESS,2024-01-05T10:00:01Z\n",
	))

	require.Empty(t, res.Diagnostics)
	want := []storagemodels.NormalizedEvent{{
		EventType:          "User Created",
		ActorDisplayName:   "Jane Doe",
		ActorAlternateID:   "jane@x.com",
		ActorType:          "System",
		TargetDisplayName1: "App1",
		TargetDisplayName2: na,
		TargetDisplayName3: na,
		OutcomeResult:      "SUCCESS",
		Published:          "2024-01-05T10:00:01Z",
	}}
	if diff := cmp.Diff(want, res.Items); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeColumnCounts(t *testing.T) {
	lead := []string{"group.user_membership.add", "Ann", "ann@x.com", "User"}
	tests := []struct {
		name    string
		targets []string
	}{
		{"one target", []string{"T1"}},
		{"two targets", []string{"T1", "T2"}},
		{"three targets", []string{"T1", "T2", "T3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := append(append(append([]string{}, lead...), tt.targets...), "FAILURE", "2024-01-02T00:00:00Z")
			res := New(nil).Normalize(responses(strings.Join(row, ",")))

			require.Empty(t, res.Diagnostics)
			require.Len(t, res.Items, 1)
			ev := res.Items[0]

			got := []string{ev.TargetDisplayName1, ev.TargetDisplayName2, ev.TargetDisplayName3}
			for i := range got {
				if i < len(tt.targets) {
					assert.Equal(t, tt.targets[i], got[i])
				} else {
					assert.Equal(t, na, got[i])
				}
			}
			assert.Equal(t, "Group Membership Added", ev.EventType)
			assert.Equal(t, "User", ev.ActorType)
			assert.Equal(t, "FAILURE", ev.OutcomeResult)
			assert.Equal(t, "2024-01-02T00:00:00Z", ev.Published)
		})
	}
}

func TestNormalizeWideRowIsTruncated(t *testing.T) {
	row := "user.lifecycle.activate,A,a@x.com,User,T1,T2,T3,SUCCESS,2024-01-02T00:00:00Z,extra"
	res := New(nil).Normalize(responses(row))

	require.Len(t, res.Items, 1)
	ev := res.Items[0]
	assert.Equal(t, "T3", ev.TargetDisplayName3)
	assert.Equal(t, "SUCCESS", ev.OutcomeResult)
	assert.Equal(t, "2024-01-02T00:00:00Z", ev.Published)

	require.Len(t, res.Diagnostics, 1)
	assert.True(t, errors.IsTruncatedRow(res.Diagnostics[0].Err))
	assert.Contains(t, res.Diagnostics[0].Err.Error(), "10 columns")
}

func TestNormalizeShortRowSkipped(t *testing.T) {
	text := "user.lifecycle.create,A,a@x.com,User,SUCCESS\n" +
		"user.lifecycle.create,B,b@x.com,User,App,SUCCESS,2024-01-02T00:00:00Z\n"
	res := New(nil).Normalize(responses(text))

	require.Len(t, res.Items, 1)
	assert.Equal(t, "B", res.Items[0].ActorDisplayName)
	require.Len(t, res.Diagnostics, 1)
	var rpe *errors.RowParseError
	require.ErrorAs(t, res.Diagnostics[0].Err, &rpe)
	assert.Equal(t, 0, rpe.Row)
}

func TestNormalizeIsolatesMalformedText(t *testing.T) {
	good1 := "user.lifecycle.create,A,a@x.com,User,App,SUCCESS,2024-01-02T00:00:00Z\n"
	bad := "user.lifecycle.create,\"unterminated,x@x.com,User,App,SUCCESS,2024-01-02T00:00:00Z\n"
	good2 := "user.lifecycle.deactivate,B,b@x.com,User,App,SUCCESS,2024-01-03T00:00:00Z\n" +
		"application.user_membership.remove,C,c@x.com,User,App,Slack,SUCCESS,2024-01-04T00:00:00Z\n"

	res := New(nil).Normalize(responses(good1, bad, good2))

	names := make([]string, 0, len(res.Items))
	for _, ev := range res.Items {
		names = append(names, ev.ActorDisplayName)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, Stage, d.Stage)
	assert.Equal(t, "logs.b", d.Subject)
	assert.True(t, errors.IsRowParse(d.Err))
	var rpe *errors.RowParseError
	require.ErrorAs(t, d.Err, &rpe)
	assert.Equal(t, 1, rpe.Input)
	assert.Equal(t, -1, rpe.Row)
}

func TestNormalizeQuotedFields(t *testing.T) {
	text := `user.lifecycle.create,"Doe, Jane",jane@x.com,User,"App ""One""",SUCCESS,2024-01-05T10:00:01Z` + "\n"
	res := New(nil).Normalize(responses(text))

	require.Len(t, res.Items, 1)
	assert.Equal(t, "Doe, Jane", res.Items[0].ActorDisplayName)
	assert.Equal(t, `App "One"`, res.Items[0].TargetDisplayName1)
}

func TestNormalizeEmpty(t *testing.T) {
	res := New(nil).Normalize(responses("", ""))
	assert.Empty(t, res.Items)
	assert.Empty(t, res.Diagnostics)
}

func TestLabel(t *testing.T) {
	want := map[string]string{
		extract.UserCreated:                  "User Created",
		extract.UserActivated:                "User Activated",
		extract.UserDeactivated:              "User Deactivated",
		extract.ApplicationMembershipAdded:   "Application Membership Added",
		extract.ApplicationMembershipRemoved: "Application Membership Removed",
		extract.GroupMembershipAdded:         "Group Membership Added",
		extract.GroupMembershipRemoved:       "Group Membership Removed",
	}
	for code, label := range want {
		assert.Equal(t, label, Label(code))
	}
	for _, code := range extract.EventTypes {
		assert.Contains(t, want, code)
	}

	for _, code := range []string{"user.session.start", "", "User Created"} {
		assert.Equal(t, code, Label(code))
	}
}

func TestActorType(t *testing.T) {
	assert.Equal(t, "System", ActorType("SystemPrincipal"))
	assert.Equal(t, "User", ActorType("User"))
	assert.Equal(t, "systemprincipal", ActorType("systemprincipal"))
}

func TestLayoutFor(t *testing.T) {
	assert.Equal(t, 7, MinColumns)
	assert.Equal(t, 9, MaxColumns)

	for _, n := range []int{0, 1, 6} {
		_, _, err := LayoutFor(n)
		assert.Error(t, err, "n=%d", n)
	}
	for _, n := range []int{7, 8, 9} {
		l, truncated, err := LayoutFor(n)
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, n, l.Columns)
		assert.Equal(t, n-1, l.Published)
		assert.Equal(t, n-2, l.Outcome)
		assert.Len(t, l.Targets, n-6)
	}
	l, truncated, err := LayoutFor(12)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, 9, l.Columns)
}
