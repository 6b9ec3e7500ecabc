/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package extract

import (
	"strings"
)

// Event type codes the query keeps.
const (
	UserCreated                  = "user.lifecycle.create"
	UserActivated                = "user.lifecycle.activate"
	UserDeactivated              = "user.lifecycle.deactivate"
	ApplicationMembershipAdded   = "application.user_membership.add"
	ApplicationMembershipRemoved = "application.user_membership.remove"
	GroupMembershipAdded         = "group.user_membership.add"
	GroupMembershipRemoved       = "group.user_membership.remove"
)

// EventTypes is the allow-list applied in the WHERE clause, in query order.
var EventTypes = []string{
	UserCreated,
	UserActivated,
	UserDeactivated,
	ApplicationMembershipAdded,
	ApplicationMembershipRemoved,
	GroupMembershipAdded,
	GroupMembershipRemoved,
}

// SelectedFields are the projected paths. Missing target entries are omitted
// from the CSV output, which is why rows vary between 7 and 9 columns.
var SelectedFields = []string{
	"s.eventType",
	"s.actor.displayName",
	"s.actor.alternateId",
	"s.actor.type",
	"s.target[0].displayName",
	"s.target[1].displayName",
	"s.target[2].displayName",
	"s.outcome.result",
	"s.published",
}

// Expression returns the S3 Select SQL run against every retained object.
func Expression() string {
	quoted := make([]string, len(EventTypes))
	for i, code := range EventTypes {
		quoted[i] = "'" + code + "'"
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(SelectedFields, ", "))
	b.WriteString(" FROM S3Object[*][*] s WHERE s.eventType IN (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(")")
	return b.String()
}
