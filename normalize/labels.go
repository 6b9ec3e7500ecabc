/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package normalize

import "github.com/suparena/logreport/extract"

// Labels maps the queried event-type codes to report labels.
var Labels = map[string]string{
	extract.UserCreated:                  "User Created",
	extract.UserActivated:                "User Activated",
	extract.UserDeactivated:              "User Deactivated",
	extract.ApplicationMembershipAdded:   "Application Membership Added",
	extract.ApplicationMembershipRemoved: "Application Membership Removed",
	extract.GroupMembershipAdded:         "Group Membership Added",
	extract.GroupMembershipRemoved:       "Group Membership Removed",
}

// Label returns the report label for code, or code itself when unknown.
func Label(code string) string {
	if label, ok := Labels[code]; ok {
		return label
	}
	return code
}

// SystemPrincipal is the actor type the identity provider records for its own actions.
const SystemPrincipal = "SystemPrincipal"

// ActorType shortens SystemPrincipal to System and passes anything else through.
func ActorType(raw string) string {
	if raw == SystemPrincipal {
		return "System"
	}
	return raw
}
