package directory

import (
	"fmt"
	"strings"
)

const (
	// DefaultCustomer addresses the customer account of the authenticated caller.
	DefaultCustomer = "my_customer"

	// DefaultMaxResults is the page size used when the caller does not ask for one.
	DefaultMaxResults = 50

	// MinMaxResults and MaxMaxResults bound the accepted page size.
	MinMaxResults = 1
	MaxMaxResults = 200
)

// Role is the role of a member within a group.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// DefaultRole is applied when a member is added without an explicit role.
const DefaultRole = RoleMember

// Roles lists every role the Directory API accepts, in privilege order.
var Roles = []Role{RoleOwner, RoleManager, RoleMember}

// RoleNames returns Roles as plain strings, for use in tool schemas.
func RoleNames() []string {
	names := make([]string, len(Roles))
	for i, r := range Roles {
		names[i] = string(r)
	}
	return names
}

// ParseRole returns the Role named by s. Matching is exact: the Directory API
// role enumeration is upper case.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("role must be one of %s, got %q", strings.Join(RoleNames(), ", "), s)
}

// ListGroupsOptions holds the parameters of a groups.list call.
type ListGroupsOptions struct {
	Customer   string
	Domain     string // optional
	MaxResults int64
	PageToken  string // optional
}

// ListMembersOptions holds the parameters of a members.list call.
type ListMembersOptions struct {
	GroupKey   string
	MaxResults int64
	PageToken  string // optional
}
