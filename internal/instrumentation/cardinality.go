package instrumentation

import "strings"

// ExtractUserDomain reduces an email address to its domain for
// lower-cardinality log and metric values.
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("invalid")           // "unknown"
//	ExtractUserDomain("")                  // "unknown"
func ExtractUserDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Directory API methods used as the operation label and span suffix.
const (
	OperationDomainsList      = "domains.list"
	OperationDomainsGet       = "domains.get"
	OperationGroupsList       = "groups.list"
	OperationGroupsGet        = "groups.get"
	OperationGroupsInsert     = "groups.insert"
	OperationGroupsUpdate     = "groups.update"
	OperationGroupsDelete     = "groups.delete"
	OperationMembersList      = "members.list"
	OperationMembersGet       = "members.get"
	OperationMembersInsert    = "members.insert"
	OperationMembersUpdate    = "members.update"
	OperationMembersDelete    = "members.delete"
	OperationMembersHasMember = "members.hasMember"
)
