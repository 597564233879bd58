// Package directory_tools provides MCP tools for the Google Workspace
// Directory API.
//
// Every tool acts on behalf of the caller: the access token forwarded with the
// request is used to build a fresh Directory client for each invocation. No
// client, cursor, or result is kept between invocations.
//
// # Available Tools
//
// Domains:
//   - list_domains: List the domains of the customer account
//   - get_domain: Get details of a single domain
//
// Groups:
//   - list_groups: List groups, optionally filtered by domain (paginated)
//   - get_group: Get details of a group
//   - create_group: Create a new group
//   - update_group: Change a group's name and/or description
//   - delete_group: Delete a group
//
// Members:
//   - list_members: List the members of a group (paginated)
//   - get_member: Get a single membership
//   - add_member: Add a member with a role (default MEMBER)
//   - update_member: Change a member's role
//   - remove_member: Remove a member from a group
//   - has_member: Check whether an address is a member of a group
//
// # Read-only Mode
//
// When the server runs in read-only mode only the list, get and has tools are
// registered.
//
// # Pagination
//
// list_groups and list_members return a single page. A nextPageToken field is
// present only when the Directory API reports more results; pass it back as
// page_token to fetch the next page.
package directory_tools
