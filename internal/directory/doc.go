// Package directory provides a client for the Google Workspace Admin SDK
// Directory API, restricted to the domain, group and group membership
// resources.
//
// This package wraps the Directory API (admin/directory/v1) and provides:
//   - Domains: list and get
//   - Groups: list, get, insert, update and delete
//   - Members: list, get, insert, update, delete and hasMember
//
// A Client is bound to a single caller-supplied OAuth access token. There is
// no token refresh and no caching of clients between invocations: the
// ClientFactory is expected to be called once per tool invocation.
//
// # Errors
//
// Failures are classified into a small taxonomy shared with the tool layer:
//   - ErrMissingCredential: no access token was forwarded with the request
//   - InvalidArgumentError: a tool argument failed validation
//   - ClientConstructionError: the client could not be built from the token
//   - RemoteServiceError: the Directory API answered with an error
//   - UnexpectedError: anything else that went wrong during a remote call
//
// # Example Usage
//
//	factory := directory.NewClientFactory()
//	client, err := factory(ctx, accessToken)
//	if err != nil {
//	    return err
//	}
//
//	groups, err := client.ListGroups(ctx, directory.ListGroupsOptions{
//	    Customer:   directory.DefaultCustomer,
//	    MaxResults: directory.DefaultMaxResults,
//	})
package directory
