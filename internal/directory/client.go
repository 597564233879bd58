package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/oauth2"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/option"
)

// API is the set of Directory API operations exposed as tools.
type API interface {
	ListDomains(ctx context.Context, customer string) (*admin.Domains2, error)
	GetDomain(ctx context.Context, customer, domainName string) (*admin.Domains, error)

	ListGroups(ctx context.Context, opts ListGroupsOptions) (*admin.Groups, error)
	GetGroup(ctx context.Context, groupKey string) (*admin.Group, error)
	InsertGroup(ctx context.Context, group *admin.Group) (*admin.Group, error)
	UpdateGroup(ctx context.Context, groupKey string, group *admin.Group) (*admin.Group, error)
	DeleteGroup(ctx context.Context, groupKey string) error

	ListMembers(ctx context.Context, opts ListMembersOptions) (*admin.Members, error)
	GetMember(ctx context.Context, groupKey, memberKey string) (*admin.Member, error)
	InsertMember(ctx context.Context, groupKey string, member *admin.Member) (*admin.Member, error)
	UpdateMember(ctx context.Context, groupKey, memberKey string, member *admin.Member) (*admin.Member, error)
	DeleteMember(ctx context.Context, groupKey, memberKey string) error
	HasMember(ctx context.Context, groupKey, memberKey string) (*admin.MembersHasMember, error)
}

// ClientFactory builds an API bound to a single access token.
type ClientFactory func(ctx context.Context, accessToken string) (API, error)

// Client wraps the Admin SDK Directory service
type Client struct {
	svc *admin.Service
}

var _ API = (*Client)(nil)

// NewClientFactory returns a ClientFactory that builds a new Client for every
// call. Extra options are appended to the token source option, e.g. to point
// the client at another endpoint.
func NewClientFactory(opts ...option.ClientOption) ClientFactory {
	return func(ctx context.Context, accessToken string) (API, error) {
		return NewClient(ctx, accessToken, opts...)
	}
}

// NewClient creates a Directory client authenticated with the given access token.
// Construction failures are returned as *ClientConstructionError.
func NewClient(ctx context.Context, accessToken string, opts ...option.ClientOption) (*Client, error) {
	if err := validateAccessToken(accessToken); err != nil {
		return nil, &ClientConstructionError{Err: err}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})

	allOpts := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := admin.NewService(ctx, allOpts...)
	if err != nil {
		return nil, &ClientConstructionError{Err: fmt.Errorf("failed to create Directory service: %w", err)}
	}

	return &Client{svc: svc}, nil
}

// validateAccessToken rejects tokens that cannot be sent in an Authorization header.
func validateAccessToken(token string) error {
	if token == "" {
		return errors.New("access token is empty")
	}
	if strings.IndexFunc(token, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return errors.New("access token contains whitespace or control characters")
	}
	return nil
}

// ListDomains lists the domains of a customer account
func (c *Client) ListDomains(ctx context.Context, customer string) (*admin.Domains2, error) {
	return c.svc.Domains.List(customer).Context(ctx).Do()
}

// GetDomain retrieves a domain by name
func (c *Client) GetDomain(ctx context.Context, customer, domainName string) (*admin.Domains, error) {
	return c.svc.Domains.Get(customer, domainName).Context(ctx).Do()
}

// ListGroups lists one page of groups
func (c *Client) ListGroups(ctx context.Context, opts ListGroupsOptions) (*admin.Groups, error) {
	call := c.svc.Groups.List().
		Customer(opts.Customer).
		MaxResults(opts.MaxResults)

	if opts.Domain != "" {
		call = call.Domain(opts.Domain)
	}
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}

	return call.Context(ctx).Do()
}

// GetGroup retrieves a group by email address, alias or ID
func (c *Client) GetGroup(ctx context.Context, groupKey string) (*admin.Group, error) {
	return c.svc.Groups.Get(groupKey).Context(ctx).Do()
}

// InsertGroup creates a group
func (c *Client) InsertGroup(ctx context.Context, group *admin.Group) (*admin.Group, error) {
	return c.svc.Groups.Insert(group).Context(ctx).Do()
}

// UpdateGroup replaces a group with the given body
func (c *Client) UpdateGroup(ctx context.Context, groupKey string, group *admin.Group) (*admin.Group, error) {
	return c.svc.Groups.Update(groupKey, group).Context(ctx).Do()
}

// DeleteGroup deletes a group
func (c *Client) DeleteGroup(ctx context.Context, groupKey string) error {
	return c.svc.Groups.Delete(groupKey).Context(ctx).Do()
}

// ListMembers lists one page of members of a group
func (c *Client) ListMembers(ctx context.Context, opts ListMembersOptions) (*admin.Members, error) {
	call := c.svc.Members.List(opts.GroupKey).
		MaxResults(opts.MaxResults)

	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}

	return call.Context(ctx).Do()
}

// GetMember retrieves a member of a group
func (c *Client) GetMember(ctx context.Context, groupKey, memberKey string) (*admin.Member, error) {
	return c.svc.Members.Get(groupKey, memberKey).Context(ctx).Do()
}

// InsertMember adds a member to a group
func (c *Client) InsertMember(ctx context.Context, groupKey string, member *admin.Member) (*admin.Member, error) {
	return c.svc.Members.Insert(groupKey, member).Context(ctx).Do()
}

// UpdateMember replaces a membership with the given body
func (c *Client) UpdateMember(ctx context.Context, groupKey, memberKey string, member *admin.Member) (*admin.Member, error) {
	return c.svc.Members.Update(groupKey, memberKey, member).Context(ctx).Do()
}

// DeleteMember removes a member from a group
func (c *Client) DeleteMember(ctx context.Context, groupKey, memberKey string) error {
	return c.svc.Members.Delete(groupKey, memberKey).Context(ctx).Do()
}

// HasMember checks whether a user is a member of a group, directly or through
// a nested group
func (c *Client) HasMember(ctx context.Context, groupKey, memberKey string) (*admin.MembersHasMember, error) {
	return c.svc.Members.HasMember(groupKey, memberKey).Context(ctx).Do()
}
