package directory_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	admin "google.golang.org/api/admin/directory/v1"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/instrumentation"
	"github.com/teemow/groupsmcp/internal/server"
	"github.com/teemow/groupsmcp/internal/tools/common"
)

type listGroupsParams struct {
	Domain     string
	MaxResults int64
	PageToken  string
}

type groupParams struct {
	GroupEmail string
}

type createGroupParams struct {
	Email       string
	Name        string
	Description string
}

type updateGroupParams struct {
	GroupEmail string
	// Name is applied when non-empty.
	Name string
	// Description is applied whenever it was supplied, including "".
	Description    string
	HasDescription bool
}

// registerGroupTools registers group management tools
func registerGroupTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	listGroupsTool := mcp.NewTool("list_groups",
		mcp.WithDescription("Lists all Google Groups in the domain. Returns a list of groups and a nextPageToken for pagination if available."),
		maxResultsOption("groups"),
		mcp.WithString(argDomain,
			mcp.Description("Optional domain to filter groups by"),
		),
		pageTokenOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(listGroupsTool, common.InstrumentedToolHandler(sc, listGroupsSpec(sc)))

	getGroupTool := mcp.NewTool("get_group",
		mcp.WithDescription("Get details of a specific Google Group by its email address."),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group to get"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(getGroupTool, common.InstrumentedToolHandler(sc, getGroupSpec(sc)))

	if readOnly {
		return
	}

	createGroupTool := mcp.NewTool("create_group",
		mcp.WithDescription("Creates a new Google Group."),
		mcp.WithString(argEmail,
			mcp.Required(),
			mcp.Description("Email address for the new group"),
		),
		mcp.WithString(argName,
			mcp.Required(),
			mcp.Description("Display name for the new group"),
		),
		mcp.WithString(argDescription,
			mcp.Description("Description for the new group"),
		),
	)
	s.AddTool(createGroupTool, common.InstrumentedToolHandler(sc, createGroupSpec(sc)))

	updateGroupTool := mcp.NewTool("update_group",
		mcp.WithDescription("Updates an existing Google Group. Only the supplied fields are changed; an empty description clears it."),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group to update"),
		),
		mcp.WithString(argName,
			mcp.Description("New display name for the group"),
		),
		mcp.WithString(argDescription,
			mcp.Description("New description for the group"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(updateGroupTool, common.InstrumentedToolHandler(sc, updateGroupSpec(sc)))

	deleteGroupTool := mcp.NewTool("delete_group",
		mcp.WithDescription("Deletes a Google Group"),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group to delete"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.AddTool(deleteGroupTool, common.InstrumentedToolHandler(sc, deleteGroupSpec(sc)))
}

func parseGroupParams(args map[string]any) (groupParams, error) {
	group, err := common.RequireString(args, argGroupEmail)
	return groupParams{GroupEmail: group}, err
}

func targetGroup(p groupParams) common.Target {
	return common.Target{Group: p.GroupEmail}
}

func listGroupsSpec(sc *server.ServerContext) common.ToolSpec[listGroupsParams] {
	return common.ToolSpec[listGroupsParams]{
		Name:     "list_groups",
		ReadOnly: true,
		Parse: func(args map[string]any) (listGroupsParams, error) {
			maxResults, err := common.MaxResults(args, argMaxResults)
			if err != nil {
				return listGroupsParams{}, err
			}
			domain, _, err := common.OptionalString(args, argDomain)
			if err != nil {
				return listGroupsParams{}, err
			}
			pageToken, _, err := common.OptionalString(args, argPageToken)
			if err != nil {
				return listGroupsParams{}, err
			}
			return listGroupsParams{Domain: domain, MaxResults: maxResults, PageToken: pageToken}, nil
		},
		Target: func(p listGroupsParams) common.Target { return common.Target{Domain: p.Domain} },
		Span: func(p listGroupsParams, b *instrumentation.SpanAttributeBuilder) {
			b.WithCustomer(directory.DefaultCustomer).WithPaging(p.MaxResults, p.PageToken)
		},
		Action: func(listGroupsParams) string { return "list Google Groups" },
		Run: func(ctx context.Context, api directory.API, p listGroupsParams) (*mcp.CallToolResult, error) {
			groups, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationGroupsList,
				func(ctx context.Context) (*admin.Groups, error) {
					return api.ListGroups(ctx, directory.ListGroupsOptions{
						Customer:   directory.DefaultCustomer,
						Domain:     p.Domain,
						MaxResults: p.MaxResults,
						PageToken:  p.PageToken,
					})
				})
			if err != nil {
				return nil, err
			}
			return common.PageResult("groups", groups.Groups, groups.NextPageToken)
		},
	}
}

func getGroupSpec(sc *server.ServerContext) common.ToolSpec[groupParams] {
	return common.ToolSpec[groupParams]{
		Name:     "get_group",
		ReadOnly: true,
		Parse:    parseGroupParams,
		Target:   targetGroup,
		Action:   func(p groupParams) string { return fmt.Sprintf("get group %s", p.GroupEmail) },
		Run: func(ctx context.Context, api directory.API, p groupParams) (*mcp.CallToolResult, error) {
			group, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationGroupsGet,
				func(ctx context.Context) (*admin.Group, error) {
					return api.GetGroup(ctx, p.GroupEmail)
				})
			if err != nil {
				return nil, err
			}
			return common.ObjectResult(group)
		},
	}
}

func createGroupSpec(sc *server.ServerContext) common.ToolSpec[createGroupParams] {
	return common.ToolSpec[createGroupParams]{
		Name: "create_group",
		Parse: func(args map[string]any) (createGroupParams, error) {
			email, err := common.RequireString(args, argEmail)
			if err != nil {
				return createGroupParams{}, err
			}
			name, err := common.RequireString(args, argName)
			if err != nil {
				return createGroupParams{}, err
			}
			description, _, err := common.OptionalString(args, argDescription)
			if err != nil {
				return createGroupParams{}, err
			}
			return createGroupParams{Email: email, Name: name, Description: description}, nil
		},
		Target: func(p createGroupParams) common.Target { return common.Target{Group: p.Email} },
		Action: func(p createGroupParams) string { return fmt.Sprintf("create group %s", p.Email) },
		Run: func(ctx context.Context, api directory.API, p createGroupParams) (*mcp.CallToolResult, error) {
			group, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationGroupsInsert,
				func(ctx context.Context) (*admin.Group, error) {
					return api.InsertGroup(ctx, newGroup(p))
				})
			if err != nil {
				return nil, err
			}
			return common.ObjectResult(group)
		},
	}
}

// newGroup builds the insert body. The description is always sent, "" included.
func newGroup(p createGroupParams) *admin.Group {
	group := &admin.Group{
		Email:       p.Email,
		Name:        p.Name,
		Description: p.Description,
	}
	if p.Description == "" {
		group.ForceSendFields = []string{"Description"}
	}
	return group
}

func updateGroupSpec(sc *server.ServerContext) common.ToolSpec[updateGroupParams] {
	return common.ToolSpec[updateGroupParams]{
		Name: "update_group",
		Parse: func(args map[string]any) (updateGroupParams, error) {
			group, err := common.RequireString(args, argGroupEmail)
			if err != nil {
				return updateGroupParams{}, err
			}
			name, _, err := common.OptionalString(args, argName)
			if err != nil {
				return updateGroupParams{}, err
			}
			description, hasDescription, err := common.OptionalString(args, argDescription)
			if err != nil {
				return updateGroupParams{}, err
			}
			return updateGroupParams{
				GroupEmail:     group,
				Name:           name,
				Description:    description,
				HasDescription: hasDescription,
			}, nil
		},
		Target: func(p updateGroupParams) common.Target { return common.Target{Group: p.GroupEmail} },
		Action: func(p updateGroupParams) string { return fmt.Sprintf("update group %s", p.GroupEmail) },
		Run: func(ctx context.Context, api directory.API, p updateGroupParams) (*mcp.CallToolResult, error) {
			// Read-modify-write. The two calls are not atomic: a change made
			// elsewhere in between is overwritten.
			group, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationGroupsGet,
				func(ctx context.Context) (*admin.Group, error) {
					return api.GetGroup(ctx, p.GroupEmail)
				})
			if err != nil {
				return nil, err
			}

			applyGroupChanges(group, p)

			updated, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationGroupsUpdate,
				func(ctx context.Context) (*admin.Group, error) {
					return api.UpdateGroup(ctx, p.GroupEmail, group)
				})
			if err != nil {
				return nil, err
			}
			return common.ObjectResult(updated)
		},
	}
}

// applyGroupChanges mutates the fetched group in place.
func applyGroupChanges(group *admin.Group, p updateGroupParams) {
	if p.Name != "" {
		group.Name = p.Name
	}
	if p.HasDescription {
		group.Description = p.Description
		if p.Description == "" {
			// Empty strings are dropped by the encoder unless forced.
			group.ForceSendFields = append(group.ForceSendFields, "Description")
		}
	}
}

func deleteGroupSpec(sc *server.ServerContext) common.ToolSpec[groupParams] {
	return common.ToolSpec[groupParams]{
		Name:   "delete_group",
		Parse:  parseGroupParams,
		Target: targetGroup,
		Action: func(p groupParams) string { return fmt.Sprintf("delete group %s", p.GroupEmail) },
		Run: func(ctx context.Context, api directory.API, p groupParams) (*mcp.CallToolResult, error) {
			_, err := common.CallRemote(ctx, sc, instrumentation.OperationGroupsDelete,
				func(ctx context.Context) (struct{}, error) {
					return struct{}{}, api.DeleteGroup(ctx, p.GroupEmail)
				})
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(fmt.Sprintf("Group %s deleted successfully.", p.GroupEmail)), nil
		},
	}
}
