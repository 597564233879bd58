package directory_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	admin "google.golang.org/api/admin/directory/v1"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/instrumentation"
	"github.com/teemow/groupsmcp/internal/server"
	"github.com/teemow/groupsmcp/internal/tools/common"
)

type listMembersParams struct {
	GroupEmail string
	MaxResults int64
	PageToken  string
}

type memberParams struct {
	GroupEmail  string
	MemberEmail string
}

type memberRoleParams struct {
	memberParams
	Role directory.Role
}

// registerMemberTools registers group membership tools
func registerMemberTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	roles := directory.RoleNames()

	listMembersTool := mcp.NewTool("list_members",
		mcp.WithDescription("Lists all members in a Google Group. Returns a list of members and a nextPageToken for pagination if available."),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group"),
		),
		maxResultsOption("members"),
		pageTokenOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(listMembersTool, common.InstrumentedToolHandler(sc, listMembersSpec(sc)))

	getMemberTool := mcp.NewTool("get_member",
		mcp.WithDescription("Gets details of a specific member in a Google Group."),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group"),
		),
		mcp.WithString(argMemberEmail,
			mcp.Required(),
			mcp.Description("Email address of the member"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(getMemberTool, common.InstrumentedToolHandler(sc, getMemberSpec(sc)))

	hasMemberTool := mcp.NewTool("has_member",
		mcp.WithDescription("Checks if a user is a member of a Google Group."),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group"),
		),
		mcp.WithString(argMemberEmail,
			mcp.Required(),
			mcp.Description("Email address to check"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(hasMemberTool, common.InstrumentedToolHandler(sc, hasMemberSpec(sc)))

	if readOnly {
		return
	}

	addMemberTool := mcp.NewTool("add_member",
		mcp.WithDescription("Adds a member to a Google Group."),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group"),
		),
		mcp.WithString(argMemberEmail,
			mcp.Required(),
			mcp.Description("Email address of the member to add"),
		),
		mcp.WithString(argRole,
			mcp.Description(fmt.Sprintf("Role of the member in the group (%s)", strings.Join(roles, ", "))),
			mcp.Enum(roles...),
			mcp.DefaultString(string(directory.DefaultRole)),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(addMemberTool, common.InstrumentedToolHandler(sc, addMemberSpec(sc)))

	updateMemberTool := mcp.NewTool("update_member",
		mcp.WithDescription("Updates a member's role in a Google Group."),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group"),
		),
		mcp.WithString(argMemberEmail,
			mcp.Required(),
			mcp.Description("Email address of the member to update"),
		),
		mcp.WithString(argRole,
			mcp.Required(),
			mcp.Description("New role for the member"),
			mcp.Enum(roles...),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(updateMemberTool, common.InstrumentedToolHandler(sc, updateMemberSpec(sc)))

	removeMemberTool := mcp.NewTool("remove_member",
		mcp.WithDescription("Removes a member from a Google Group."),
		mcp.WithString(argGroupEmail,
			mcp.Required(),
			mcp.Description("Email address of the group"),
		),
		mcp.WithString(argMemberEmail,
			mcp.Required(),
			mcp.Description("Email address of the member to remove"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.AddTool(removeMemberTool, common.InstrumentedToolHandler(sc, removeMemberSpec(sc)))
}

func parseMemberParams(args map[string]any) (memberParams, error) {
	group, err := common.RequireString(args, argGroupEmail)
	if err != nil {
		return memberParams{}, err
	}
	member, err := common.RequireString(args, argMemberEmail)
	if err != nil {
		return memberParams{}, err
	}
	return memberParams{GroupEmail: group, MemberEmail: member}, nil
}

func parseMemberRoleParams(required bool) func(map[string]any) (memberRoleParams, error) {
	return func(args map[string]any) (memberRoleParams, error) {
		mp, err := parseMemberParams(args)
		if err != nil {
			return memberRoleParams{}, err
		}
		role, err := common.Role(args, argRole, directory.DefaultRole, required)
		if err != nil {
			return memberRoleParams{}, err
		}
		return memberRoleParams{memberParams: mp, Role: role}, nil
	}
}

func targetMember(p memberParams) common.Target {
	return common.Target{Group: p.GroupEmail, Member: p.MemberEmail}
}

func targetMemberRole(p memberRoleParams) common.Target {
	return targetMember(p.memberParams)
}

func listMembersSpec(sc *server.ServerContext) common.ToolSpec[listMembersParams] {
	return common.ToolSpec[listMembersParams]{
		Name:     "list_members",
		ReadOnly: true,
		Parse: func(args map[string]any) (listMembersParams, error) {
			group, err := common.RequireString(args, argGroupEmail)
			if err != nil {
				return listMembersParams{}, err
			}
			maxResults, err := common.MaxResults(args, argMaxResults)
			if err != nil {
				return listMembersParams{}, err
			}
			pageToken, _, err := common.OptionalString(args, argPageToken)
			if err != nil {
				return listMembersParams{}, err
			}
			return listMembersParams{GroupEmail: group, MaxResults: maxResults, PageToken: pageToken}, nil
		},
		Target: func(p listMembersParams) common.Target { return common.Target{Group: p.GroupEmail} },
		Span: func(p listMembersParams, b *instrumentation.SpanAttributeBuilder) {
			b.WithPaging(p.MaxResults, p.PageToken)
		},
		Action: func(p listMembersParams) string { return fmt.Sprintf("list members from group %s", p.GroupEmail) },
		Run: func(ctx context.Context, api directory.API, p listMembersParams) (*mcp.CallToolResult, error) {
			members, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationMembersList,
				func(ctx context.Context) (*admin.Members, error) {
					return api.ListMembers(ctx, directory.ListMembersOptions{
						GroupKey:   p.GroupEmail,
						MaxResults: p.MaxResults,
						PageToken:  p.PageToken,
					})
				})
			if err != nil {
				return nil, err
			}
			return common.PageResult("members", members.Members, members.NextPageToken)
		},
	}
}

func getMemberSpec(sc *server.ServerContext) common.ToolSpec[memberParams] {
	return common.ToolSpec[memberParams]{
		Name:     "get_member",
		ReadOnly: true,
		Parse:    parseMemberParams,
		Target:   targetMember,
		Action: func(p memberParams) string {
			return fmt.Sprintf("get member %s from group %s", p.MemberEmail, p.GroupEmail)
		},
		Run: func(ctx context.Context, api directory.API, p memberParams) (*mcp.CallToolResult, error) {
			member, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationMembersGet,
				func(ctx context.Context) (*admin.Member, error) {
					return api.GetMember(ctx, p.GroupEmail, p.MemberEmail)
				})
			if err != nil {
				return nil, err
			}
			return common.ObjectResult(member)
		},
	}
}

func addMemberSpec(sc *server.ServerContext) common.ToolSpec[memberRoleParams] {
	return common.ToolSpec[memberRoleParams]{
		Name:   "add_member",
		Parse:  parseMemberRoleParams(false),
		Target: targetMemberRole,
		Action: func(p memberRoleParams) string {
			return fmt.Sprintf("add member %s to group %s", p.MemberEmail, p.GroupEmail)
		},
		Run: func(ctx context.Context, api directory.API, p memberRoleParams) (*mcp.CallToolResult, error) {
			member, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationMembersInsert,
				func(ctx context.Context) (*admin.Member, error) {
					return api.InsertMember(ctx, p.GroupEmail, &admin.Member{
						Email: p.MemberEmail,
						Role:  string(p.Role),
					})
				})
			if err != nil {
				return nil, err
			}
			return common.ObjectResult(member)
		},
	}
}

func updateMemberSpec(sc *server.ServerContext) common.ToolSpec[memberRoleParams] {
	return common.ToolSpec[memberRoleParams]{
		Name:   "update_member",
		Parse:  parseMemberRoleParams(true),
		Target: targetMemberRole,
		Action: func(p memberRoleParams) string {
			return fmt.Sprintf("update member %s in group %s", p.MemberEmail, p.GroupEmail)
		},
		Run: func(ctx context.Context, api directory.API, p memberRoleParams) (*mcp.CallToolResult, error) {
			member, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationMembersUpdate,
				func(ctx context.Context) (*admin.Member, error) {
					return api.UpdateMember(ctx, p.GroupEmail, p.MemberEmail, &admin.Member{
						Role: string(p.Role),
					})
				})
			if err != nil {
				return nil, err
			}
			return common.ObjectResult(member)
		},
	}
}

func removeMemberSpec(sc *server.ServerContext) common.ToolSpec[memberParams] {
	return common.ToolSpec[memberParams]{
		Name:   "remove_member",
		Parse:  parseMemberParams,
		Target: targetMember,
		Action: func(p memberParams) string {
			return fmt.Sprintf("remove member %s from group %s", p.MemberEmail, p.GroupEmail)
		},
		Run: func(ctx context.Context, api directory.API, p memberParams) (*mcp.CallToolResult, error) {
			_, err := common.CallRemote(ctx, sc, instrumentation.OperationMembersDelete,
				func(ctx context.Context) (struct{}, error) {
					return struct{}{}, api.DeleteMember(ctx, p.GroupEmail, p.MemberEmail)
				})
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(fmt.Sprintf("Member %s removed from group %s successfully.", p.MemberEmail, p.GroupEmail)), nil
		},
	}
}

func hasMemberSpec(sc *server.ServerContext) common.ToolSpec[memberParams] {
	return common.ToolSpec[memberParams]{
		Name:     "has_member",
		ReadOnly: true,
		Parse:    parseMemberParams,
		Target:   targetMember,
		Action: func(p memberParams) string {
			return fmt.Sprintf("check membership of %s in group %s", p.MemberEmail, p.GroupEmail)
		},
		Run: func(ctx context.Context, api directory.API, p memberParams) (*mcp.CallToolResult, error) {
			result, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationMembersHasMember,
				func(ctx context.Context) (*admin.MembersHasMember, error) {
					return api.HasMember(ctx, p.GroupEmail, p.MemberEmail)
				})
			if err != nil {
				return nil, err
			}
			// isMember=false would otherwise be omitted.
			result.ForceSendFields = append(result.ForceSendFields, "IsMember")
			return common.ObjectResult(result)
		},
	}
}
