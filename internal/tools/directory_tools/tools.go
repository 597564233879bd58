package directory_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/server"
)

// Argument names shared by several tools.
const (
	argCustomer    = "customer"
	argDomainName  = "domain_name"
	argDomain      = "domain"
	argMaxResults  = "max_results"
	argPageToken   = "page_token"
	argGroupEmail  = "group_email"
	argEmail       = "email"
	argName        = "name"
	argDescription = "description"
	argMemberEmail = "member_email"
	argRole        = "role"
)

// RegisterDirectoryTools registers all Directory API tools with the MCP server.
// Tools that modify the directory are skipped when readOnly is set.
func RegisterDirectoryTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if s == nil {
		return fmt.Errorf("mcp server is required")
	}
	if sc == nil {
		return fmt.Errorf("server context is required")
	}

	registerDomainTools(s, sc)
	registerGroupTools(s, sc, readOnly)
	registerMemberTools(s, sc, readOnly)

	return nil
}

func maxResultsOption(what string) mcp.ToolOption {
	return mcp.WithNumber(argMaxResults,
		mcp.Description(fmt.Sprintf("Maximum number of %s to return", what)),
		mcp.Min(directory.MinMaxResults),
		mcp.Max(directory.MaxMaxResults),
		mcp.DefaultNumber(directory.DefaultMaxResults),
	)
}

func pageTokenOption() mcp.ToolOption {
	return mcp.WithString(argPageToken,
		mcp.Description("Optional token for pagination"),
	)
}

func customerOption() mcp.ToolOption {
	return mcp.WithString(argCustomer,
		mcp.Description(fmt.Sprintf("Customer ID (default: '%s', the account of the caller)", directory.DefaultCustomer)),
	)
}
