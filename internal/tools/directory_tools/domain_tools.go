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

type listDomainsParams struct {
	Customer string
}

type getDomainParams struct {
	Customer   string
	DomainName string
}

// registerDomainTools registers the domain tools. Domains are read-only here,
// so both tools are available in read-only mode.
func registerDomainTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listDomainsTool := mcp.NewTool("list_domains",
		mcp.WithDescription("Lists all domains in the Google Workspace account. This is useful to see which domains are available for creating groups."),
		customerOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(listDomainsTool, common.InstrumentedToolHandler(sc, listDomainsSpec(sc)))

	getDomainTool := mcp.NewTool("get_domain",
		mcp.WithDescription("Get details of a specific domain in the Google Workspace account."),
		mcp.WithString(argDomainName,
			mcp.Required(),
			mcp.Description("The domain name to retrieve details for"),
		),
		customerOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(getDomainTool, common.InstrumentedToolHandler(sc, getDomainSpec(sc)))
}

func listDomainsSpec(sc *server.ServerContext) common.ToolSpec[listDomainsParams] {
	return common.ToolSpec[listDomainsParams]{
		Name:     "list_domains",
		ReadOnly: true,
		Parse: func(args map[string]any) (listDomainsParams, error) {
			customer, err := common.StringOrDefault(args, argCustomer, directory.DefaultCustomer)
			return listDomainsParams{Customer: customer}, err
		},
		Span: func(p listDomainsParams, b *instrumentation.SpanAttributeBuilder) {
			b.WithCustomer(p.Customer)
		},
		Action: func(listDomainsParams) string { return "list domains" },
		Run: func(ctx context.Context, api directory.API, p listDomainsParams) (*mcp.CallToolResult, error) {
			domains, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationDomainsList,
				func(ctx context.Context) (*admin.Domains2, error) {
					return api.ListDomains(ctx, p.Customer)
				})
			if err != nil {
				return nil, err
			}
			return common.PageResult("domains", domains.Domains, "")
		},
	}
}

func getDomainSpec(sc *server.ServerContext) common.ToolSpec[getDomainParams] {
	return common.ToolSpec[getDomainParams]{
		Name:     "get_domain",
		ReadOnly: true,
		Parse: func(args map[string]any) (getDomainParams, error) {
			name, err := common.RequireString(args, argDomainName)
			if err != nil {
				return getDomainParams{}, err
			}
			customer, err := common.StringOrDefault(args, argCustomer, directory.DefaultCustomer)
			return getDomainParams{Customer: customer, DomainName: name}, err
		},
		Target: func(p getDomainParams) common.Target { return common.Target{Domain: p.DomainName} },
		Span: func(p getDomainParams, b *instrumentation.SpanAttributeBuilder) {
			b.WithCustomer(p.Customer)
		},
		Action: func(p getDomainParams) string { return fmt.Sprintf("get domain %s", p.DomainName) },
		Run: func(ctx context.Context, api directory.API, p getDomainParams) (*mcp.CallToolResult, error) {
			domain, err := common.CallRemoteObject(ctx, sc, instrumentation.OperationDomainsGet,
				func(ctx context.Context) (*admin.Domains, error) {
					return api.GetDomain(ctx, p.Customer, p.DomainName)
				})
			if err != nil {
				return nil, err
			}
			return common.ObjectResult(domain)
		},
	}
}
