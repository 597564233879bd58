package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/groupsmcp/internal/server"
	"github.com/teemow/groupsmcp/internal/tools/directory_tools"
)

// serverName is the MCP implementation name announced to clients.
const serverName = "GoogleGroupsMCPServer"

// newMCPServer creates the MCP server and registers every tool.
func newMCPServer(sc *server.ServerContext, readOnly bool) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	if err := directory_tools.RegisterDirectoryTools(mcpSrv, sc, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register directory tools: %w", err)
	}

	return mcpSrv, nil
}
