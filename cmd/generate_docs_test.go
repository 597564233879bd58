package cmd

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategoryFromToolName(t *testing.T) {
	tests := map[string]string{
		"list_domains":  "Domain Tools",
		"get_domain":    "Domain Tools",
		"list_groups":   "Group Tools",
		"update_group":  "Group Tools",
		"list_members":  "Member Tools",
		"has_member":    "Member Tools",
		"remove_member": "Member Tools",
		"whoami":        "Other",
	}

	for name, want := range tests {
		assert.Equal(t, want, getCategoryFromToolName(name), name)
	}
}

func TestListAllTools(t *testing.T) {
	tools, err := listAllTools()
	require.NoError(t, err)
	assert.Len(t, tools, 13)
}

func TestGenerateToolsMarkdown(t *testing.T) {
	tools, err := listAllTools()
	require.NoError(t, err)

	markdown := generateToolsMarkdown(tools)

	for _, tool := range tools {
		assert.Contains(t, markdown, "### "+tool.Name+"\n", "missing %s", tool.Name)
	}
	assert.Contains(t, markdown, "- [Domain Tools](#domain-tools)")
	assert.Contains(t, markdown, "- [Group Tools](#group-tools)")
	assert.Contains(t, markdown, "- [Member Tools](#member-tools)")
	assert.Contains(t, markdown, "X-Forwarded-Access-Token")
	assert.Less(t, strings.Index(markdown, "## Domain Tools"), strings.Index(markdown, "## Group Tools"))
}

func TestGenerateToolMarkdown(t *testing.T) {
	tool := mcp.NewTool("add_member",
		mcp.WithDescription("Adds a member to a Google Group."),
		mcp.WithString("group_email", mcp.Required(), mcp.Description("Email address of the group")),
		mcp.WithString("role", mcp.Enum("OWNER", "MANAGER", "MEMBER"), mcp.DefaultString("MEMBER")),
	)

	markdown := generateToolMarkdown(tool)

	assert.Contains(t, markdown, "### add_member\n\nAdds a member to a Google Group.\n\n")
	assert.Contains(t, markdown, "- `group_email` (string, required): Email address of the group\n")
	assert.Contains(t, markdown, "- `role` (string, optional): string parameter. One of: `OWNER`, `MANAGER`, `MEMBER`. Default: `MEMBER`\n")
	assert.NotContains(t, markdown, "Read-only")
}

func TestGenerateToolMarkdown_ReadOnly(t *testing.T) {
	tool := mcp.NewTool("get_group",
		mcp.WithDescription("Get details of a specific Google Group by its email address."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	assert.Contains(t, generateToolMarkdown(tool), "*Read-only. Available with `--read-only`.*")
}
