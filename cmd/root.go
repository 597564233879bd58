package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the groupsmcp application
var rootCmd = &cobra.Command{
	Use:   "groupsmcp",
	Short: "MCP server for Google Groups and the Workspace Directory",
	Long: `groupsmcp exposes the Google Workspace Directory API (domains, groups and
group membership) as Model Context Protocol tools.

Every tool call acts with the access token forwarded by the caller in the
X-Forwarded-Access-Token header; the server itself holds no credentials.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "groupsmcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the server by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
