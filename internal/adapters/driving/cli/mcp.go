package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Index the catalog and serve it over the Model Context Protocol.

The server exposes two tools: search_catalog returns the passages most
similar to a question, and ask_catalog answers a question from those
passages. By default it talks JSON-RPC over stdio; use --port to serve
HTTP instead.

Examples:
  # Stdio mode (for desktop assistants)
  catalogo mcp

  # HTTP mode (for MCP Inspector, remote access)
  catalogo mcp --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "catalogo": {
        "command": "/path/to/catalogo",
        "args": ["mcp", "--pdf", "/path/to/catalog.pdf"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	session, _, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer session.close()

	server, err := mcp.NewServer(&mcp.Ports{
		Ask:     session.Ask,
		Catalog: session.Catalog,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
