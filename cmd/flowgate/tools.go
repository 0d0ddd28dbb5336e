package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gateway "github.com/fyrsmithlabs/flowgate/internal/mcp"
	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

var toolsCategory string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools the gateway exposes",
	Long: `List every registered tool with its category and whether it mutates
the flow. Listing works offline; no NiFi connection is made.

Examples:
  flowgate tools
  flowgate tools --category processor`,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().StringVar(&toolsCategory, "category", "", "only show tools in this category")
}

func runTools(cmd *cobra.Command, args []string) error {
	// The registry is static, so a placeholder client is enough to
	// enumerate it without any configuration.
	client, err := nifi.NewClient(nifi.Config{BaseURL: "http://localhost/nifi-api"}, nil, nil, zap.NewNop())
	if err != nil {
		return err
	}
	server, err := gateway.NewServer(gateway.Config{
		Name:     "flowgate",
		Version:  version,
		NiFi:     client,
		ReadOnly: true,
	})
	if err != nil {
		return err
	}

	registry := server.Registry()
	tools := registry.List()
	if toolsCategory != "" {
		tools = registry.ByCategory(toolsCategory)
	}

	for _, meta := range tools {
		mode := "read "
		if meta.Write {
			mode = "write"
		}
		fmt.Printf("%-42s %-10s %s  %s\n", meta.Name, meta.Category, mode, meta.Description)
	}
	fmt.Printf("\n%d tools in %d categories\n", len(tools), len(registry.Categories()))
	return nil
}
