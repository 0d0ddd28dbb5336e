package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolSearchInput struct {
	Query    string `json:"query,omitempty" jsonschema:"Term matched against tool names and descriptions. Omit to list everything"`
	Category string `json:"category,omitempty" jsonschema:"Restrict to one category: flow, processor, connection, service, port, parameter, builder or diagnostic"`
}

func (s *Server) registerDiagnosticTools() error {
	if err := addTool(s, ToolMetadata{
		Name:        "tool_search",
		Description: "Discover available tools by keyword or category.",
		Category:    CategoryDiagnostic,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args toolSearchInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "tool_search", false, func(ctx context.Context) (any, error) {
			var tools []ToolMetadata
			switch {
			case args.Category != "":
				tools = s.registry.ByCategory(args.Category)
				if args.Query != "" {
					filtered := tools[:0]
					for _, meta := range s.registry.Search(args.Query) {
						if meta.Category == args.Category {
							filtered = append(filtered, meta)
						}
					}
					tools = filtered
				}
			default:
				tools = s.registry.Search(args.Query)
			}
			return map[string]any{
				"tools":      tools,
				"count":      len(tools),
				"categories": s.registry.Categories(),
			}, nil
		})
	}); err != nil {
		return err
	}

	return addTool(s, ToolMetadata{
		Name:        "check_configuration",
		Description: "Report the gateway configuration, active auth strategy and NiFi reachability.",
		Category:    CategoryDiagnostic,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "check_configuration", false, func(ctx context.Context) (any, error) {
			report := map[string]any{
				"version":  s.version,
				"readonly": s.readonly,
				"tools":    s.registry.Count(),
			}
			if s.app != nil {
				report["nifi_api_base"] = s.app.Nifi.APIBase
				report["knox_gateway_url"] = s.app.Knox.GatewayURL
				report["http_timeout_seconds"] = s.app.HTTP.TimeoutSeconds
				report["http_max_retries"] = s.app.HTTP.MaxRetries
				report["transport"] = s.app.MCP.Transport
				report["warnings"] = s.app.Warnings()
			}
			if sess := s.nifi.Session(); sess != nil {
				report["auth_strategy"] = sess.Strategy()
			}

			if about, err := s.nifi.VersionInfo(ctx); err != nil {
				report["nifi_reachable"] = false
				report["nifi_error"] = err.Error()
			} else {
				report["nifi_reachable"] = true
				report["nifi_version"] = s.nifi.EngineVersion(ctx).String()
				report["nifi_about"] = about
			}
			return report, nil
		})
	})
}
