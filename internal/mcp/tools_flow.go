package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

type processGroupInput struct {
	ProcessGroupID string `json:"process_group_id" jsonschema:"required,Process group identifier, or 'root' for the top-level group"`
}

type searchFlowInput struct {
	Query string `json:"query" jsonschema:"required,Search term matched against component names, properties and comments"`
}

type bulletinsInput struct {
	After int64 `json:"after,omitempty" jsonschema:"Only return bulletins with an id greater than this value"`
}

type createProcessGroupInput struct {
	ParentID  string  `json:"parent_process_group_id" jsonschema:"required,Parent process group identifier, or 'root'"`
	Name      string  `json:"name" jsonschema:"required,Name for the new process group"`
	PositionX float64 `json:"position_x,omitempty" jsonschema:"Canvas X coordinate (default 0)"`
	PositionY float64 `json:"position_y,omitempty" jsonschema:"Canvas Y coordinate (default 0)"`
}

type updateProcessGroupNameInput struct {
	ProcessGroupID string `json:"process_group_id" jsonschema:"required,Process group identifier"`
	Version        int64  `json:"version" jsonschema:"required,Current revision version of the process group"`
	Name           string `json:"name" jsonschema:"required,New name"`
}

type deleteComponentInput struct {
	ID      string `json:"id" jsonschema:"required,Component identifier"`
	Version int64  `json:"version" jsonschema:"required,Current revision version of the component"`
}

func (s *Server) registerFlowTools() error {
	if err := addTool(s, ToolMetadata{
		Name:        "get_nifi_version",
		Description: "Report the NiFi engine version and build details from flow/about.",
		Category:    CategoryFlow,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_nifi_version", false, func(ctx context.Context) (any, error) {
			about, err := s.nifi.VersionInfo(ctx)
			if err != nil {
				return nil, err
			}
			about["detected_version"] = s.nifi.EngineVersion(ctx).String()
			return about, nil
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_root_process_group",
		Description: "Fetch the root process group, the entry point for navigating the flow.",
		Category:    CategoryFlow,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_root_process_group", false, func(ctx context.Context) (any, error) {
			return s.nifi.GetRootProcessGroup(ctx)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_process_group",
		Description: "Fetch one process group with its contents.",
		Category:    CategoryFlow,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_process_group", false, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("get_process_group", "process_group_id is required")
			}
			return s.nifi.GetProcessGroup(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_flow_summary",
		Description: "Summarize a process group: processor state counts, connection count and queued totals.",
		Category:    CategoryFlow,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_flow_summary", false, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("get_flow_summary", "process_group_id is required")
			}
			return s.nifi.ProcessGroupSummary(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_flow_health_status",
		Description: "Assess a process group: invalid components, backpressure, disabled services and recent bulletins.",
		Category:    CategoryFlow,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_flow_health_status", false, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("get_flow_health_status", "process_group_id is required")
			}
			return s.nifi.FlowHealthStatus(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "search_flow",
		Description: "Search the whole flow for components matching a term.",
		Category:    CategoryFlow,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args searchFlowInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "search_flow", false, func(ctx context.Context) (any, error) {
			if args.Query == "" {
				return nil, errInvalidArg("search_flow", "query is required")
			}
			return s.nifi.SearchFlow(ctx, args.Query)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_bulletins",
		Description: "Fetch recent bulletin board messages, optionally only those after a given id.",
		Category:    CategoryFlow,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args bulletinsInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_bulletins", false, func(ctx context.Context) (any, error) {
			return s.nifi.GetBulletins(ctx, args.After)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "create_process_group",
		Description: "Create a process group inside a parent group.",
		Category:    CategoryFlow,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createProcessGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "create_process_group", true, func(ctx context.Context) (any, error) {
			if args.ParentID == "" || args.Name == "" {
				return nil, errInvalidArg("create_process_group", "parent_process_group_id and name are required")
			}
			return s.nifi.CreateProcessGroup(ctx, args.ParentID, args.Name, nifi.Position{X: args.PositionX, Y: args.PositionY})
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "update_process_group_name",
		Description: "Rename a process group.",
		Category:    CategoryFlow,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateProcessGroupNameInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "update_process_group_name", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" || args.Name == "" {
				return nil, errInvalidArg("update_process_group_name", "process_group_id and name are required")
			}
			return s.nifi.UpdateProcessGroup(ctx, args.ProcessGroupID, args.Version, args.Name)
		})
	}); err != nil {
		return err
	}

	return addTool(s, ToolMetadata{
		Name:        "delete_process_group",
		Description: "Delete an empty, stopped process group.",
		Category:    CategoryFlow,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args deleteComponentInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "delete_process_group", true, func(ctx context.Context) (any, error) {
			if args.ID == "" {
				return nil, errInvalidArg("delete_process_group", "id is required")
			}
			return s.nifi.DeleteProcessGroup(ctx, args.ID, args.Version)
		})
	})
}
