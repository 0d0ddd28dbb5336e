package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type connectionInput struct {
	ConnectionID string `json:"connection_id" jsonschema:"required,Connection identifier"`
}

type connectionRevisionInput struct {
	ConnectionID string `json:"connection_id" jsonschema:"required,Connection identifier"`
	Version      int64  `json:"version" jsonschema:"required,Current revision version of the connection"`
}

type createConnectionInput struct {
	ProcessGroupID  string   `json:"process_group_id" jsonschema:"required,Process group the connection lives in"`
	SourceID        string   `json:"source_id" jsonschema:"required,Source component identifier"`
	SourceType      string   `json:"source_type,omitempty" jsonschema:"Source component type: PROCESSOR, INPUT_PORT, OUTPUT_PORT or FUNNEL (default PROCESSOR)"`
	DestinationID   string   `json:"destination_id" jsonschema:"required,Destination component identifier"`
	DestinationType string   `json:"destination_type,omitempty" jsonschema:"Destination component type (default PROCESSOR)"`
	Relationships   []string `json:"relationships,omitempty" jsonschema:"Source relationships to route, e.g. ['success']"`
}

func (s *Server) registerConnectionTools() error {
	if err := addTool(s, ToolMetadata{
		Name:        "list_connections",
		Description: "List the connections in a process group.",
		Category:    CategoryConnection,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "list_connections", false, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("list_connections", "process_group_id is required")
			}
			return s.nifi.ListConnections(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_connection_details",
		Description: "Fetch one connection including its source, destination and backpressure settings.",
		Category:    CategoryConnection,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args connectionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_connection_details", false, func(ctx context.Context) (any, error) {
			if args.ConnectionID == "" {
				return nil, errInvalidArg("get_connection_details", "connection_id is required")
			}
			return s.nifi.GetConnection(ctx, args.ConnectionID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "check_connection_queue",
		Description: "Report the queued flowfile count and byte size of a connection.",
		Category:    CategoryConnection,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args connectionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "check_connection_queue", false, func(ctx context.Context) (any, error) {
			if args.ConnectionID == "" {
				return nil, errInvalidArg("check_connection_queue", "connection_id is required")
			}
			return s.nifi.GetConnectionQueueSize(ctx, args.ConnectionID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "create_connection",
		Description: "Connect two components in a process group.",
		Category:    CategoryConnection,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createConnectionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "create_connection", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" || args.SourceID == "" || args.DestinationID == "" {
				return nil, errInvalidArg("create_connection", "process_group_id, source_id and destination_id are required")
			}
			return s.nifi.CreateConnection(ctx, args.ProcessGroupID,
				args.SourceID, args.SourceType,
				args.DestinationID, args.DestinationType,
				args.Relationships)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "delete_connection",
		Description: "Delete a connection. The queue must be empty first.",
		Category:    CategoryConnection,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args connectionRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "delete_connection", true, func(ctx context.Context) (any, error) {
			if args.ConnectionID == "" {
				return nil, errInvalidArg("delete_connection", "connection_id is required")
			}
			return s.nifi.DeleteConnection(ctx, args.ConnectionID, args.Version)
		})
	}); err != nil {
		return err
	}

	return addTool(s, ToolMetadata{
		Name:        "empty_connection_queue",
		Description: "Drop all queued flowfiles from a connection via a drop request.",
		Category:    CategoryConnection,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args connectionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "empty_connection_queue", true, func(ctx context.Context) (any, error) {
			if args.ConnectionID == "" {
				return nil, errInvalidArg("empty_connection_queue", "connection_id is required")
			}
			return s.nifi.EmptyConnectionQueue(ctx, args.ConnectionID)
		})
	})
}
