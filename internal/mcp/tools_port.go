package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

type createPortInput struct {
	ProcessGroupID string  `json:"process_group_id" jsonschema:"required,Process group to create the port in"`
	Name           string  `json:"name" jsonschema:"required,Port name"`
	PositionX      float64 `json:"position_x,omitempty" jsonschema:"Canvas X coordinate (default 0)"`
	PositionY      float64 `json:"position_y,omitempty" jsonschema:"Canvas Y coordinate (default 0)"`
}

type updatePortInput struct {
	PortID  string `json:"port_id" jsonschema:"required,Port identifier"`
	Version int64  `json:"version" jsonschema:"required,Current revision version of the port"`
	Name    string `json:"name" jsonschema:"required,New port name"`
}

type portRevisionInput struct {
	PortID  string `json:"port_id" jsonschema:"required,Port identifier"`
	Version int64  `json:"version" jsonschema:"required,Current revision version of the port"`
}

// portOp describes one port tool backed by a client method taking
// (portID, version).
type portOp struct {
	name        string
	description string
	call        func(context.Context, string, int64) (nifi.Entity, error)
}

func (s *Server) registerPortTools() error {
	if err := addTool(s, ToolMetadata{
		Name:        "list_input_ports",
		Description: "List the input ports of a process group.",
		Category:    CategoryPort,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "list_input_ports", false, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("list_input_ports", "process_group_id is required")
			}
			return s.nifi.GetInputPorts(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "list_output_ports",
		Description: "List the output ports of a process group.",
		Category:    CategoryPort,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "list_output_ports", false, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("list_output_ports", "process_group_id is required")
			}
			return s.nifi.GetOutputPorts(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "create_input_port",
		Description: "Create an input port in a process group.",
		Category:    CategoryPort,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createPortInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "create_input_port", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" || args.Name == "" {
				return nil, errInvalidArg("create_input_port", "process_group_id and name are required")
			}
			return s.nifi.CreateInputPort(ctx, args.ProcessGroupID, args.Name, nifi.Position{X: args.PositionX, Y: args.PositionY})
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "create_output_port",
		Description: "Create an output port in a process group.",
		Category:    CategoryPort,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createPortInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "create_output_port", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" || args.Name == "" {
				return nil, errInvalidArg("create_output_port", "process_group_id and name are required")
			}
			return s.nifi.CreateOutputPort(ctx, args.ProcessGroupID, args.Name, nifi.Position{X: args.PositionX, Y: args.PositionY})
		})
	}); err != nil {
		return err
	}

	renames := []struct {
		name        string
		description string
		call        func(context.Context, string, int64, string) (nifi.Entity, error)
	}{
		{"update_input_port", "Rename an input port.", s.nifi.UpdateInputPort},
		{"update_output_port", "Rename an output port.", s.nifi.UpdateOutputPort},
	}
	for _, op := range renames {
		op := op
		if err := addTool(s, ToolMetadata{
			Name:        op.name,
			Description: op.description,
			Category:    CategoryPort,
			Write:       true,
		}, func(ctx context.Context, req *mcp.CallToolRequest, args updatePortInput) (*mcp.CallToolResult, map[string]any, error) {
			return s.run(ctx, op.name, true, func(ctx context.Context) (any, error) {
				if args.PortID == "" || args.Name == "" {
					return nil, errInvalidArg(op.name, "port_id and name are required")
				}
				return op.call(ctx, args.PortID, args.Version, args.Name)
			})
		}); err != nil {
			return err
		}
	}

	ops := []portOp{
		{"delete_input_port", "Delete a stopped input port.", s.nifi.DeleteInputPort},
		{"delete_output_port", "Delete a stopped output port.", s.nifi.DeleteOutputPort},
		{"start_input_port", "Start an input port.", s.nifi.StartInputPort},
		{"stop_input_port", "Stop an input port.", s.nifi.StopInputPort},
		{"start_output_port", "Start an output port.", s.nifi.StartOutputPort},
		{"stop_output_port", "Stop an output port.", s.nifi.StopOutputPort},
	}
	for _, op := range ops {
		op := op
		if err := addTool(s, ToolMetadata{
			Name:        op.name,
			Description: op.description,
			Category:    CategoryPort,
			Write:       true,
		}, func(ctx context.Context, req *mcp.CallToolRequest, args portRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
			return s.run(ctx, op.name, true, func(ctx context.Context) (any, error) {
				if args.PortID == "" {
					return nil, errInvalidArg(op.name, "port_id is required")
				}
				return op.call(ctx, args.PortID, args.Version)
			})
		}); err != nil {
			return err
		}
	}

	return nil
}
