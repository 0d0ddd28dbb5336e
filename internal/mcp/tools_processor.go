package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

type processorInput struct {
	ProcessorID string `json:"processor_id" jsonschema:"required,Processor identifier"`
}

type processorRevisionInput struct {
	ProcessorID string `json:"processor_id" jsonschema:"required,Processor identifier"`
	Version     int64  `json:"version" jsonschema:"required,Current revision version of the processor"`
}

type createProcessorInput struct {
	ProcessGroupID string  `json:"process_group_id" jsonschema:"required,Process group to create the processor in"`
	Type           string  `json:"type" jsonschema:"required,Fully qualified processor type, e.g. org.apache.nifi.processors.standard.GenerateFlowFile"`
	Name           string  `json:"name,omitempty" jsonschema:"Display name (defaults to the short type name)"`
	PositionX      float64 `json:"position_x,omitempty" jsonschema:"Canvas X coordinate (default 0)"`
	PositionY      float64 `json:"position_y,omitempty" jsonschema:"Canvas Y coordinate (default 0)"`
}

type updateProcessorConfigInput struct {
	ProcessorID        string            `json:"processor_id" jsonschema:"required,Processor identifier"`
	Version            int64             `json:"version" jsonschema:"required,Current revision version of the processor"`
	Properties         map[string]string `json:"properties,omitempty" jsonschema:"Processor properties to set or replace"`
	SchedulingStrategy string            `json:"scheduling_strategy,omitempty" jsonschema:"Scheduling strategy, e.g. TIMER_DRIVEN or CRON_DRIVEN"`
	SchedulingPeriod   string            `json:"scheduling_period,omitempty" jsonschema:"Run schedule, e.g. '30 sec'"`
	AutoTerminated     []string          `json:"auto_terminated_relationships,omitempty" jsonschema:"Relationships to auto-terminate"`
}

func (s *Server) registerProcessorTools() error {
	if err := addTool(s, ToolMetadata{
		Name:        "list_processors",
		Description: "List the processors in a process group.",
		Category:    CategoryProcessor,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "list_processors", false, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("list_processors", "process_group_id is required")
			}
			return s.nifi.ListProcessors(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_processor_details",
		Description: "Fetch one processor including its configuration, properties and revision.",
		Category:    CategoryProcessor,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processorInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_processor_details", false, func(ctx context.Context) (any, error) {
			if args.ProcessorID == "" {
				return nil, errInvalidArg("get_processor_details", "processor_id is required")
			}
			return s.nifi.GetProcessor(ctx, args.ProcessorID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_processor_state",
		Description: "Report a processor's run state (RUNNING, STOPPED, DISABLED, ...).",
		Category:    CategoryProcessor,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processorInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_processor_state", false, func(ctx context.Context) (any, error) {
			if args.ProcessorID == "" {
				return nil, errInvalidArg("get_processor_state", "processor_id is required")
			}
			state, err := s.nifi.GetProcessorState(ctx, args.ProcessorID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"processor_id": args.ProcessorID, "state": state}, nil
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_processor_types",
		Description: "List the processor types available on the NiFi instance.",
		Category:    CategoryProcessor,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_processor_types", false, func(ctx context.Context) (any, error) {
			return s.nifi.GetProcessorTypes(ctx)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "start_processor",
		Description: "Start a processor.",
		Category:    CategoryProcessor,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processorRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "start_processor", true, func(ctx context.Context) (any, error) {
			if args.ProcessorID == "" {
				return nil, errInvalidArg("start_processor", "processor_id is required")
			}
			return s.nifi.StartProcessor(ctx, args.ProcessorID, args.Version)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "stop_processor",
		Description: "Stop a processor.",
		Category:    CategoryProcessor,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processorRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "stop_processor", true, func(ctx context.Context) (any, error) {
			if args.ProcessorID == "" {
				return nil, errInvalidArg("stop_processor", "processor_id is required")
			}
			return s.nifi.StopProcessor(ctx, args.ProcessorID, args.Version)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "terminate_processor",
		Description: "Stop a processor and terminate any hung threads.",
		Category:    CategoryProcessor,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processorRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "terminate_processor", true, func(ctx context.Context) (any, error) {
			if args.ProcessorID == "" {
				return nil, errInvalidArg("terminate_processor", "processor_id is required")
			}
			return s.nifi.TerminateProcessor(ctx, args.ProcessorID, args.Version)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "create_processor",
		Description: "Create a processor in a process group.",
		Category:    CategoryProcessor,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createProcessorInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "create_processor", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" || args.Type == "" {
				return nil, errInvalidArg("create_processor", "process_group_id and type are required")
			}
			return s.nifi.CreateProcessor(ctx, args.ProcessGroupID, args.Type, args.Name, nifi.Position{X: args.PositionX, Y: args.PositionY})
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "update_processor_config",
		Description: "Update a processor's properties, scheduling or auto-terminated relationships.",
		Category:    CategoryProcessor,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateProcessorConfigInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "update_processor_config", true, func(ctx context.Context) (any, error) {
			if args.ProcessorID == "" {
				return nil, errInvalidArg("update_processor_config", "processor_id is required")
			}
			cfg := nifi.Entity{}
			if len(args.Properties) > 0 {
				cfg["properties"] = args.Properties
			}
			if args.SchedulingStrategy != "" {
				cfg["schedulingStrategy"] = args.SchedulingStrategy
			}
			if args.SchedulingPeriod != "" {
				cfg["schedulingPeriod"] = args.SchedulingPeriod
			}
			if len(args.AutoTerminated) > 0 {
				cfg["autoTerminatedRelationships"] = args.AutoTerminated
			}
			if len(cfg) == 0 {
				return nil, errInvalidArg("update_processor_config", "at least one configuration field is required")
			}
			return s.nifi.UpdateProcessor(ctx, args.ProcessorID, args.Version, nifi.Entity{"config": cfg})
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "delete_processor",
		Description: "Delete a stopped processor.",
		Category:    CategoryProcessor,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processorRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "delete_processor", true, func(ctx context.Context) (any, error) {
			if args.ProcessorID == "" {
				return nil, errInvalidArg("delete_processor", "processor_id is required")
			}
			return s.nifi.DeleteProcessor(ctx, args.ProcessorID, args.Version)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "start_all_processors_in_group",
		Description: "Start every stopped processor in a process group, reporting per-processor failures.",
		Category:    CategoryProcessor,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "start_all_processors_in_group", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("start_all_processors_in_group", "process_group_id is required")
			}
			return s.nifi.StartAllProcessorsInGroup(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	return addTool(s, ToolMetadata{
		Name:        "stop_all_processors_in_group",
		Description: "Stop every running processor in a process group, reporting per-processor failures.",
		Category:    CategoryProcessor,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "stop_all_processors_in_group", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("stop_all_processors_in_group", "process_group_id is required")
			}
			return s.nifi.StopAllProcessorsInGroup(ctx, args.ProcessGroupID)
		})
	})
}
