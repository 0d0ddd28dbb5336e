package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

type parameterContextInput struct {
	ContextID string `json:"context_id" jsonschema:"required,Parameter context identifier"`
}

type parameterValue struct {
	Name        string `json:"name" jsonschema:"required,Parameter name"`
	Value       string `json:"value,omitempty" jsonschema:"Parameter value"`
	Description string `json:"description,omitempty" jsonschema:"Parameter description"`
	Sensitive   bool   `json:"sensitive,omitempty" jsonschema:"Whether the value is sensitive"`
}

type createParameterContextInput struct {
	Name        string           `json:"name" jsonschema:"required,Name for the new parameter context"`
	Description string           `json:"description,omitempty" jsonschema:"Context description"`
	Parameters  []parameterValue `json:"parameters,omitempty" jsonschema:"Initial parameters"`
}

type updateParameterContextInput struct {
	ContextID  string           `json:"context_id" jsonschema:"required,Parameter context identifier"`
	Version    int64            `json:"version" jsonschema:"required,Current revision version of the context"`
	Name       string           `json:"name,omitempty" jsonschema:"New name (omit to keep)"`
	Parameters []parameterValue `json:"parameters,omitempty" jsonschema:"Parameters to add or replace"`
}

type deleteParameterContextInput struct {
	ContextID string `json:"context_id" jsonschema:"required,Parameter context identifier"`
	Version   int64  `json:"version" jsonschema:"required,Current revision version of the context"`
}

type applyParameterContextInput struct {
	ProcessGroupID string `json:"process_group_id" jsonschema:"required,Process group to bind the context to"`
	Version        int64  `json:"version" jsonschema:"required,Current revision version of the process group"`
	ContextID      string `json:"context_id" jsonschema:"required,Parameter context identifier"`
}

func toParameters(in []parameterValue) []nifi.Parameter {
	out := make([]nifi.Parameter, 0, len(in))
	for _, p := range in {
		out = append(out, nifi.Parameter{
			Name:        p.Name,
			Value:       p.Value,
			Description: p.Description,
			Sensitive:   p.Sensitive,
		})
	}
	return out
}

func (s *Server) registerParameterTools() error {
	if err := addTool(s, ToolMetadata{
		Name:        "list_parameter_contexts",
		Description: "List all parameter contexts. On NiFi 2.x inherited parameters are included.",
		Category:    CategoryParameter,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "list_parameter_contexts", false, func(ctx context.Context) (any, error) {
			return s.nifi.ListParameterContexts(ctx)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_parameter_context_details",
		Description: "Fetch one parameter context with its parameters and bound process groups.",
		Category:    CategoryParameter,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args parameterContextInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_parameter_context_details", false, func(ctx context.Context) (any, error) {
			if args.ContextID == "" {
				return nil, errInvalidArg("get_parameter_context_details", "context_id is required")
			}
			return s.nifi.GetParameterContext(ctx, args.ContextID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "create_parameter_context",
		Description: "Create a parameter context.",
		Category:    CategoryParameter,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createParameterContextInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "create_parameter_context", true, func(ctx context.Context) (any, error) {
			if args.Name == "" {
				return nil, errInvalidArg("create_parameter_context", "name is required")
			}
			return s.nifi.CreateParameterContext(ctx, args.Name, args.Description, toParameters(args.Parameters))
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "update_parameter_context",
		Description: "Update a parameter context's name or parameters.",
		Category:    CategoryParameter,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateParameterContextInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "update_parameter_context", true, func(ctx context.Context) (any, error) {
			if args.ContextID == "" {
				return nil, errInvalidArg("update_parameter_context", "context_id is required")
			}
			return s.nifi.UpdateParameterContext(ctx, args.ContextID, args.Version, args.Name, toParameters(args.Parameters))
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "delete_parameter_context",
		Description: "Delete an unbound parameter context.",
		Category:    CategoryParameter,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args deleteParameterContextInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "delete_parameter_context", true, func(ctx context.Context) (any, error) {
			if args.ContextID == "" {
				return nil, errInvalidArg("delete_parameter_context", "context_id is required")
			}
			return s.nifi.DeleteParameterContext(ctx, args.ContextID, args.Version)
		})
	}); err != nil {
		return err
	}

	return addTool(s, ToolMetadata{
		Name:        "apply_parameter_context_to_process_group",
		Description: "Bind a parameter context to a process group.",
		Category:    CategoryParameter,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args applyParameterContextInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "apply_parameter_context_to_process_group", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" || args.ContextID == "" {
				return nil, errInvalidArg("apply_parameter_context_to_process_group", "process_group_id and context_id are required")
			}
			return s.nifi.ApplyParameterContextToProcessGroup(ctx, args.ProcessGroupID, args.Version, args.ContextID)
		})
	})
}
