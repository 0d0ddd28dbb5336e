package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/flowgate/internal/flowbuilder"
	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

type analyzeFlowRequestInput struct {
	Request string `json:"request" jsonschema:"required,Natural-language description of the flow to build, e.g. 'move data from Kafka to S3'"`
}

type startNewFlowInput struct {
	Request        string            `json:"request" jsonschema:"required,Natural-language description of the flow to build"`
	ProcessGroupID string            `json:"parent_process_group_id,omitempty" jsonschema:"Parent group for the new flow (default root)"`
	Name           string            `json:"name,omitempty" jsonschema:"Name for the new process group (defaults to the matched template name)"`
	Requirements   map[string]string `json:"requirements,omitempty" jsonschema:"Collected requirement values keyed by requirement name"`
}

func (s *Server) registerBuilderTools() error {
	if err := addTool(s, ToolMetadata{
		Name:        "analyze_flow_build_request",
		Description: "Match a flow-building request against known patterns and list the information still needed.",
		Category:    CategoryBuilder,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args analyzeFlowRequestInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "analyze_flow_build_request", false, func(ctx context.Context) (any, error) {
			if args.Request == "" {
				return nil, errInvalidArg("analyze_flow_build_request", "request is required")
			}
			return flowbuilder.AnalyzeRequest(args.Request), nil
		})
	}); err != nil {
		return err
	}

	return addTool(s, ToolMetadata{
		Name:        "start_new_flow",
		Description: "Create a process group for a recognized flow pattern and return the build plan to follow.",
		Category:    CategoryBuilder,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args startNewFlowInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "start_new_flow", true, func(ctx context.Context) (any, error) {
			if args.Request == "" {
				return nil, errInvalidArg("start_new_flow", "request is required")
			}
			return s.startNewFlow(ctx, args)
		})
	})
}

// startNewFlow matches the request against the pattern library, creates a
// process group to host the flow and hands back the template's build plan.
// Missing requirements stop the build before anything is created.
func (s *Server) startNewFlow(ctx context.Context, args startNewFlowInput) (any, error) {
	tmpl := flowbuilder.IdentifyPattern(args.Request)
	if tmpl == nil {
		return map[string]any{
			"created":  false,
			"message":  "no known flow pattern matched the request",
			"analysis": flowbuilder.AnalyzeRequest(args.Request),
		}, nil
	}

	if ok, missing := flowbuilder.ValidateRequirements(tmpl, args.Requirements); !ok {
		return map[string]any{
			"created":              false,
			"pattern":              tmpl.Key,
			"missing_requirements": missing,
			"requirements_prompt":  flowbuilder.FormatRequirements(tmpl),
		}, nil
	}

	parent := args.ProcessGroupID
	if parent == "" {
		parent = "root"
	}
	name := args.Name
	if name == "" {
		name = tmpl.Name
	}

	group, err := s.nifi.CreateProcessGroup(ctx, parent, name, nifi.Position{})
	if err != nil {
		return nil, err
	}

	positions := flowbuilder.LinearFlow(len(tmpl.ProcessorTypes), 0, 0, 350)
	plan := make([]map[string]any, 0, len(tmpl.ProcessorTypes))
	for i, ptype := range tmpl.ProcessorTypes {
		plan = append(plan, map[string]any{
			"step":       i + 1,
			"type":       ptype,
			"position_x": positions[i].X,
			"position_y": positions[i].Y,
		})
	}

	return map[string]any{
		"created":       true,
		"pattern":       tmpl.Key,
		"process_group": group,
		"build_plan":    plan,
		"next_steps": fmt.Sprintf("Create the %d processors above inside the new group with create_processor, "+
			"connect them in order with create_connection, configure required properties with "+
			"update_processor_config, then start them with start_all_processors_in_group.", len(tmpl.ProcessorTypes)),
	}, nil
}
