package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type serviceInput struct {
	ServiceID string `json:"service_id" jsonschema:"required,Controller service identifier"`
}

type serviceRevisionInput struct {
	ServiceID string `json:"service_id" jsonschema:"required,Controller service identifier"`
	Version   int64  `json:"version" jsonschema:"required,Current revision version of the service"`
}

type listServicesInput struct {
	ProcessGroupID string `json:"process_group_id,omitempty" jsonschema:"Process group scope. Omit for controller-level services"`
}

type findServicesByTypeInput struct {
	ProcessGroupID string `json:"process_group_id" jsonschema:"required,Process group to search, or 'root'"`
	ServiceType    string `json:"service_type" jsonschema:"required,Type substring to match, e.g. DBCPConnectionPool"`
}

type createServiceInput struct {
	ProcessGroupID string `json:"process_group_id" jsonschema:"required,Process group to create the service in"`
	Type           string `json:"type" jsonschema:"required,Fully qualified service type, e.g. org.apache.nifi.dbcp.DBCPConnectionPool"`
	Name           string `json:"name,omitempty" jsonschema:"Display name (defaults to the short type name)"`
}

type updateServicePropertiesInput struct {
	ServiceID  string            `json:"service_id" jsonschema:"required,Controller service identifier"`
	Version    int64             `json:"version" jsonschema:"required,Current revision version of the service"`
	Properties map[string]string `json:"properties" jsonschema:"required,Service properties to set or replace"`
}

func (s *Server) registerServiceTools() error {
	if err := addTool(s, ToolMetadata{
		Name:        "get_controller_services",
		Description: "List controller services scoped to a process group, or controller-level services when no group is given.",
		Category:    CategoryService,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listServicesInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_controller_services", false, func(ctx context.Context) (any, error) {
			return s.nifi.GetControllerServices(ctx, args.ProcessGroupID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "get_controller_service_details",
		Description: "Fetch one controller service including its properties, state and revision.",
		Category:    CategoryService,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args serviceInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "get_controller_service_details", false, func(ctx context.Context) (any, error) {
			if args.ServiceID == "" {
				return nil, errInvalidArg("get_controller_service_details", "service_id is required")
			}
			return s.nifi.GetControllerService(ctx, args.ServiceID)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "find_controller_services_by_type",
		Description: "Find controller services in a group whose type matches a substring.",
		Category:    CategoryService,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args findServicesByTypeInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "find_controller_services_by_type", false, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" || args.ServiceType == "" {
				return nil, errInvalidArg("find_controller_services_by_type", "process_group_id and service_type are required")
			}
			matches, err := s.nifi.FindControllerServicesByType(ctx, args.ProcessGroupID, args.ServiceType)
			if err != nil {
				return nil, err
			}
			return map[string]any{"services": matches, "count": len(matches)}, nil
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "enable_controller_service",
		Description: "Enable a controller service.",
		Category:    CategoryService,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args serviceRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "enable_controller_service", true, func(ctx context.Context) (any, error) {
			if args.ServiceID == "" {
				return nil, errInvalidArg("enable_controller_service", "service_id is required")
			}
			return s.nifi.EnableControllerService(ctx, args.ServiceID, args.Version)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "disable_controller_service",
		Description: "Disable a controller service. Referencing components must be stopped first.",
		Category:    CategoryService,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args serviceRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "disable_controller_service", true, func(ctx context.Context) (any, error) {
			if args.ServiceID == "" {
				return nil, errInvalidArg("disable_controller_service", "service_id is required")
			}
			return s.nifi.DisableControllerService(ctx, args.ServiceID, args.Version)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "create_controller_service",
		Description: "Create a controller service in a process group.",
		Category:    CategoryService,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createServiceInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "create_controller_service", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" || args.Type == "" {
				return nil, errInvalidArg("create_controller_service", "process_group_id and type are required")
			}
			return s.nifi.CreateControllerService(ctx, args.ProcessGroupID, args.Type, args.Name)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "update_controller_service_properties",
		Description: "Update a disabled controller service's properties.",
		Category:    CategoryService,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateServicePropertiesInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "update_controller_service_properties", true, func(ctx context.Context) (any, error) {
			if args.ServiceID == "" || len(args.Properties) == 0 {
				return nil, errInvalidArg("update_controller_service_properties", "service_id and properties are required")
			}
			return s.nifi.UpdateControllerService(ctx, args.ServiceID, args.Version, args.Properties)
		})
	}); err != nil {
		return err
	}

	if err := addTool(s, ToolMetadata{
		Name:        "delete_controller_service",
		Description: "Delete a disabled, unreferenced controller service.",
		Category:    CategoryService,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args serviceRevisionInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "delete_controller_service", true, func(ctx context.Context) (any, error) {
			if args.ServiceID == "" {
				return nil, errInvalidArg("delete_controller_service", "service_id is required")
			}
			return s.nifi.DeleteControllerService(ctx, args.ServiceID, args.Version)
		})
	}); err != nil {
		return err
	}

	return addTool(s, ToolMetadata{
		Name:        "enable_all_controller_services_in_group",
		Description: "Enable every disabled controller service in a process group, reporting per-service failures.",
		Category:    CategoryService,
		Write:       true,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args processGroupInput) (*mcp.CallToolResult, map[string]any, error) {
		return s.run(ctx, "enable_all_controller_services_in_group", true, func(ctx context.Context) (any, error) {
			if args.ProcessGroupID == "" {
				return nil, errInvalidArg("enable_all_controller_services_in_group", "process_group_id is required")
			}
			return s.nifi.EnableAllControllerServicesInGroup(ctx, args.ProcessGroupID)
		})
	})
}
