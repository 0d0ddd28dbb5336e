package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// addTool records registry metadata and registers the typed handler.
func addTool[In, Out any](s *Server, meta ToolMetadata, handler mcp.ToolHandlerFor[In, Out]) error {
	if err := s.registry.Register(meta); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        meta.Name,
		Description: meta.Description,
	}, handler)
	return nil
}

func (s *Server) registerTools() error {
	registrars := []func() error{
		s.registerFlowTools,
		s.registerProcessorTools,
		s.registerConnectionTools,
		s.registerServiceTools,
		s.registerPortTools,
		s.registerParameterTools,
		s.registerBuilderTools,
		s.registerDiagnosticTools,
	}
	for _, register := range registrars {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
