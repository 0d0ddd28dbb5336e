// Package mcp exposes the NiFi client as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/flowgate/internal/config"
	"github.com/fyrsmithlabs/flowgate/internal/nifi"
	"github.com/fyrsmithlabs/flowgate/internal/redact"
	"github.com/fyrsmithlabs/flowgate/internal/secrets"
)

// Config carries the dependencies for the tool server.
type Config struct {
	Name     string
	Version  string
	NiFi     *nifi.Client
	Redactor *redact.Redactor
	Logger   *zap.Logger
	ReadOnly bool
	App      *config.Config
}

// Server registers every gateway tool on an MCP server and serves it
// over stdio or an HTTP stream.
type Server struct {
	mcp      *mcp.Server
	nifi     *nifi.Client
	redactor *redact.Redactor
	registry *ToolRegistry
	metrics  *Metrics
	logger   *zap.Logger
	readonly bool
	app      *config.Config
	version  string
}

// NewServer builds the MCP server and registers the full tool surface.
func NewServer(cfg Config) (*Server, error) {
	if cfg.NiFi == nil {
		return nil, fmt.Errorf("nifi client is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Redactor == nil {
		cfg.Redactor = redact.New(redact.WithScrubber(secrets.MustNew(nil)))
	}
	if cfg.Name == "" {
		cfg.Name = "flowgate"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	metrics, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		nifi:     cfg.NiFi,
		redactor: cfg.Redactor,
		registry: NewToolRegistry(),
		metrics:  metrics,
		logger:   cfg.Logger.Named("mcp"),
		readonly: cfg.ReadOnly,
		app:      cfg.App,
		version:  cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	s.logger.Info("tool server initialized",
		zap.Int("tools", s.registry.Count()),
		zap.Bool("readonly", s.readonly))
	return s, nil
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// MCP returns the underlying protocol server, used by the HTTP
// transport to mount a streamable handler.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Registry exposes tool metadata for discovery commands.
func (s *Server) Registry() *ToolRegistry { return s.registry }
