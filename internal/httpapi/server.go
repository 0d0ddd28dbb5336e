// Package httpapi serves the MCP endpoint over HTTP when the gateway is
// configured with mcp.transport=http. stdio remains the default transport.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

// Config holds the HTTP transport bind address.
type Config struct {
	Host string
	Port int
}

// Server mounts the streamable MCP handler plus health and metrics
// endpoints on an echo server.
type Server struct {
	echo   *echo.Echo
	nifi   *nifi.Client
	logger *zap.Logger
	config Config
}

func NewServer(mcpServer *mcp.Server, client *nifi.Client, logger *zap.Logger, cfg Config) (*Server, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if client == nil {
		return nil, fmt.Errorf("nifi client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8971
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:   e,
		nifi:   client,
		logger: logger.Named("httpapi"),
		config: cfg,
	}

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	e.Any("/mcp", echo.WrapHandler(streamable))
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s, nil
}

// HealthResponse is the body for GET /healthz.
type HealthResponse struct {
	Status      string `json:"status"`
	NiFiVersion string `json:"nifi_version,omitempty"`
	Error       string `json:"error,omitempty"`
}

// handleHealth probes NiFi reachability through the configured session.
func (s *Server) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	about, err := s.nifi.VersionInfo(ctx)
	if err != nil {
		s.logger.Warn("health probe failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "degraded",
			Error:  err.Error(),
		})
	}

	var version string
	if inner, ok := about["about"].(map[string]any); ok {
		version, _ = inner["version"].(string)
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		NiFiVersion: version,
	})
}

// Start serves until Shutdown or a listener error.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http transport", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http transport")
	return s.echo.Shutdown(ctx)
}
