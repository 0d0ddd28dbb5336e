package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/flowgate/internal/config"
	"github.com/fyrsmithlabs/flowgate/internal/httpapi"
	"github.com/fyrsmithlabs/flowgate/internal/knox"
	"github.com/fyrsmithlabs/flowgate/internal/logging"
	gateway "github.com/fyrsmithlabs/flowgate/internal/mcp"
	"github.com/fyrsmithlabs/flowgate/internal/nifi"
	"github.com/fyrsmithlabs/flowgate/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP tools over stdio or HTTP",
	Long: `Serve the NiFi tool surface. The stdio transport (default) speaks MCP
on stdin/stdout for clients that spawn the gateway as a subprocess. The
http transport mounts a streamable MCP endpoint plus health and metrics.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, warn := range cfg.Warnings() {
		logger.Warn(warn)
	}

	provider, err := telemetry.New(ctx, cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	server, client, err := buildGateway(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.MCP.Transport == "http" {
		return serveHTTP(ctx, cfg, server, client, logger)
	}

	logger.Info("serving MCP over stdio",
		zap.String("nifi_api_base", cfg.Nifi.APIBase),
		zap.Bool("readonly", cfg.Nifi.ReadOnly()))
	return server.Run(ctx)
}

// buildGateway resolves Knox credentials, builds the NiFi client and
// registers the tool server.
func buildGateway(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gateway.Server, *nifi.Client, error) {
	tlsCfg, err := knox.NewTLSConfig(cfg.Knox.Verify(), cfg.Knox.CABundle)
	if err != nil {
		return nil, nil, fmt.Errorf("build TLS config: %w", err)
	}

	resolver := knox.NewResolver(knox.Credentials{
		GatewayURL:    cfg.Knox.GatewayURL,
		Token:         cfg.Knox.Token,
		Cookie:        cfg.Knox.Cookie,
		PasscodeToken: cfg.Knox.PasscodeToken,
		User:          cfg.Knox.User,
		Password:      cfg.Knox.Password,
		TokenEndpoint: cfg.Knox.TokenEndpoint,
	}, tlsCfg, logger)

	session, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve Knox credentials: %w", err)
	}
	logger.Info("credentials resolved", zap.String("strategy", string(session.Strategy())))

	client, err := nifi.NewClient(nifi.Config{
		BaseURL:          cfg.Nifi.APIBase,
		ProxyContextPath: cfg.Nifi.ProxyContextPath,
		Timeout:          cfg.HTTP.Timeout(),
		MaxRetries:       cfg.HTTP.MaxRetries,
		RateLimit:        cfg.HTTP.RateLimit,
		RateBurst:        cfg.HTTP.RateBurst,
	}, session, tlsCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build NiFi client: %w", err)
	}

	server, err := gateway.NewServer(gateway.Config{
		Name:     "flowgate",
		Version:  version,
		NiFi:     client,
		Logger:   logger,
		ReadOnly: cfg.Nifi.ReadOnly(),
		App:      cfg,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build tool server: %w", err)
	}
	return server, client, nil
}

func serveHTTP(ctx context.Context, cfg *config.Config, server *gateway.Server, client *nifi.Client, logger *zap.Logger) error {
	api, err := httpapi.NewServer(server.MCP(), client, logger, httpapi.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("build http transport: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := api.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http transport: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return api.Shutdown(shutdownCtx)
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadWithFile(configFile)
	}
	return config.Load()
}
