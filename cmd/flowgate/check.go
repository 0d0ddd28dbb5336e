package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/flowgate/internal/logging"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and probe NiFi",
	Long: `Load and validate the configuration, resolve Knox credentials and
probe the NiFi API. Exits non-zero when the gateway would not be able
to serve.

Examples:
  NIFI_API_BASE=https://knox.example.com/gateway/cdp-proxy-api/nifi-app/nifi-api flowgate check`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Printf("configuration: ok\n")
	for _, warn := range cfg.Warnings() {
		fmt.Printf("warning: %s\n", warn)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	_, client, err := buildGateway(ctx, cfg, logger)
	if err != nil {
		return err
	}

	about, err := client.VersionInfo(ctx)
	if err != nil {
		return fmt.Errorf("NiFi unreachable: %w", err)
	}
	fmt.Printf("nifi: reachable (%s)\n", client.EngineVersion(ctx))
	if inner, ok := about["about"].(map[string]any); ok {
		if title, ok := inner["title"].(string); ok {
			fmt.Printf("title: %s\n", title)
		}
	}
	fmt.Printf("auth strategy: %s\n", client.Session().Strategy())
	fmt.Printf("read-only: %t\n", cfg.Nifi.ReadOnly())
	return nil
}
