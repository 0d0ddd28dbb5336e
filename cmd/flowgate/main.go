// Flowgate bridges Apache NiFi behind an Apache Knox gateway to MCP
// clients. It exposes the NiFi REST API as tools over stdio (default)
// or a streamable HTTP endpoint.
//
// Usage:
//
//	# Serve over stdio with environment configuration
//	NIFI_API_BASE=https://knox.example.com/gateway/cdp-proxy-api/nifi-app/nifi-api \
//	KNOX_TOKEN=eyJ... flowgate serve
//
//	# Validate configuration and probe NiFi
//	flowgate check
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flowgate",
	Short: "MCP gateway for Apache NiFi behind Apache Knox",
	Long: `flowgate exposes the Apache NiFi REST API as Model Context Protocol
tools, authenticating through an Apache Knox gateway. Configuration comes
from environment variables (NIFI_API_BASE, KNOX_TOKEN, ...) or a YAML file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation serves stdio, matching MCP client expectations.
		return runServe(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flowgate by Fyrsmith Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default ~/.config/flowgate/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}
