package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration for flowgate.
type Config struct {
	Nifi      NifiConfig      `koanf:"nifi"`
	Knox      KnoxConfig      `koanf:"knox"`
	HTTP      HTTPConfig      `koanf:"http"`
	MCP       MCPConfig       `koanf:"mcp"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// NifiConfig configures the target NiFi API.
type NifiConfig struct {
	// APIBase is the NiFi REST API base URL, e.g.
	// https://knox.example.com/gateway/cdp-proxy-api/nifi-app/nifi-api
	APIBase string `koanf:"api_base"`

	// ProxyContextPath is sent as X-ProxyContextPath on every request.
	// Required by some CDP proxy deployments.
	ProxyContextPath string `koanf:"proxy_context_path"`

	// Readonly gates write tools. Defaults to true; set NIFI_READONLY=false
	// to unlock mutations.
	Readonly *bool `koanf:"readonly"`
}

// ReadOnly reports whether write tools are gated. Unset means read-only.
func (c *NifiConfig) ReadOnly() bool {
	return c.Readonly == nil || *c.Readonly
}

// KnoxConfig holds gateway credentials. At most one strategy is used per
// session; see internal/knox for the precedence order.
type KnoxConfig struct {
	GatewayURL    string `koanf:"gateway_url"`
	Token         string `koanf:"token"`
	Cookie        string `koanf:"cookie"`
	PasscodeToken string `koanf:"passcode_token"`
	User          string `koanf:"user"`
	Password      string `koanf:"password"`

	// TokenEndpoint overrides the default <gateway>/knoxtoken/api/v1/token.
	TokenEndpoint string `koanf:"token_endpoint"`

	// VerifySSL toggles TLS certificate verification. Defaults to true.
	VerifySSL *bool `koanf:"verify_ssl"`

	// CABundle is a path to a PEM bundle trusted in addition to (or instead
	// of) the system pool.
	CABundle string `koanf:"ca_bundle"`
}

// Verify reports whether TLS verification is enabled. Unset means verify.
func (c *KnoxConfig) Verify() bool {
	return c.VerifySSL == nil || *c.VerifySSL
}

// HasCredentials reports whether any credential form was supplied.
func (c *KnoxConfig) HasCredentials() bool {
	return c.Cookie != "" || c.Token != "" || c.PasscodeToken != "" ||
		(c.User != "" && c.Password != "")
}

// HTTPConfig controls the outbound NiFi client.
type HTTPConfig struct {
	TimeoutSeconds int     `koanf:"timeout_seconds"`
	MaxRetries     int     `koanf:"max_retries"`
	RateLimit      float64 `koanf:"rate_limit"`
	RateBurst      int     `koanf:"rate_burst"`
}

// Timeout returns the request timeout as a duration.
func (c *HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MCPConfig selects the MCP transport.
type MCPConfig struct {
	// Transport is "stdio" (default) or "http".
	Transport string `koanf:"transport"`
}

// ServerConfig binds the HTTP transport (only used when mcp.transport=http).
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig controls OTLP export.
type TelemetryConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Endpoint string `koanf:"endpoint"`
	Protocol string `koanf:"protocol"`
	Insecure bool   `koanf:"insecure"`
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	if c.Nifi.APIBase == "" {
		return fmt.Errorf("nifi.api_base is required (set NIFI_API_BASE)")
	}
	u, err := url.Parse(c.Nifi.APIBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("nifi.api_base must be an http(s) URL, got %q", c.Nifi.APIBase)
	}

	if c.Knox.GatewayURL != "" {
		if _, err := url.Parse(c.Knox.GatewayURL); err != nil {
			return fmt.Errorf("knox.gateway_url is not a valid URL: %w", err)
		}
	}

	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative, got %d", c.HTTP.MaxRetries)
	}

	switch strings.ToLower(c.MCP.Transport) {
	case "stdio", "http":
	default:
		return fmt.Errorf("mcp.transport must be stdio or http, got %q", c.MCP.Transport)
	}

	if c.MCP.Transport == "http" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
		}
	}

	if c.Telemetry.Enabled {
		switch strings.ToLower(c.Telemetry.Protocol) {
		case "grpc", "http":
		default:
			return fmt.Errorf("telemetry.protocol must be grpc or http, got %q", c.Telemetry.Protocol)
		}
	}

	return nil
}

// Warnings returns non-fatal configuration concerns, suitable for startup
// logs and the check_configuration tool.
func (c *Config) Warnings() []string {
	var warns []string
	if !c.Knox.HasCredentials() {
		warns = append(warns, "no Knox credentials configured; requests will be anonymous")
	}
	if !c.Knox.Verify() {
		warns = append(warns, "TLS verification disabled (KNOX_VERIFY_SSL=false)")
	}
	if c.Knox.Password != "" && c.Knox.User == "" {
		warns = append(warns, "knox.password set without knox.user; basic credentials ignored")
	}
	if !c.Nifi.ReadOnly() {
		warns = append(warns, "write tools unlocked (NIFI_READONLY=false)")
	}
	return warns
}
