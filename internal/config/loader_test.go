package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingAPIBase(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nifi.api_base is required")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NIFI_API_BASE", "https://knox.example.com/gateway/cdp-proxy-api/nifi-app/nifi-api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 10.0, cfg.HTTP.RateLimit)
	assert.Equal(t, 5, cfg.HTTP.RateBurst)
	assert.Equal(t, "stdio", cfg.MCP.Transport)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8971, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Nifi.ReadOnly(), "read-only must default to true")
	assert.True(t, cfg.Knox.Verify(), "TLS verification must default to true")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NIFI_API_BASE", "http://nifi.local:8080/nifi-api")
	t.Setenv("NIFI_READONLY", "false")
	t.Setenv("KNOX_GATEWAY_URL", "https://knox.example.com/gateway")
	t.Setenv("KNOX_PASSCODE_TOKEN", "WjJGMGMzTnZi")
	t.Setenv("KNOX_VERIFY_SSL", "false")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "60")
	t.Setenv("HTTP_MAX_RETRIES", "5")
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://nifi.local:8080/nifi-api", cfg.Nifi.APIBase)
	assert.False(t, cfg.Nifi.ReadOnly())
	assert.Equal(t, "https://knox.example.com/gateway", cfg.Knox.GatewayURL)
	assert.Equal(t, "WjJGMGMzTnZi", cfg.Knox.PasscodeToken)
	assert.False(t, cfg.Knox.Verify())
	assert.Equal(t, 60, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 5, cfg.HTTP.MaxRetries)
	assert.Equal(t, "http", cfg.MCP.Transport)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_DerivedTokenEndpoint(t *testing.T) {
	t.Setenv("NIFI_API_BASE", "https://knox.example.com/gateway/cdp-proxy-api/nifi-app/nifi-api")
	t.Setenv("KNOX_GATEWAY_URL", "https://knox.example.com/gateway/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://knox.example.com/gateway/knoxtoken/api/v1/token", cfg.Knox.TokenEndpoint)
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Setenv("NIFI_API_BASE", "http://nifi.local/nifi-api")
	t.Setenv("MCP_TRANSPORT", "websocket")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mcp.transport")
}

func TestLoad_InvalidAPIBase(t *testing.T) {
	t.Setenv("NIFI_API_BASE", "not-a-url")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http(s) URL")
}

func TestEnvKeyTransformer(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"NIFI_API_BASE", "nifi.api_base"},
		{"NIFI_READONLY", "nifi.readonly"},
		{"KNOX_PASSCODE_TOKEN", "knox.passcode_token"},
		{"KNOX_VERIFY_SSL", "knox.verify_ssl"},
		{"HTTP_TIMEOUT_SECONDS", "http.timeout_seconds"},
		{"MCP_TRANSPORT", "mcp.transport"},
		{"HOME", "home"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envKeyTransformer(tt.env), tt.env)
	}
}

func TestValidateConfigPath(t *testing.T) {
	err := validateConfigPath("/tmp/evil.yaml")
	require.Error(t, err)

	err = validateConfigPath("/etc/flowgate/config.yaml")
	assert.NoError(t, err)
}

func TestWarnings(t *testing.T) {
	t.Setenv("NIFI_API_BASE", "http://nifi.local/nifi-api")

	cfg, err := Load()
	require.NoError(t, err)

	warns := cfg.Warnings()
	require.NotEmpty(t, warns)
	assert.Contains(t, warns[0], "anonymous")
}
