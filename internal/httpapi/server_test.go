package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	client, err := nifi.NewClient(nifi.Config{
		BaseURL:    upstream.URL + "/nifi-api",
		MaxRetries: 1,
		RateLimit:  1000,
		RateBurst:  1000,
	}, nil, nil, zap.NewNop())
	require.NoError(t, err)

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: "flowgate", Version: "test"}, nil)
	s, err := NewServer(mcpServer, client, zap.NewNop(), Config{})
	require.NoError(t, err)
	return s
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(nil, nil, nil, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mcp server")
}

func TestHealthzOK(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"about":{"version":"2.0.0","title":"NiFi"}}`))
	})

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "2.0.0", body.NiFiVersion)
	assert.Empty(t, body.Error)
}

func TestHealthzDegraded(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.NotEmpty(t, body.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
