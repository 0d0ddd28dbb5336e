package nifi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures one request the fake NiFi saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// fakeNiFi routes paths to canned JSON responses and records every request.
type fakeNiFi struct {
	t         *testing.T
	responses map[string]string
	requests  []recordedRequest
}

func newFakeNiFi(t *testing.T, responses map[string]string) (*fakeNiFi, *Client) {
	f := &fakeNiFi{t: t, responses: responses}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	return f, testClient(t, ts.URL, 1)
}

func (f *fakeNiFi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	f.requests = append(f.requests, rec)

	key := r.Method + " " + r.URL.Path
	body, ok := f.responses[key]
	if !ok {
		body = "{}"
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestStopProcessor_RunStatusEnvelope(t *testing.T) {
	f, c := newFakeNiFi(t, nil)

	_, err := c.StopProcessor(context.Background(), "proc-1", 4)
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/processors/proc-1/run-status", req.Path)
	assert.Equal(t, "STOPPED", req.Body["state"])
	assert.Equal(t, false, req.Body["disconnectedNodeAcknowledged"])

	rev := req.Body["revision"].(map[string]any)
	assert.Equal(t, float64(4), rev["version"])
	assert.NotEmpty(t, rev["clientId"])
}

func TestTerminateProcessor_StopsThenTerminates(t *testing.T) {
	f, c := newFakeNiFi(t, nil)

	_, err := c.TerminateProcessor(context.Background(), "proc-1", 2)
	require.NoError(t, err)

	require.Len(t, f.requests, 2)
	assert.Equal(t, "/processors/proc-1/run-status", f.requests[0].Path)
	assert.Equal(t, "STOPPED", f.requests[0].Body["state"])
	assert.Equal(t, http.MethodDelete, f.requests[1].Method)
	assert.Equal(t, "/processors/proc-1/threads", f.requests[1].Path)
}

func TestCreateProcessor_DefaultsNameFromType(t *testing.T) {
	f, c := newFakeNiFi(t, nil)

	_, err := c.CreateProcessor(context.Background(), "pg-1",
		"org.apache.nifi.processors.standard.GenerateFlowFile", "", Position{X: 100, Y: 200})
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, "/process-groups/pg-1/processors", req.Path)

	component := req.Body["component"].(map[string]any)
	assert.Equal(t, "org.apache.nifi.processors.standard.GenerateFlowFile", component["type"])
	assert.Equal(t, "GenerateFlowFile", component["name"])

	pos := component["position"].(map[string]any)
	assert.Equal(t, float64(100), pos["x"])
	assert.Equal(t, float64(200), pos["y"])

	rev := req.Body["revision"].(map[string]any)
	assert.Equal(t, float64(0), rev["version"], "new components start at revision 0")
}

func TestCreateProcessor_KeepsExplicitName(t *testing.T) {
	f, c := newFakeNiFi(t, nil)

	_, err := c.CreateProcessor(context.Background(), "pg-1",
		"org.apache.nifi.processors.standard.GenerateFlowFile", "my generator", Position{})
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	component := f.requests[0].Body["component"].(map[string]any)
	assert.Equal(t, "my generator", component["name"])
}

func TestEmptyConnectionQueue_PostsDropRequest(t *testing.T) {
	f, c := newFakeNiFi(t, nil)

	_, err := c.EmptyConnectionQueue(context.Background(), "conn-1")
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	assert.Equal(t, http.MethodPost, f.requests[0].Method)
	assert.Equal(t, "/flowfile-queues/conn-1/drop-requests", f.requests[0].Path)
}

func TestGetControllerServices_Scoping(t *testing.T) {
	f, c := newFakeNiFi(t, nil)
	ctx := context.Background()

	_, err := c.GetControllerServices(ctx, "pg-1")
	require.NoError(t, err)
	_, err = c.GetControllerServices(ctx, "")
	require.NoError(t, err)

	require.Len(t, f.requests, 2)
	assert.Equal(t, "/flow/process-groups/pg-1/controller-services", f.requests[0].Path)
	assert.Equal(t, "/flow/controller/controller-services", f.requests[1].Path)
}

func TestFindControllerServicesByType(t *testing.T) {
	listing := `{"controllerServices":[
		{"component":{"id":"s1","type":"org.apache.nifi.dbcp.DBCPConnectionPool"}},
		{"component":{"id":"s2","type":"org.apache.nifi.ssl.StandardSSLContextService"}},
		{"component":{"id":"s3","type":"org.apache.nifi.dbcp.DBCPConnectionPool"}}
	]}`
	_, c := newFakeNiFi(t, map[string]string{
		"GET /flow/process-groups/pg-1/controller-services": listing,
	})

	matches, err := c.FindControllerServicesByType(context.Background(), "pg-1", "org.apache.nifi.dbcp.DBCPConnectionPool")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "s1", entStr(matches[0], "component", "id"))
	assert.Equal(t, "s3", entStr(matches[1], "component", "id"))
}

func TestGetConnectionQueueSize_NormalizesAggregateSnapshot(t *testing.T) {
	_, c := newFakeNiFi(t, map[string]string{
		"GET /connections/conn-1": `{"status":{"aggregateSnapshot":{"flowFilesQueued":42,"bytesQueued":1024}}}`,
	})

	size, err := c.GetConnectionQueueSize(context.Background(), "conn-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), size.FlowFilesQueued)
	assert.Equal(t, int64(1024), size.BytesQueued)
}

func TestGetBulletins_AfterQuery(t *testing.T) {
	f, c := newFakeNiFi(t, nil)

	_, err := c.GetBulletins(context.Background(), 1500)
	require.NoError(t, err)
	assert.Equal(t, "after=1500", f.requests[0].Query)

	_, err = c.GetBulletins(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, f.requests[1].Query)
}

func TestCreateParameterContext_WrapsParameters(t *testing.T) {
	f, c := newFakeNiFi(t, nil)

	_, err := c.CreateParameterContext(context.Background(), "env", "environment values", []Parameter{
		{Name: "db.host", Value: "db.example.com"},
		{Name: "db.password", Value: "hunter2", Sensitive: true},
	})
	require.NoError(t, err)

	req := f.requests[0]
	assert.Equal(t, "/parameter-contexts", req.Path)

	component := req.Body["component"].(map[string]any)
	assert.Equal(t, "env", component["name"])

	params := component["parameters"].([]any)
	require.Len(t, params, 2)
	first := params[0].(map[string]any)["parameter"].(map[string]any)
	assert.Equal(t, "db.host", first["name"])
	second := params[1].(map[string]any)["parameter"].(map[string]any)
	assert.Equal(t, true, second["sensitive"])
}

func TestProcessGroupSummary(t *testing.T) {
	_, c := newFakeNiFi(t, map[string]string{
		"GET /process-groups/pg-1/processors": `{"processors":[
			{"component":{"state":"RUNNING"}},
			{"component":{"state":"RUNNING"}},
			{"component":{"state":"STOPPED"}}
		]}`,
		"GET /process-groups/pg-1/connections": `{"connections":[
			{"status":{"aggregateSnapshot":{"flowFilesQueued":10,"bytesQueued":2048}}},
			{"status":{"flowFilesQueued":5,"bytesQueued":512}}
		]}`,
	})

	summary, err := c.ProcessGroupSummary(context.Background(), "pg-1")
	require.NoError(t, err)

	counts := summary["processorStateCounts"].(map[string]int)
	assert.Equal(t, 2, counts["RUNNING"])
	assert.Equal(t, 1, counts["STOPPED"])
	assert.Equal(t, 2, summary["connectionCount"])
	assert.Equal(t, int64(15), summary["totalFlowFilesQueued"])
	assert.Equal(t, int64(2560), summary["totalBytesQueued"])
}

func TestFlowHealthStatus_Assessment(t *testing.T) {
	_, c := newFakeNiFi(t, map[string]string{
		"GET /process-groups/pg-1/processors": `{"processors":[
			{"component":{"name":"bad","state":"STOPPED","validationErrors":["missing property"]}},
			{"component":{"name":"ok","state":"RUNNING"}}
		]}`,
		"GET /flow/process-groups/pg-1/controller-services": `{"controllerServices":[]}`,
		"GET /process-groups/pg-1/connections":              `{"connections":[]}`,
		"GET /flow/bulletin-board":                          `{"bulletinBoard":{"bulletins":[]}}`,
	})

	health, err := c.FlowHealthStatus(context.Background(), "pg-1")
	require.NoError(t, err)

	assert.Equal(t, HealthUnhealthy, health["assessment"])
	assert.Equal(t, []string{"bad"}, health["invalidProcessors"])
	procs := health["processors"].(map[string]int)
	assert.Equal(t, 1, procs["invalid"])
	assert.Equal(t, 1, procs["running"])
}

func TestBulkProcessorRunStatus(t *testing.T) {
	f, c := newFakeNiFi(t, map[string]string{
		"GET /process-groups/pg-1/processors": `{"processors":[
			{"component":{"id":"p1","name":"already","state":"RUNNING"},"revision":{"version":1}},
			{"component":{"id":"p2","name":"stopped","state":"STOPPED"},"revision":{"version":3}}
		]}`,
	})

	result, err := c.StartAllProcessorsInGroup(context.Background(), "pg-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Changed)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, 0, result.Failed)

	// One listing plus one run-status call for the stopped processor.
	require.Len(t, f.requests, 2)
	assert.Equal(t, "/processors/p2/run-status", f.requests[1].Path)
	assert.Equal(t, "RUNNING", f.requests[1].Body["state"])
}
