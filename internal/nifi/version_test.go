package nifi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionString(t *testing.T) {
	tests := []struct {
		raw   string
		want  [3]int
		valid bool
	}{
		{"1.23.2", [3]int{1, 23, 2}, true},
		{"2.0.0", [3]int{2, 0, 0}, true},
		{"2.0.0-M4", [3]int{2, 0, 0}, true},
		{"2.2.0.4.10.0-147", [3]int{2, 2, 0}, true},
		{"1.18", [3]int{1, 18, 0}, true},
		{"garbage", [3]int{}, false},
		{"", [3]int{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseVersionString(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEngineVersion_ProbeOnce(t *testing.T) {
	var probes atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		_, _ = w.Write([]byte(`{"about":{"version":"2.0.0-M4"}}`))
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 1)
	ctx := context.Background()

	assert.Equal(t, V2, c.EngineVersion(ctx))
	assert.True(t, c.IsNiFi2(ctx))
	assert.Equal(t, [3]int{2, 0, 0}, c.VersionTuple(ctx))
	assert.Equal(t, V2, c.EngineVersion(ctx))
	assert.Equal(t, int32(1), probes.Load(), "version probe must run once")
}

func TestEngineVersion_MajorBoundary(t *testing.T) {
	tests := []struct {
		version string
		want    Version
	}{
		{"1.28.1", V1},
		{"2.0.0", V2},
		{"3.1.0", V2},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"about":{"version":"` + tt.version + `"}}`))
			}))
			defer ts.Close()

			c := testClient(t, ts.URL, 1)
			assert.Equal(t, tt.want, c.EngineVersion(context.Background()))
		})
	}
}

func TestEngineVersion_ProbeFailureAssumesV1(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 1)
	ctx := context.Background()

	assert.Equal(t, VersionUnknown, c.EngineVersion(ctx))
	assert.False(t, c.IsNiFi2(ctx))
	assert.Equal(t, [3]int{1, 0, 0}, c.VersionTuple(ctx))
	assert.Nil(t, c.parameterContextQuery(ctx), "unknown engines must use 1.x query shape")
}

func TestParameterContextQuery_V2(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"about":{"version":"2.2.0"}}`))
	}))
	defer ts.Close()

	c := testClient(t, ts.URL, 1)
	q := c.parameterContextQuery(context.Background())
	require.NotNil(t, q)
	assert.Equal(t, "true", q.Get("includeInheritedParameters"))
}

func TestNormalizeSnapshot(t *testing.T) {
	status := map[string]any{
		"id": "abc",
		"aggregateSnapshot": map[string]any{
			"flowFilesQueued": float64(12),
			"bytesQueued":     float64(4096),
			"id":              "nested-id-loses",
		},
	}

	flat := normalizeSnapshot(status)
	assert.Equal(t, "abc", flat["id"], "outer fields win over snapshot fields")
	assert.Equal(t, float64(12), flat["flowFilesQueued"])
	assert.Equal(t, float64(4096), flat["bytesQueued"])
	assert.NotContains(t, flat, "aggregateSnapshot")

	// 1.x statuses pass through untouched.
	v1 := map[string]any{"flowFilesQueued": float64(3)}
	assert.Equal(t, v1, normalizeSnapshot(v1))
	assert.Nil(t, normalizeSnapshot(nil))
}
