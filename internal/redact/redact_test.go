package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/flowgate/internal/secrets"
)

func TestRedact_SensitiveKeys(t *testing.T) {
	r := New()

	in := map[string]any{
		"name":     "my-processor",
		"password": "hunter2",
		"Token":    "eyJhbGciOi...",
		"SECRET":   "s3cret",
		"properties": map[string]any{
			"Database User":     "nifi",
			"Database Password": "hunter2",
			"kerberosKeytab":    "/etc/security/nifi.keytab",
			"sslKeystorePasswd": "changeit",
		},
	}

	out, ok := r.Redact(in).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "my-processor", out["name"])
	assert.Equal(t, Marker, out["password"])
	assert.Equal(t, Marker, out["Token"])
	assert.Equal(t, Marker, out["SECRET"])

	props := out["properties"].(map[string]any)
	assert.Equal(t, "nifi", props["Database User"])
	assert.Equal(t, Marker, props["Database Password"])
	assert.Equal(t, Marker, props["kerberosKeytab"])
	assert.Equal(t, Marker, props["sslKeystorePasswd"])
}

func TestRedact_SuffixForms(t *testing.T) {
	r := New()

	in := map[string]any{
		"accessToken":  "abc",
		"clientSecret": "def",
		"proxyPassword": "ghi",
		"tokenCount":   float64(3),
	}

	out := r.Redact(in).(map[string]any)
	assert.Equal(t, Marker, out["accessToken"])
	assert.Equal(t, Marker, out["clientSecret"])
	assert.Equal(t, Marker, out["proxyPassword"])
	assert.Equal(t, float64(3), out["tokenCount"], "suffix matching applies to names ending in the keyword only")
}

func TestRedact_DeepNesting(t *testing.T) {
	r := New()

	in := map[string]any{
		"processGroupFlow": map[string]any{
			"flow": map[string]any{
				"processors": []any{
					map[string]any{
						"component": map[string]any{
							"config": map[string]any{
								"properties": map[string]any{"Passcode": "deep-secret"},
							},
						},
					},
				},
			},
		},
	}

	out := r.Redact(in).(map[string]any)
	props := out["processGroupFlow"].(map[string]any)["flow"].(map[string]any)["processors"].([]any)[0].(map[string]any)["component"].(map[string]any)["config"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, Marker, props["Passcode"])
}

func TestRedact_DoesNotMutateInput(t *testing.T) {
	r := New()

	in := map[string]any{"password": "hunter2"}
	_ = r.Redact(in)
	assert.Equal(t, "hunter2", in["password"])
}

func TestRedact_ListTruncation(t *testing.T) {
	r := New(WithMaxItems(5))

	items := make([]any, 12)
	for i := range items {
		items[i] = map[string]any{"id": i}
	}

	out := r.Redact(items).([]any)
	require.Len(t, out, 6)

	marker := out[5].(map[string]any)
	assert.Equal(t, true, marker["truncated"])
	assert.Equal(t, 7, marker["omitted_count"])
}

func TestRedact_ShortListsUntouched(t *testing.T) {
	r := New(WithMaxItems(5))

	out := r.Redact([]any{"a", "b"}).([]any)
	assert.Equal(t, []any{"a", "b"}, out)
}

func TestRedact_ScrubsStringValues(t *testing.T) {
	scrubber, err := secrets.New(secrets.DefaultConfig())
	require.NoError(t, err)

	r := New(WithScrubber(scrubber))

	in := map[string]any{
		"comments": "connect with password=sup3rSecretValue when testing",
	}
	out := r.Redact(in).(map[string]any)
	assert.NotContains(t, out["comments"], "sup3rSecretValue")
}
