package knox

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_CookieWinsOverEverything(t *testing.T) {
	r := NewResolver(Credentials{
		Cookie:        "hadoop-jwt=explicit",
		Token:         "some-jwt",
		PasscodeToken: "some-passcode",
		User:          "alice",
		Password:      "secret",
	}, nil, nil)

	sess, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StrategyCookie, sess.Strategy())

	req := httptest.NewRequest(http.MethodGet, "http://nifi.local/nifi-api/flow/about", nil)
	sess.Apply(req)
	assert.Equal(t, "hadoop-jwt=explicit", req.Header.Get("Cookie"))
}

func TestResolve_TokenBecomesHadoopJWTCookie(t *testing.T) {
	r := NewResolver(Credentials{Token: "eyJhbGciOiJSUzI1NiJ9.payload.sig"}, nil, nil)

	sess, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StrategyToken, sess.Strategy())

	req := httptest.NewRequest(http.MethodGet, "http://nifi.local/nifi-api/flow/about", nil)
	sess.Apply(req)
	assert.Equal(t, "hadoop-jwt=eyJhbGciOiJSUzI1NiJ9.payload.sig", req.Header.Get("Cookie"))
	assert.Empty(t, req.Header.Get("Authorization"), "Knox JWTs must not be sent as Bearer tokens")
}

func TestResolve_PasscodeExchange(t *testing.T) {
	var gotUser, gotPass, gotRequestedBy string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotRequestedBy = r.Header.Get("X-Requested-By")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"jwt-from-exchange"}`))
	}))
	defer ts.Close()

	r := NewResolver(Credentials{
		PasscodeToken: "my-passcode",
		TokenEndpoint: ts.URL,
	}, nil, nil)

	sess, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StrategyPasscode, sess.Strategy())
	assert.Equal(t, "passcode", gotUser)
	assert.Equal(t, "my-passcode", gotPass)
	assert.NotEmpty(t, gotRequestedBy)

	req := httptest.NewRequest(http.MethodGet, "http://nifi.local/nifi-api/flow/about", nil)
	sess.Apply(req)
	assert.Equal(t, "Bearer jwt-from-exchange", req.Header.Get("Authorization"))
}

func TestResolve_PasscodeExchangeFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad passcode", http.StatusUnauthorized)
	}))
	defer ts.Close()

	r := NewResolver(Credentials{
		PasscodeToken: "wrong",
		TokenEndpoint: ts.URL,
	}, nil, nil)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, StrategyPasscode, authErr.Strategy)
}

func TestResolve_PasscodeWithoutEndpointUsesHeader(t *testing.T) {
	r := NewResolver(Credentials{PasscodeToken: "direct-passcode"}, nil, nil)

	sess, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StrategyPasscode, sess.Strategy())

	req := httptest.NewRequest(http.MethodGet, "http://nifi.local/nifi-api/flow/about", nil)
	sess.Apply(req)
	assert.Equal(t, "direct-passcode", req.Header.Get("X-Knox-Passcode"))
}

func TestResolve_BasicExchangeFallsBackToDirectAuth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "exchange disabled", http.StatusNotFound)
	}))
	defer ts.Close()

	r := NewResolver(Credentials{
		User:          "alice",
		Password:      "secret",
		TokenEndpoint: ts.URL,
	}, nil, nil)

	sess, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StrategyBasic, sess.Strategy())

	req := httptest.NewRequest(http.MethodGet, "http://nifi.local/nifi-api/flow/about", nil)
	sess.Apply(req)
	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "secret", pass)
}

func TestResolve_Anonymous(t *testing.T) {
	r := NewResolver(Credentials{}, nil, nil)

	sess, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StrategyAnonymous, sess.Strategy())

	req := httptest.NewRequest(http.MethodGet, "http://nifi.local/nifi-api/flow/about", nil)
	sess.Apply(req)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("Cookie"))
}

func TestParseTokenResponse(t *testing.T) {
	jwt := "eyJhbGciOiJSUzI1NiJ9.eyJzdWIiOiJhbGljZSJ9.c2ln"

	tests := []struct {
		name string
		body string
		want string
	}{
		{"json access_token", `{"access_token":"` + jwt + `"}`, jwt},
		{"json token", `{"token":"` + jwt + `"}`, jwt},
		{"json accessToken", `{"accessToken":"` + jwt + `"}`, jwt},
		{"raw jwt", jwt, jwt},
		{"raw jwt with whitespace", "  " + jwt + "\n", jwt},
		{"base64 wrapped", base64.StdEncoding.EncodeToString([]byte(jwt)), jwt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTokenResponse([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTokenResponse_Errors(t *testing.T) {
	_, err := parseTokenResponse([]byte(""))
	assert.Error(t, err)

	_, err = parseTokenResponse([]byte(`{"unrelated":"field"}`))
	assert.Error(t, err)
}
