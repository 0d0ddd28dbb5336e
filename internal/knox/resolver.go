package knox

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// exchangeTimeout bounds the one-shot token exchange call. Independent of the
// NiFi request timeout, which may be much longer.
const exchangeTimeout = 15 * time.Second

// requestedByHeader satisfies Knox CSRF protection on the token endpoint.
const requestedByHeader = "flowgate"

// Resolver picks one credential strategy and produces a Session, performing a
// token-exchange round trip when required.
type Resolver struct {
	creds  Credentials
	client *http.Client
	logger *zap.Logger
}

// NewResolver creates a resolver. tlsCfg applies to exchange calls and may be
// nil for defaults.
func NewResolver(creds Credentials, tlsCfg *tls.Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg
	return &Resolver{
		creds: creds,
		client: &http.Client{
			Timeout:   exchangeTimeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Resolve selects the first available strategy and returns a ready Session.
func (r *Resolver) Resolve(ctx context.Context) (*Session, error) {
	c := r.creds

	if c.Cookie != "" {
		r.logger.Info("using explicit cookie credential")
		return &Session{strategy: StrategyCookie, header: "Cookie", value: c.Cookie}, nil
	}

	if c.Token != "" {
		// CDP NiFi accepts Knox JWTs only as the hadoop-jwt cookie.
		r.logger.Info("using Knox token credential as hadoop-jwt cookie")
		return &Session{
			strategy: StrategyToken,
			header:   "Cookie",
			value:    "hadoop-jwt=" + c.Token,
		}, nil
	}

	if c.PasscodeToken != "" {
		if c.TokenEndpoint != "" {
			jwt, err := r.exchangePasscode(ctx)
			if err != nil {
				return nil, &AuthError{Strategy: StrategyPasscode, Err: err}
			}
			r.logger.Info("exchanged passcode token for JWT")
			return &Session{
				strategy: StrategyPasscode,
				header:   "Authorization",
				value:    "Bearer " + jwt,
			}, nil
		}
		// No endpoint to exchange against; some deployments accept the
		// passcode directly.
		r.logger.Warn("no token endpoint configured, sending passcode header directly")
		return &Session{
			strategy: StrategyPasscode,
			header:   "X-Knox-Passcode",
			value:    c.PasscodeToken,
		}, nil
	}

	if c.User != "" && c.Password != "" {
		if c.TokenEndpoint != "" {
			jwt, err := r.exchangeBasic(ctx)
			if err == nil {
				r.logger.Info("exchanged basic credentials for JWT", zap.String("user", c.User))
				return &Session{
					strategy: StrategyBasic,
					header:   "Authorization",
					value:    "Bearer " + jwt,
				}, nil
			}
			r.logger.Warn("token exchange failed, falling back to direct basic auth",
				zap.String("user", c.User), zap.Error(err))
		}
		return &Session{strategy: StrategyBasic, basicUser: c.User, basicPass: c.Password}, nil
	}

	r.logger.Warn("no Knox credentials configured, proceeding anonymously")
	return &Session{strategy: StrategyAnonymous}, nil
}

// exchangePasscode trades a Knox passcode token for a JWT. Knox expects the
// passcode as basic auth with the literal username "passcode".
func (r *Resolver) exchangePasscode(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.creds.TokenEndpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create exchange request: %w", err)
	}
	req.SetBasicAuth("passcode", r.creds.PasscodeToken)
	req.Header.Set("X-Requested-By", requestedByHeader)

	return r.doExchange(req)
}

// exchangeBasic trades username/password for a JWT.
func (r *Resolver) exchangeBasic(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.creds.TokenEndpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create exchange request: %w", err)
	}
	req.SetBasicAuth(r.creds.User, r.creds.Password)
	req.Header.Set("X-Requested-By", requestedByHeader)

	return r.doExchange(req)
}

func (r *Resolver) doExchange(req *http.Request) (string, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	jwt, err := parseTokenResponse(body)
	if err != nil {
		return "", err
	}
	return jwt, nil
}

// parseTokenResponse extracts a JWT from a knoxtoken endpoint response.
// Knox deployments answer with one of:
//   - JSON carrying access_token, token, or accessToken
//   - the raw JWT as text
//   - a base64-wrapped JWT
func parseTokenResponse(body []byte) (string, error) {
	var payload struct {
		AccessToken  string `json:"access_token"`
		Token        string `json:"token"`
		AccessToken2 string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, tok := range []string{payload.AccessToken, payload.Token, payload.AccessToken2} {
			if tok != "" {
				return tok, nil
			}
		}
		return "", fmt.Errorf("token response JSON has no token field")
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("empty token response")
	}

	// A JWT has exactly two dots. Some environments base64-wrap the token.
	if decoded, err := base64.StdEncoding.DecodeString(text); err == nil {
		if s := strings.TrimSpace(string(decoded)); strings.Count(s, ".") == 2 {
			return s, nil
		}
	}
	return text, nil
}
