// Package knox resolves Apache Knox gateway credentials into a ready-to-use
// session for NiFi API calls.
//
// Exactly one credential strategy is active per session, chosen by fixed
// precedence:
//
//  1. explicit Cookie header
//  2. Knox JWT sent as a hadoop-jwt cookie (CDP NiFi rejects Bearer headers)
//  3. passcode token, exchanged for a JWT at the knoxtoken endpoint
//  4. username/password, exchanged for a JWT with fallback to basic auth
//  5. anonymous
//
// A resolved Session is immutable and safe for concurrent use.
package knox

import (
	"fmt"
	"net/http"
)

// Strategy identifies which credential form a session uses.
type Strategy string

const (
	StrategyCookie    Strategy = "cookie"
	StrategyToken     Strategy = "token"
	StrategyPasscode  Strategy = "passcode"
	StrategyBasic     Strategy = "basic"
	StrategyAnonymous Strategy = "anonymous"
)

// Credentials holds the possible credential inputs from configuration.
type Credentials struct {
	GatewayURL    string
	Token         string
	Cookie        string
	PasscodeToken string
	User          string
	Password      string

	// TokenEndpoint is the knoxtoken exchange endpoint. Empty disables
	// token exchange; passcode then falls back to the X-Knox-Passcode
	// header and user/password to direct basic auth.
	TokenEndpoint string
}

// Session is a resolved credential, applied to each outbound request.
type Session struct {
	strategy Strategy

	header string
	value  string

	basicUser string
	basicPass string
}

// Strategy returns the credential strategy this session uses.
func (s *Session) Strategy() Strategy {
	if s == nil {
		return StrategyAnonymous
	}
	return s.strategy
}

// Apply injects the credential into an outbound request.
func (s *Session) Apply(req *http.Request) {
	if s == nil {
		return
	}
	if s.header != "" {
		req.Header.Set(s.header, s.value)
	}
	if s.basicUser != "" {
		req.SetBasicAuth(s.basicUser, s.basicPass)
	}
}

// AuthError reports credential resolution or token exchange failure.
type AuthError struct {
	Strategy Strategy
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("knox auth failed (strategy=%s): %v", e.Strategy, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
