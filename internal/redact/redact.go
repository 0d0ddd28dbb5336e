// Package redact strips sensitive fields from NiFi responses before they are
// returned to the calling model.
//
// Redaction is structural: any field whose name matches the sensitive set is
// replaced with a marker, recursively, at every nesting depth. Large lists
// are truncated so flow listings don't blow out the model's context. String
// values are additionally run through the secrets scrubber to catch secret
// material hiding in free text.
package redact

import (
	"strings"

	"github.com/fyrsmithlabs/flowgate/internal/secrets"
)

// Marker replaces redacted values.
const Marker = "***REDACTED***"

// DefaultMaxItems bounds list lengths in responses.
const DefaultMaxItems = 200

// defaultSensitiveKeys are matched exactly (case-insensitive). These are the
// field names NiFi and Knox entities use for credential material.
var defaultSensitiveKeys = map[string]struct{}{
	"password":          {},
	"passcode":          {},
	"token":             {},
	"secret":            {},
	"kerberoskeytab":    {},
	"sslkeystorepasswd": {},
}

// sensitiveSuffixes catch compound names like accessToken, proxyPassword,
// clientSecret.
var sensitiveSuffixes = []string{"password", "passcode", "secret", "token"}

// Redactor walks response structures and removes sensitive values.
type Redactor struct {
	maxItems int
	scrubber secrets.Scrubber
}

// Option configures a Redactor.
type Option func(*Redactor)

// WithMaxItems overrides the list truncation threshold.
func WithMaxItems(n int) Option {
	return func(r *Redactor) {
		if n > 0 {
			r.maxItems = n
		}
	}
}

// WithScrubber enables value-level scrubbing of string fields.
func WithScrubber(s secrets.Scrubber) Option {
	return func(r *Redactor) { r.scrubber = s }
}

// New creates a Redactor.
func New(opts ...Option) *Redactor {
	r := &Redactor{maxItems: DefaultMaxItems}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Redact returns a copy of v with sensitive fields replaced. The input is
// never mutated. Non-container values pass through unchanged (after value
// scrubbing for strings).
func (r *Redactor) Redact(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if isSensitiveKey(k) {
				out[k] = Marker
				continue
			}
			out[k] = r.Redact(inner)
		}
		return out

	case []any:
		if len(val) > r.maxItems {
			truncated := make([]any, 0, r.maxItems+1)
			for _, item := range val[:r.maxItems] {
				truncated = append(truncated, r.Redact(item))
			}
			return append(truncated, map[string]any{
				"truncated":     true,
				"omitted_count": len(val) - r.maxItems,
			})
		}
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, r.Redact(item))
		}
		return out

	case string:
		if r.scrubber != nil && r.scrubber.IsEnabled() {
			return r.scrubber.Scrub(val)
		}
		return val

	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if _, ok := defaultSensitiveKeys[lower]; ok {
		return true
	}
	for _, suffix := range sensitiveSuffixes {
		if len(lower) > len(suffix) && strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
