// Package secrets detects and redacts secret material embedded in string
// values before responses leave the process.
//
// The structural redactor (internal/redact) handles sensitive field names;
// this package catches secrets hiding inside free-text values, such as a JWT
// pasted into a processor property or a password embedded in a JDBC URL.
package secrets

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// Scrubber redacts secret patterns from content.
type Scrubber interface {
	// Scrub returns content with all detected secrets replaced.
	Scrub(content string) string

	// Check reports detected secrets without redacting.
	Check(content string) []Finding

	// IsEnabled returns whether scrubbing is active.
	IsEnabled() bool
}

// Finding is one detected secret. The matched value is never stored.
type Finding struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	StartIndex  int    `json:"start_index"`
	EndIndex    int    `json:"end_index"`
}

// Config configures the scrubber.
type Config struct {
	// Enabled controls whether scrubbing is active (default: true).
	Enabled bool `koanf:"enabled"`

	// Rules defines the detection rules.
	Rules []Rule `koanf:"rules"`

	// Marker replaces detected secrets (default: "***REDACTED***").
	Marker string `koanf:"marker"`

	// AllowList contains patterns exempt from scrubbing.
	AllowList []string `koanf:"allow_list"`

	compiledRules []*compiledRule
	compiledAllow []*regexp.Regexp
}

// Rule defines one secret detection pattern.
type Rule struct {
	ID          string   `koanf:"id"`
	Description string   `koanf:"description"`
	Pattern     string   `koanf:"pattern"`
	Keywords    []string `koanf:"keywords"`
}

type compiledRule struct {
	Rule
	pattern  *regexp.Regexp
	keywords []*regexp.Regexp
}

// DefaultConfig returns a configuration with the standard rule set.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Marker:  "***REDACTED***",
		Rules:   DefaultRules(),
	}
}

// Validate compiles the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Marker == "" {
		c.Marker = "***REDACTED***"
	}

	c.compiledRules = make([]*compiledRule, 0, len(c.Rules))
	for i, rule := range c.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule %d: ID is required", i)
		}
		pattern, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("rule %s: invalid pattern: %w", rule.ID, err)
		}
		compiled := &compiledRule{Rule: rule, pattern: pattern}
		for _, kw := range rule.Keywords {
			kwPattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(kw))
			if err != nil {
				return fmt.Errorf("rule %s: invalid keyword %q: %w", rule.ID, kw, err)
			}
			compiled.keywords = append(compiled.keywords, kwPattern)
		}
		c.compiledRules = append(c.compiledRules, compiled)
	}

	c.compiledAllow = make([]*regexp.Regexp, 0, len(c.AllowList))
	for i, pattern := range c.AllowList {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("allow_list %d: invalid pattern: %w", i, err)
		}
		c.compiledAllow = append(c.compiledAllow, compiled)
	}
	return nil
}

type scrubber struct {
	config *Config
	mu     sync.RWMutex
}

// New creates a Scrubber. A nil config uses DefaultConfig().
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &scrubber{config: cfg}, nil
}

// MustNew creates a Scrubber, panicking on error. For default configs only.
func MustNew(cfg *Config) Scrubber {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *scrubber) IsEnabled() bool { return s.config.Enabled }

func (s *scrubber) Check(content string) []Finding {
	findings, _ := s.scan(content)
	return findings
}

func (s *scrubber) Scrub(content string) string {
	if !s.config.Enabled {
		return content
	}
	_, spans := s.scan(content)
	if len(spans) == 0 {
		return content
	}

	// Replace back to front so earlier indexes stay valid.
	scrubbed := content
	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		scrubbed = scrubbed[:sp.start] + s.config.Marker + scrubbed[sp.end:]
	}
	return scrubbed
}

type span struct{ start, end int }

// scan runs all rules and returns findings plus merged redaction spans
// sorted ascending.
func (s *scrubber) scan(content string) ([]Finding, []span) {
	if !s.config.Enabled {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var findings []Finding
	var spans []span

	for _, rule := range s.config.compiledRules {
		// Keywords act as a cheap prefilter before the full pattern runs.
		if len(rule.keywords) > 0 {
			hit := false
			for _, kw := range rule.keywords {
				if kw.MatchString(content) {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}

		for _, m := range rule.pattern.FindAllStringIndex(content, -1) {
			if s.isAllowed(content[m[0]:m[1]]) {
				continue
			}
			findings = append(findings, Finding{
				RuleID:      rule.ID,
				Description: rule.Description,
				StartIndex:  m[0],
				EndIndex:    m[1],
			})
			spans = append(spans, span{start: m[0], end: m[1]})
		}
	}

	return findings, mergeSpans(spans)
}

func (s *scrubber) isAllowed(match string) bool {
	for _, pattern := range s.config.compiledAllow {
		if pattern.MatchString(match) {
			return true
		}
	}
	return false
}

// mergeSpans sorts spans ascending and merges overlaps so redaction markers
// never nest.
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	merged := []span{spans[0]}
	for _, curr := range spans[1:] {
		last := &merged[len(merged)-1]
		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
			continue
		}
		merged = append(merged, curr)
	}
	return merged
}
