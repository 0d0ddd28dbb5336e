package nifi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Version classifies the target engine's API shape.
type Version int

const (
	// VersionUnknown means the probe failed; 1.x semantics are assumed.
	VersionUnknown Version = iota
	// V1 is NiFi 1.x.
	V1
	// V2 is NiFi 2.x or later.
	V2
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return "unknown"
	}
}

// VersionInfo returns the raw flow/about entity.
func (c *Client) VersionInfo(ctx context.Context) (Entity, error) {
	return c.get(ctx, "flow/about", nil)
}

// probeVersion classifies the engine exactly once per process. The result is
// cached; concurrent callers block on the first probe.
func (c *Client) probeVersion(ctx context.Context) {
	c.versionOnce.Do(func() {
		about, err := c.VersionInfo(ctx)
		if err != nil {
			// Unreachable or unparseable engines get 1.x semantics, the
			// conservative default for endpoint selection.
			c.logger.Warn("version probe failed, assuming NiFi 1.x endpoints")
			c.version = VersionUnknown
			c.versionTup = [3]int{1, 0, 0}
			return
		}

		tuple, ok := parseAboutVersion(about)
		if !ok {
			c.logger.Warn("could not parse NiFi version string, assuming 1.x")
			c.version = VersionUnknown
			c.versionTup = [3]int{1, 0, 0}
			return
		}

		c.versionTup = tuple
		if tuple[0] >= 2 {
			c.version = V2
		} else {
			c.version = V1
		}
		c.logger.Info(fmt.Sprintf("detected NiFi %d.%d.%d (%s API shape)",
			tuple[0], tuple[1], tuple[2], c.version))
	})
}

// EngineVersion returns the cached classification, probing on first use.
func (c *Client) EngineVersion(ctx context.Context) Version {
	c.probeVersion(ctx)
	return c.version
}

// VersionTuple returns the cached (major, minor, patch) version.
func (c *Client) VersionTuple(ctx context.Context) [3]int {
	c.probeVersion(ctx)
	return c.versionTup
}

// IsNiFi2 reports whether the engine is NiFi 2.x or later.
func (c *Client) IsNiFi2(ctx context.Context) bool {
	c.probeVersion(ctx)
	return c.version == V2
}

// parseAboutVersion extracts (major, minor, patch) from a flow/about entity.
// Handles plain versions ("1.23.2"), milestone suffixes ("2.0.0-M4"), and
// vendor builds ("2.2.0.4.10.0-147").
func parseAboutVersion(about Entity) ([3]int, bool) {
	inner, _ := about["about"].(map[string]any)
	if inner == nil {
		return [3]int{}, false
	}
	raw, _ := inner["version"].(string)
	if raw == "" {
		return [3]int{}, false
	}
	return parseVersionString(raw)
}

func parseVersionString(raw string) ([3]int, bool) {
	var tuple [3]int
	parts := strings.Split(raw, ".")
	if len(parts) == 0 {
		return tuple, false
	}
	for i := 0; i < 3 && i < len(parts); i++ {
		// Strip anything after a non-digit ("0-M4" -> "0").
		digits := parts[i]
		for j, r := range digits {
			if r < '0' || r > '9' {
				digits = digits[:j]
				break
			}
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			if i == 0 {
				return tuple, false
			}
			break
		}
		tuple[i] = n
	}
	return tuple, true
}

// parameterContextQuery returns version-appropriate query parameters for the
// parameter context listing. NiFi 2.x only reports inherited parameters when
// asked explicitly; 1.x rejects the parameter.
func (c *Client) parameterContextQuery(ctx context.Context) url.Values {
	if c.EngineVersion(ctx) == V2 {
		return url.Values{"includeInheritedParameters": []string{"true"}}
	}
	return nil
}

// normalizeSnapshot flattens 2.x aggregateSnapshot status blocks into the
// 1.x field layout so tool output is version-independent.
func normalizeSnapshot(status map[string]any) map[string]any {
	if status == nil {
		return nil
	}
	if snap, ok := status["aggregateSnapshot"].(map[string]any); ok {
		merged := make(map[string]any, len(status)+len(snap))
		for k, v := range status {
			if k == "aggregateSnapshot" {
				continue
			}
			merged[k] = v
		}
		for k, v := range snap {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
		return merged
	}
	return status
}
