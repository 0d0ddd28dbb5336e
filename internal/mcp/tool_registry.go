package mcp

import (
	"fmt"
	"sort"
	"strings"
)

// Tool categories.
const (
	CategoryFlow       = "flow"
	CategoryProcessor  = "processor"
	CategoryConnection = "connection"
	CategoryService    = "service"
	CategoryPort       = "port"
	CategoryParameter  = "parameter"
	CategoryBuilder    = "builder"
	CategoryDiagnostic = "diagnostic"
)

// ToolMetadata describes one registered tool for discovery.
type ToolMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Write       bool   `json:"write"`
}

// ToolRegistry tracks metadata for every registered tool so that
// discovery tools and the CLI can enumerate the surface.
type ToolRegistry struct {
	tools map[string]ToolMetadata
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]ToolMetadata)}
}

func (r *ToolRegistry) Register(meta ToolMetadata) error {
	if meta.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if _, exists := r.tools[meta.Name]; exists {
		return fmt.Errorf("tool %q already registered", meta.Name)
	}
	r.tools[meta.Name] = meta
	return nil
}

// List returns all tools sorted by name.
func (r *ToolRegistry) List() []ToolMetadata {
	out := make([]ToolMetadata, 0, len(r.tools))
	for _, meta := range r.tools {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByCategory returns the tools in one category sorted by name.
func (r *ToolRegistry) ByCategory(category string) []ToolMetadata {
	var out []ToolMetadata
	for _, meta := range r.tools {
		if meta.Category == category {
			out = append(out, meta)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Search matches the query against tool names and descriptions,
// case-insensitively.
func (r *ToolRegistry) Search(query string) []ToolMetadata {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return r.List()
	}
	var out []ToolMetadata
	for _, meta := range r.tools {
		if strings.Contains(strings.ToLower(meta.Name), query) ||
			strings.Contains(strings.ToLower(meta.Description), query) {
			out = append(out, meta)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Categories returns the distinct categories in use, sorted.
func (r *ToolRegistry) Categories() []string {
	seen := make(map[string]struct{})
	for _, meta := range r.tools {
		seen[meta.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (r *ToolRegistry) Count() int { return len(r.tools) }

func (r *ToolRegistry) Get(name string) (ToolMetadata, bool) {
	meta, ok := r.tools[name]
	return meta, ok
}
