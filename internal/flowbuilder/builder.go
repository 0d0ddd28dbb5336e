package flowbuilder

import (
	"fmt"
	"strings"
)

// GetTemplate fetches a template by name or key, tolerating spaces, dashes,
// and partial matches.
func GetTemplate(name string) *Template {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	if ctor, ok := templateAliases[key]; ok {
		return ctor()
	}
	for alias, ctor := range templateAliases {
		if strings.Contains(alias, key) || strings.Contains(key, alias) {
			return ctor()
		}
	}
	return nil
}

// IdentifyPattern matches a free-text build request against the pattern
// library. Returns nil when no pattern fits.
func IdentifyPattern(request string) *Template {
	lower := strings.ToLower(request)

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("sql server", "sqlserver", "mssql") && containsAny("iceberg"):
		return sqlServerToIceberg()
	case containsAny("kafka") && containsAny("s3"):
		return kafkaToS3()
	case containsAny("api", "rest", "http") && containsAny("database", "db", "postgres", "mysql"):
		return restAPIToDatabase()
	case containsAny("file", "directory", "watch", "monitor"):
		return fileWatcher()
	default:
		return nil
	}
}

// FormatRequirements renders a template's requirements as a prompt the model
// can relay to the user.
func FormatRequirements(t *Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To build a **%s** flow, I need the following information:\n\n%s\n\n", t.Name, t.Description)

	writeSection := func(title string, required bool) {
		var lines []string
		for _, req := range t.Requirements {
			if req.Required != required {
				continue
			}
			line := fmt.Sprintf("- **%s**: %s\n", titleCase(req.Name), req.Description)
			if req.Example != "" {
				line += fmt.Sprintf("  Example: `%s`\n", req.Example)
			}
			if req.Default != "" {
				line += fmt.Sprintf("  Default: `%s`\n", req.Default)
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			b.WriteString(title + "\n")
			for _, line := range lines {
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
	}

	writeSection("**Required Information:**", true)
	writeSection("**Optional Information:**", false)

	b.WriteString("Please provide these details and I'll build the flow for you!")
	return b.String()
}

// ValidateRequirements reports which required values are missing.
func ValidateRequirements(t *Template, values map[string]string) (bool, []string) {
	var missing []string
	for _, req := range t.Requirements {
		if !req.Required {
			continue
		}
		if strings.TrimSpace(values[req.Name]) == "" {
			missing = append(missing, req.Name)
		}
	}
	return len(missing) == 0, missing
}

// Analysis is the result of matching a build request to the library.
type Analysis struct {
	PatternFound        bool            `json:"pattern_found"`
	TemplateName        string          `json:"template_name,omitempty"`
	TemplateDescription string          `json:"template_description,omitempty"`
	RequirementsPrompt  string          `json:"requirements_prompt,omitempty"`
	RequiredProcessors  []string        `json:"required_processors,omitempty"`
	RequirementCount    int             `json:"requirement_count,omitempty"`
	AvailableTemplates  []TemplateBrief `json:"available_templates,omitempty"`
	Message             string          `json:"message,omitempty"`
}

// TemplateBrief is a name/key pair for listing available patterns.
type TemplateBrief struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// AnalyzeRequest matches a build request and returns either the matched
// template's requirements or the list of available patterns.
func AnalyzeRequest(request string) *Analysis {
	if t := IdentifyPattern(request); t != nil {
		return &Analysis{
			PatternFound:        true,
			TemplateName:        t.Name,
			TemplateDescription: t.Description,
			RequirementsPrompt:  FormatRequirements(t),
			RequiredProcessors:  t.ProcessorTypes,
			RequirementCount:    t.RequiredCount(),
		}
	}

	briefs := make([]TemplateBrief, 0, len(Templates()))
	names := make([]string, 0, len(briefs))
	for _, t := range Templates() {
		briefs = append(briefs, TemplateBrief{Name: t.Name, Key: t.Key})
		names = append(names, t.Name)
	}
	return &Analysis{
		PatternFound:       false,
		AvailableTemplates: briefs,
		Message:            "I couldn't identify a specific pattern. Available templates: " + strings.Join(names, ", "),
	}
}

func titleCase(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
