package entity

import "fmt"

// Insight is the typed form of the loosely-shaped risk/blocker maps the
// clients send. Validated at the service boundary; Mitigation is genuinely
// optional, everything else is required.
type Insight struct {
	Kind        string  `json:"kind"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Mitigation  *string `json:"mitigation,omitempty"`
}

const (
	InsightKindRisk    = "risk"
	InsightKindBlocker = "blocker"
)

var validSeverities = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

// ParseInsight validates one loose map into an Insight.
func ParseInsight(raw map[string]interface{}) (Insight, error) {
	kind, _ := raw["kind"].(string)
	if kind != InsightKindRisk && kind != InsightKindBlocker {
		return Insight{}, fmt.Errorf("invalid insight kind: %q", kind)
	}
	severity, _ := raw["severity"].(string)
	if !validSeverities[severity] {
		return Insight{}, fmt.Errorf("invalid insight severity: %q", severity)
	}
	description, _ := raw["description"].(string)
	if description == "" {
		return Insight{}, fmt.Errorf("insight description is required")
	}

	in := Insight{Kind: kind, Severity: severity, Description: description}
	if m, ok := raw["mitigation"].(string); ok && m != "" {
		in.Mitigation = &m
	}
	return in, nil
}

// ParseInsights validates a batch; the first invalid entry fails the whole
// request so malformed data never reaches the prompt builder.
func ParseInsights(raw []map[string]interface{}) ([]Insight, error) {
	out := make([]Insight, 0, len(raw))
	for i, r := range raw {
		in, err := ParseInsight(r)
		if err != nil {
			return nil, fmt.Errorf("insight %d: %w", i, err)
		}
		out = append(out, in)
	}
	return out, nil
}
