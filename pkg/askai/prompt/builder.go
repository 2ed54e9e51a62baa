package prompt

import (
	"fmt"
	"strings"

	"pm-assist-be/internal/entity"
	"pm-assist-be/pkg/askai"
)

// Tone instructions per summary format. The general register is the
// fallback for unknown formats.
var formatInstructions = map[string]string{
	askai.FormatExecutive:   "Answer for an executive audience: lead with outcomes and decisions needed, three short paragraphs at most, no implementation detail.",
	askai.FormatTechnical:   "Answer for a technical audience: concrete detail, exact figures, and the dependencies or systems involved.",
	askai.FormatStakeholder: "Answer for external stakeholders: plain language, progress framed against commitments, no internal jargon.",
	askai.FormatGeneral:     "Answer clearly and concisely for a general project audience.",
}

// Build assembles the grounded generation prompt: grounding documents and
// typed risk/blocker insights as the only data source, the tone for the
// requested summary format, then the (possibly context-prefixed) question.
func Build(question, format string, docs []askai.Document, insights []entity.Insight) string {
	var b strings.Builder

	if len(docs) > 0 {
		b.WriteString("<grounded_reference_material>\n")
		b.WriteString("Answer ONLY from the material below. Do NOT use outside knowledge.\n\n")
		for _, doc := range docs {
			b.WriteString(fmt.Sprintf("--- CONTENT OF: %s ---\n", doc.Title))
			b.WriteString(doc.Content)
			b.WriteString(fmt.Sprintf("\n--- END OF: %s ---\n", doc.Title))
		}
		b.WriteString("</grounded_reference_material>\n\n")
	}

	if len(insights) > 0 {
		b.WriteString("<open_insights>\n")
		for _, in := range insights {
			b.WriteString(fmt.Sprintf("- [%s/%s] %s", in.Kind, in.Severity, in.Description))
			if in.Mitigation != nil {
				b.WriteString(fmt.Sprintf(" (mitigation: %s)", *in.Mitigation))
			}
			b.WriteString("\n")
		}
		b.WriteString("</open_insights>\n\n")
	}

	b.WriteString("<task_instructions>\n")
	tone, ok := formatInstructions[format]
	if !ok {
		tone = formatInstructions[askai.FormatGeneral]
	}
	b.WriteString(tone)
	b.WriteString("\nIf the material is insufficient, say so explicitly instead of guessing.\n")
	b.WriteString("</task_instructions>\n\n")

	b.WriteString(question)
	return b.String()
}
