package prompt

import (
	"strings"
	"testing"

	"pm-assist-be/internal/entity"
	"pm-assist-be/pkg/askai"
)

func TestBuildIncludesDocumentsAndInsights(t *testing.T) {
	mitigation := "Hire a contractor"
	got := Build(
		"What is blocking us?",
		askai.FormatTechnical,
		[]askai.Document{{Title: "Status Report", Content: "Backend migration is 80% done."}},
		[]entity.Insight{{Kind: "blocker", Severity: "high", Description: "No DBA available", Mitigation: &mitigation}},
	)

	for _, want := range []string{
		"<grounded_reference_material>",
		"--- CONTENT OF: Status Report ---",
		"Backend migration is 80% done.",
		"<open_insights>",
		"[blocker/high] No DBA available",
		"(mitigation: Hire a contractor)",
		"technical audience",
		"What is blocking us?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildOmitsEmptySections(t *testing.T) {
	got := Build("Short question", askai.FormatGeneral, nil, nil)

	if strings.Contains(got, "<grounded_reference_material>") {
		t.Error("no documents, material block should be absent")
	}
	if strings.Contains(got, "<open_insights>") {
		t.Error("no insights, insight block should be absent")
	}
	if !strings.HasSuffix(got, "Short question") {
		t.Error("question must come last")
	}
}

func TestBuildUnknownFormatFallsBackToGeneral(t *testing.T) {
	got := Build("q", "haiku", nil, nil)
	if !strings.Contains(got, formatInstructions[askai.FormatGeneral]) {
		t.Error("unknown format should use the general tone")
	}
}
