package suggest

import "strings"

const maxSuggestions = 3

// rule maps answer/question keywords to a canned follow-up. Order matters:
// rules are evaluated top to bottom so output is deterministic.
var rules = []struct {
	keywords []string
	followUp string
}{
	{[]string{"risk"}, "What mitigation steps are planned for these risks?"},
	{[]string{"blocker", "blocked"}, "Who owns unblocking these items?"},
	{[]string{"deadline", "timeline", "schedule", "delay"}, "How does this affect the overall timeline?"},
	{[]string{"budget", "cost", "spend"}, "What is the impact on the budget?"},
	{[]string{"milestone"}, "Which milestone is most at risk next?"},
	{[]string{"stakeholder"}, "What should stakeholders be told this week?"},
}

// Suggestions synthesizes 0-N quick-reply chips by lightweight inspection of
// the answer and question text. Pure and deterministic; never a remote call.
func Suggestions(answer, question string) []string {
	text := strings.ToLower(answer + " " + question)

	var out []string
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				out = append(out, r.followUp)
				break
			}
		}
		if len(out) == maxSuggestions {
			return out
		}
	}
	return out
}
