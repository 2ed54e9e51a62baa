package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/askai/coordinator"
	"pm-assist-be/pkg/askai/pagination"
	"pm-assist-be/pkg/askai/retry"
	"pm-assist-be/pkg/askai/session"

	"github.com/fatih/color"
)

// scriptedBackend answers deterministically so the walkthrough runs without
// a live model. The first generate call fails with a retryable error to show
// the backoff path.
type scriptedBackend struct {
	calls int
}

func (b *scriptedBackend) ListSessions(ctx context.Context, scope askai.Scope) ([]askai.ConversationSession, error) {
	return nil, nil
}

func (b *scriptedBackend) CreateSession(ctx context.Context, scope askai.Scope, s askai.ConversationSession) (askai.ConversationSession, error) {
	return s, nil
}

func (b *scriptedBackend) SaveSession(ctx context.Context, scope askai.Scope, s askai.ConversationSession) error {
	return nil
}

func (b *scriptedBackend) DeleteSession(ctx context.Context, scope askai.Scope, sessionID string) error {
	return nil
}

func (b *scriptedBackend) GenerateAnswer(ctx context.Context, req askai.GenerateRequest) (askai.Answer, error) {
	b.calls++
	if b.calls == 1 {
		return askai.Answer{}, askai.NewServiceError(askai.CodeOverload, "scripted transient failure")
	}

	question := coordinator.CleanQuestionForDisplay(req.Question)
	answer := fmt.Sprintf("Scripted %s answer to: %s", req.Format, question)
	if strings.Contains(strings.ToLower(question), "risk") {
		answer += " The main risk is the vendor dependency on the payment integration."
	}
	return askai.Answer{Answer: answer, Confidence: 0.85}, nil
}

func main() {
	user := color.New(color.FgCyan, color.Bold)
	ai := color.New(color.FgGreen)
	info := color.New(color.FgYellow)

	fmt.Println("=== Ask-AI Conversation Walkthrough ===")

	backend := &scriptedBackend{}
	mgr := session.NewManager(backend, pagination.NewWindow(0), log.Default())

	policy := retry.NewPolicy()
	policy.MinDelay = 100 * time.Millisecond
	policy.MaxDelay = 300 * time.Millisecond
	coord := coordinator.New(mgr, backend, policy, log.Default())

	scope := askai.Scope{EntityID: "proj-demo", EntityType: askai.EntityTypeProject}
	if err := mgr.LoadConversations(context.Background(), scope); err != nil {
		info.Printf("History load failed (continuing fresh): %v\n", err)
	}

	questions := []string{
		"What are the biggest risks on this project?",
		"Summarize progress for the steering committee",
	}

	for i, q := range questions {
		user.Printf("\nUSER: %s\n", q)

		in := coordinator.SubmitInput{
			EntityID:   scope.EntityID,
			EntityType: scope.EntityType,
			Question:   q,
			Format:     askai.FormatExecutive,
			IsFollowUp: i > 0,
		}
		if i == 0 {
			in.ContextInfo = "Project: Demo rollout. Status: amber. Open blockers: 2."
		}

		start := time.Now()
		result, err := coord.SubmitQuery(context.Background(), in)
		elapsed := time.Since(start)

		if err != nil {
			info.Printf("Error: %v\n", err)
			continue
		}

		ai.Printf("AI (%v): %s\n", elapsed.Round(time.Millisecond), result.Answer.Answer)
		for _, s := range result.Suggestions {
			info.Printf("  suggestion: %s\n", s)
		}
	}

	state := mgr.Snapshot()
	fmt.Println()
	info.Printf("Sessions: %d, active: %s\n", len(state.Sessions), state.ActiveSessionID)
	info.Printf("Conversation items: %d, visible window: %d\n", len(state.Conversation), mgr.Window().VisibleItemCount())

	// Busy rejection: fire a submit while another is syntactically in flight.
	if _, _, err := mgr.BeginSubmit("first of two"); err != nil {
		info.Printf("unexpected: %v\n", err)
	}
	if _, _, err := mgr.BeginSubmit("second of two"); err != nil {
		info.Printf("Second submit while busy rejected: %v\n", err)
	}
}
