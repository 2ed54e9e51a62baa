package service

import (
	"context"
	"testing"
	"time"

	"pm-assist-be/internal/constant"
	"pm-assist-be/internal/dto"
	"pm-assist-be/internal/repository/memory"
	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/askai/coordinator"
	"pm-assist-be/pkg/clipboard"
	"pm-assist-be/pkg/notify"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
)

// flakyGenerator serves an empty history and fails generation on demand.
type flakyGenerator struct {
	generateErr error
}

func (f *flakyGenerator) ListSessions(ctx context.Context, scope askai.Scope) ([]askai.ConversationSession, error) {
	return nil, nil
}

func (f *flakyGenerator) CreateSession(ctx context.Context, scope askai.Scope, s askai.ConversationSession) (askai.ConversationSession, error) {
	return s, nil
}

func (f *flakyGenerator) SaveSession(ctx context.Context, scope askai.Scope, s askai.ConversationSession) error {
	return nil
}

func (f *flakyGenerator) DeleteSession(ctx context.Context, scope askai.Scope, sessionID string) error {
	return nil
}

func (f *flakyGenerator) GenerateAnswer(ctx context.Context, req askai.GenerateRequest) (askai.Answer, error) {
	if f.generateErr != nil {
		return askai.Answer{}, f.generateErr
	}
	return askai.Answer{Answer: "All green.", Confidence: 0.8}, nil
}

func TestSubmitQuestionToastsOnlyOnGenerationFailure(t *testing.T) {
	bus := notify.NewBus(watermill.NopLogger{})
	defer bus.Close()

	gen := &flakyGenerator{generateErr: askai.NewServiceError(askai.CodeAuthFailed, "bad credentials")}
	svc := NewAskAiService(memory.NewManagerRegistry(), gen, bus, nil, clipboard.NewMemory(), nil, 0, 0)

	ctx := context.Background()
	msgs, err := bus.Subscribe(ctx)
	assert.NoError(t, err)

	scope := dto.ScopeRequest{EntityId: "p1", EntityType: "project"}

	// A blank question is rejected locally; nothing was appended, so no
	// failure banner may appear.
	_, err = svc.SubmitQuestion(ctx, &dto.SubmitQuestionRequest{ScopeRequest: scope, Question: "   "})
	assert.ErrorIs(t, err, coordinator.ErrEmptyQuestion)

	select {
	case msg := <-msgs:
		toast, _ := notify.Decode(msg)
		msg.Ack()
		t.Fatalf("unexpected toast %q for a rejected submit", toast.Message)
	case <-time.After(100 * time.Millisecond):
	}

	// A real generation failure announces itself.
	_, err = svc.SubmitQuestion(ctx, &dto.SubmitQuestionRequest{ScopeRequest: scope, Question: "Will the release slip?"})
	assert.Error(t, err)

	select {
	case msg := <-msgs:
		toast, decErr := notify.Decode(msg)
		msg.Ack()
		assert.NoError(t, decErr)
		assert.Equal(t, askai.ToastError, toast.Level)
		assert.Equal(t, constant.ToastAnswerFailed, toast.Message)
		assert.Equal(t, "p1", toast.EntityID)
	case <-time.After(time.Second):
		t.Fatal("expected a failure toast after a generation error")
	}
}
