package conversations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"pdfchat-backend/internal/doccontext"
	"pdfchat-backend/internal/llm"
	"pdfchat-backend/internal/shared/metrics"
	"pdfchat-backend/internal/shared/telemetry"
)

// Service answers questions against whatever document text is current.
type Service struct {
	LLM      llm.Client
	Provider string
	Context  *doccontext.Store
	Repo     Repo

	now func() time.Time
}

// Ask composes the prompt from the current context, calls the model once and records
// the turn. There is no guard for a missing upload: an empty context is sent as is.
func (s *Service) Ask(ctx context.Context, userID, userInput string) (Reply, error) {
	ctx, span := telemetry.StartSpan(ctx, "conversations.Ask", attribute.String("user.id", userID))
	defer span.End()

	reply, err := s.ask(ctx, userID, userInput)
	span.SetAttributes(attribute.Int64("context.version", int64(reply.ContextVersion)))
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, ErrDatastore) {
			metrics.RecordConversation("datastore_error")
		} else {
			metrics.RecordConversation("llm_error")
		}
		return reply, err
	}
	metrics.RecordConversation("success")
	return reply, nil
}

func (s *Service) ask(ctx context.Context, userID, userInput string) (Reply, error) {
	snap := s.Context.Snapshot()
	reply := Reply{ContextVersion: snap.Version, ContextBytes: len(snap.Text)}

	answer, err := s.generate(ctx, BuildPrompt(userInput, snap.Text))
	if err != nil {
		return reply, err
	}
	reply.Answer = answer

	rec := Record{
		ID:         uuid.NewString(),
		UserID:     userID,
		UserInput:  userInput,
		AIResponse: answer,
		CreatedAt:  s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return reply, fmt.Errorf("%w: record conversation: %w", ErrDatastore, err)
	}
	reply.Record = rec
	return reply, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "llm.Generate",
		attribute.String("llm.provider", s.Provider),
		attribute.Int("prompt.bytes", len(prompt)),
	)
	defer span.End()

	start := time.Now()
	answer, err := s.LLM.Generate(ctx, prompt)
	metrics.ObserveGeneration(s.Provider, time.Since(start).Seconds())
	if err != nil {
		telemetry.RecordError(span, err)
		return "", fmt.Errorf("%w: %w", llm.ErrInvocation, err)
	}
	return answer, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
