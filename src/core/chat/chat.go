// Package chat answers live insurance questions with the language
// model and hands each finished answer to the evaluation side channel.
package chat

import (
	"context"
	"fmt"

	"insureval/src/core/evaluation"
	"insureval/src/log"
)

const SystemPrompt = "You are a helpful insurance assistant. " +
	"Keep your answers concise and relevant. " +
	"If the question is not related to insurance, politely decline to answer."

// Recorder receives every finished question/answer pair. Implemented by
// the evaluation job queue; failures must not affect the chat response.
type Recorder interface {
	Record(ctx context.Context, question, answer string) error
}

type Service struct {
	llm      evaluation.LLMClient
	recorder Recorder
}

// NewService builds a chat service. recorder may be nil, in which case
// answers are not evaluated.
func NewService(llm evaluation.LLMClient, recorder Recorder) *Service {
	return &Service{
		llm:      llm,
		recorder: recorder,
	}
}

// Answer produces the chatbot reply for one user message. The reply is
// returned to the caller regardless of evaluation outcome: recording is
// best effort and any recorder failure is only logged.
func (s *Service) Answer(ctx context.Context, userMessage string) (string, error) {
	answer, err := s.llm.Chat(ctx, []evaluation.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: userMessage},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, userMessage, answer); err != nil {
			log.Error(err, "failed to record answer for evaluation", "question", userMessage)
		}
	}

	return answer, nil
}
