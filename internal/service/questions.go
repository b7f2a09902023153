package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/interviewlab/backend/internal/domain/interview"
	"github.com/interviewlab/backend/internal/llm"
	"github.com/interviewlab/backend/internal/prompt"
)

// QuestionGenerator produces the question list for a new interview.
// Implementations may call an LLM or return canned questions (for tests).
type QuestionGenerator interface {
	Generate(ctx context.Context, interviewType, difficulty string, count int) ([]interview.Question, error)
}

// Completer is the slice of the llm client the generator needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// LLMQuestionGenerator generates questions through the completion endpoint
// and parses the returned numbered list.
type LLMQuestionGenerator struct {
	client  Completer
	prompts *prompt.Builder
	logger  *slog.Logger
}

func NewLLMQuestionGenerator(client Completer, prompts *prompt.Builder, logger *slog.Logger) *LLMQuestionGenerator {
	return &LLMQuestionGenerator{
		client:  client,
		prompts: prompts,
		logger:  logger,
	}
}

// Generate asks the model for count questions. Fewer lines than requested is
// not an error; zero parseable questions is, so the caller can fall back to
// the static bank.
func (g *LLMQuestionGenerator) Generate(ctx context.Context, interviewType, difficulty string, count int) ([]interview.Question, error) {
	p, err := g.prompts.QuestionPrompt(interviewType, difficulty, count)
	if err != nil {
		return nil, err
	}

	text, err := g.client.Complete(ctx, llm.Request{
		System:      prompt.SystemInterviewer,
		Prompt:      p,
		Temperature: 0.8,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, err
	}

	items := prompt.ParseNumberedList(text, count)
	if len(items) == 0 {
		return nil, fmt.Errorf("model output contained no questions")
	}

	questions := make([]interview.Question, 0, len(items))
	for _, item := range items {
		questions = append(questions, interview.Question{
			ID:         uuid.NewString(),
			Text:       item,
			Category:   interviewType,
			Difficulty: difficulty,
		})
	}
	g.logger.Info("questions generated", "interview_type", interviewType, "count", len(questions))
	return questions, nil
}
