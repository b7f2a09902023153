// Package evaluator turns a candidate's answer into an EvaluationResult.
// It owns the per-modality criterion sets, the LLM sub-evaluations, and the
// degrade-on-failure policy: completion failures never escape this package,
// they become a result built from fallback constants.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/interviewlab/backend/internal/domain/interview"
	"github.com/interviewlab/backend/internal/infrastructure/config"
	"github.com/interviewlab/backend/internal/llm"
	"github.com/interviewlab/backend/internal/prompt"
	"github.com/interviewlab/backend/internal/worker"
)

// CompletionClient is the slice of the llm client the evaluator needs.
// Narrow so tests can swap in canned or failing implementations.
type CompletionClient interface {
	CompleteJSON(ctx context.Context, req llm.Request, out any) error
}

// Evaluator orchestrates the sub-evaluations of one answer.
type Evaluator struct {
	client  CompletionClient
	prompts *prompt.Builder
	cfg     *config.Interview
	logger  *slog.Logger
}

// New creates an Evaluator.
func New(client CompletionClient, prompts *prompt.Builder, cfg *config.Interview, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		client:  client,
		prompts: prompts,
		cfg:     cfg,
		logger:  logger,
	}
}

// Input carries everything needed to evaluate one answer.
type Input struct {
	Question      interview.Question
	Answer        string // typed text for text answers, transcript otherwise
	InterviewType string
	Difficulty    string
	Modality      interview.Modality
	// VideoDescriptor is the probed recording description for video answers.
	VideoDescriptor string
}

// Fallback feedback used for degraded results.
const (
	fallbackFeedback    = "Unable to evaluate due to a technical error. The score shown is a neutral placeholder."
	fallbackStrength    = "Response recorded successfully"
	fallbackImprovement = "Please try submitting again for detailed feedback"
	fallbackTip         = "Ensure your response is clear and detailed."
)

// subEval is the outcome of one LLM sub-evaluation. A degraded sub-eval
// carries fallback scores for its criteria.
type subEval struct {
	scores       map[string]float64
	feedback     []string
	strengths    []string
	improvements []string
	tips         []string
	degraded     bool
}

// Evaluate scores an answer. It never returns an error: each failed
// sub-evaluation is replaced by the configured neutral fallback and the
// result is marked Degraded. The sub-evaluations run concurrently; the call
// blocks until all of them finish.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) *interview.EvaluationResult {
	pool := worker.NewPool[subEval](3, 3)

	submitted := 1
	pool.Submit(ctx, interview.CriterionContentQuality, func(ctx context.Context) subEval {
		return e.evaluateContent(ctx, in)
	})
	if in.Modality == interview.ModalityAudio || in.Modality == interview.ModalityVideo {
		submitted++
		pool.Submit(ctx, interview.CriterionVocalDelivery, func(ctx context.Context) subEval {
			return e.evaluateVocal(ctx, in)
		})
	}
	if in.Modality == interview.ModalityVideo {
		submitted++
		pool.Submit(ctx, interview.CriterionBodyLanguage, func(ctx context.Context) subEval {
			return e.evaluateBodyLanguage(ctx, in)
		})
	}
	pool.Close()

	merged := subEval{scores: make(map[string]float64)}
	for i := 0; i < submitted; i++ {
		r := <-pool.Results()
		for name, v := range r.Output.scores {
			merged.scores[name] = v
		}
		merged.feedback = append(merged.feedback, r.Output.feedback...)
		merged.strengths = append(merged.strengths, r.Output.strengths...)
		merged.improvements = append(merged.improvements, r.Output.improvements...)
		merged.tips = append(merged.tips, r.Output.tips...)
		merged.degraded = merged.degraded || r.Output.degraded
	}

	weights := e.cfg.WeightsFor(string(in.Modality))
	criteria := make([]interview.CriterionScore, 0, len(weights))
	for _, w := range weights {
		value, ok := merged.scores[w.Name]
		if !ok {
			value = e.cfg.Evaluation.FallbackScore
		}
		criteria = append(criteria, interview.CriterionScore{
			Name:   w.Name,
			Value:  Clamp(value),
			Weight: w.Weight,
		})
	}

	result := &interview.EvaluationResult{
		OverallScore: Overall(criteria),
		Criteria:     criteria,
		FeedbackText: strings.Join(merged.feedback, "\n"),
		Strengths:    merged.strengths,
		Improvements: merged.improvements,
		Tips:         merged.tips,
		Degraded:     merged.degraded,
	}

	e.logger.Info("answer evaluated",
		"question_id", in.Question.ID,
		"modality", in.Modality,
		"overall", result.OverallScore,
		"degraded", result.Degraded,
	)
	return result
}

type contentEvaluation struct {
	Scores struct {
		ContentQuality float64 `json:"content_quality"`
		Communication  float64 `json:"communication"`
	} `json:"scores"`
	Feedback struct {
		ContentQuality string `json:"content_quality"`
		Communication  string `json:"communication"`
	} `json:"feedback"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
	ActionableTip string   `json:"actionable_tip"`
}

// evaluateContent scores content quality and communication. On failure both
// criteria fall back to the configured neutral score.
func (e *Evaluator) evaluateContent(ctx context.Context, in Input) subEval {
	var eval contentEvaluation
	err := e.client.CompleteJSON(ctx, llm.Request{
		System:      prompt.SystemEvaluator,
		Prompt:      e.prompts.EvaluationPrompt(in.Question.Text, in.Answer, in.InterviewType, in.Difficulty),
		Temperature: 0.6,
		MaxTokens:   2048,
	}, &eval)
	if err != nil {
		e.logger.Error("content evaluation degraded", "question_id", in.Question.ID, "error", err)
		return subEval{
			scores: map[string]float64{
				interview.CriterionContentQuality: e.cfg.Evaluation.FallbackScore,
				interview.CriterionCommunication:  e.cfg.Evaluation.FallbackScore,
			},
			feedback:     []string{fallbackFeedback},
			strengths:    []string{fallbackStrength},
			improvements: []string{fallbackImprovement},
			tips:         []string{fallbackTip},
			degraded:     true,
		}
	}

	return subEval{
		scores: map[string]float64{
			interview.CriterionContentQuality: eval.Scores.ContentQuality,
			interview.CriterionCommunication:  eval.Scores.Communication,
		},
		feedback: []string{
			fmt.Sprintf("Content quality: %s", eval.Feedback.ContentQuality),
			fmt.Sprintf("Communication: %s", eval.Feedback.Communication),
		},
		strengths:    eval.Strengths,
		improvements: eval.Improvements,
		tips:         nonEmpty(eval.ActionableTip),
	}
}

type vocalEvaluation struct {
	VocalScore      float64 `json:"vocal_score"`
	PaceFeedback    string  `json:"pace_feedback"`
	ClarityFeedback string  `json:"clarity_feedback"`
	ToneFeedback    string  `json:"tone_feedback"`
}

// evaluateVocal scores vocal delivery from the transcript.
func (e *Evaluator) evaluateVocal(ctx context.Context, in Input) subEval {
	var eval vocalEvaluation
	err := e.client.CompleteJSON(ctx, llm.Request{
		System:      prompt.SystemSpeechCoach,
		Prompt:      e.prompts.VocalPrompt(in.Answer, in.InterviewType),
		Temperature: 0.5,
		MaxTokens:   1024,
	}, &eval)
	if err != nil {
		e.logger.Error("vocal evaluation degraded", "question_id", in.Question.ID, "error", err)
		return subEval{
			scores:   map[string]float64{interview.CriterionVocalDelivery: e.cfg.Evaluation.FallbackScore},
			feedback: []string{"Vocal delivery: unable to analyze audio quality."},
			degraded: true,
		}
	}

	return subEval{
		scores:   map[string]float64{interview.CriterionVocalDelivery: eval.VocalScore},
		feedback: []string{fmt.Sprintf("Vocal delivery: %s", eval.ClarityFeedback)},
		tips:     append(nonEmpty(eval.PaceFeedback), nonEmpty(eval.ToneFeedback)...),
	}
}

type bodyEvaluation struct {
	BodyLanguageScore float64 `json:"body_language_score"`
	PostureFeedback   string  `json:"posture_feedback"`
	GestureFeedback   string  `json:"gesture_feedback"`
	OverallPresence   string  `json:"overall_presence"`
}

// evaluateBodyLanguage scores body language from the video descriptor.
func (e *Evaluator) evaluateBodyLanguage(ctx context.Context, in Input) subEval {
	descriptor := in.VideoDescriptor
	if descriptor == "" {
		descriptor = "No video analysis data available."
	}

	var eval bodyEvaluation
	err := e.client.CompleteJSON(ctx, llm.Request{
		System:      prompt.SystemEvaluator,
		Prompt:      e.prompts.BodyLanguagePrompt(descriptor),
		Temperature: 0.5,
		MaxTokens:   1024,
	}, &eval)
	if err != nil {
		e.logger.Error("body language evaluation degraded", "question_id", in.Question.ID, "error", err)
		return subEval{
			scores:   map[string]float64{interview.CriterionBodyLanguage: e.cfg.Evaluation.FallbackScore},
			feedback: []string{"Body language: unable to analyze the recording."},
			degraded: true,
		}
	}

	return subEval{
		scores:   map[string]float64{interview.CriterionBodyLanguage: eval.BodyLanguageScore},
		feedback: []string{fmt.Sprintf("Body language: %s", eval.OverallPresence)},
		tips:     append(nonEmpty(eval.PostureFeedback), nonEmpty(eval.GestureFeedback)...),
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
