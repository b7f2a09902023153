package store

import (
	"errors"
	"time"

	"github.com/interviewlab/backend/internal/domain/interview"
)

var (
	ErrNotFound = errors.New("not found")
)

// ArchivedInterview is one completed interview as listed by the archive.
type ArchivedInterview struct {
	ID            string    `json:"id"`
	InterviewType string    `json:"interview_type"`
	Difficulty    string    `json:"difficulty"`
	QuestionCount int       `json:"question_count"`
	AverageScore  int       `json:"average_score"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}

// ArchivedAnswer is one answered question inside an archived interview.
type ArchivedAnswer struct {
	QuestionID   string                     `json:"question_id"`
	Position     int                        `json:"position"`
	QuestionText string                     `json:"question_text"`
	Modality     string                     `json:"modality"`
	AnswerText   string                     `json:"answer_text"`
	OverallScore int                        `json:"overall_score"`
	Degraded     bool                       `json:"degraded"`
	Criteria     []interview.CriterionScore `json:"criteria"`
	FeedbackText string                     `json:"feedback_text"`
	Strengths    []string                   `json:"strengths"`
	Improvements []string                   `json:"improvements"`
	Tips         []string                   `json:"tips"`
}
