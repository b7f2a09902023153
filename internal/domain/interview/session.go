package interview

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of an interview session.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

var (
	// ErrNotInProgress is returned when an answer is submitted while the
	// session is not in progress. The session is left unchanged.
	ErrNotInProgress = errors.New("interview is not in progress")
	// ErrQuestionMismatch is returned when the submitted answer does not
	// target the current question.
	ErrQuestionMismatch = errors.New("response does not match the current question")
	// ErrNoQuestions is returned when a session is started without questions.
	ErrNoQuestions = errors.New("no questions to start with")
)

// Session is one mock interview: its questions, the candidate's responses,
// and the evaluation of each response. Sessions live in memory only; reset
// or process exit discards them. A session is not safe for concurrent use;
// callers serialize access per session.
type Session struct {
	ID         string
	Type       string
	Difficulty string
	Questions  []Question
	// CurrentIndex is the index of the next question awaiting an answer.
	// Equal to len(Questions) once the interview is completed.
	CurrentIndex int
	Responses    map[string]Response
	Evaluations  map[string]*EvaluationResult
	// FallbackQuestions is set when question generation failed and the
	// static question bank was used instead.
	FallbackQuestions bool
	CreatedAt         time.Time
	CompletedAt       time.Time

	state State
}

// New creates a session in the NotStarted state.
func New(interviewType, difficulty string) *Session {
	return &Session{
		ID:          uuid.NewString(),
		Type:        interviewType,
		Difficulty:  difficulty,
		Responses:   make(map[string]Response),
		Evaluations: make(map[string]*EvaluationResult),
		CreatedAt:   time.Now().UTC(),
		state:       StateNotStarted,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Start moves the session to InProgress with the given question list.
// Valid only from NotStarted.
func (s *Session) Start(questions []Question, fromFallback bool) error {
	if s.state != StateNotStarted {
		return fmt.Errorf("cannot start interview in state %q", s.state)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	s.Questions = questions
	s.FallbackQuestions = fromFallback
	s.CurrentIndex = 0
	s.state = StateInProgress
	return nil
}

// CurrentQuestion returns the question awaiting an answer.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.state != StateInProgress || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// SubmitResponse records a response and its evaluation for the current
// question and advances the interview. Once the last question is answered
// the session becomes Completed. Rejected outside InProgress with no state
// mutation.
func (s *Session) SubmitResponse(resp Response, eval *EvaluationResult) error {
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	current, ok := s.CurrentQuestion()
	if !ok {
		return ErrNotInProgress
	}
	if resp.QuestionID != current.ID {
		return ErrQuestionMismatch
	}
	if eval == nil {
		return errors.New("evaluation is required")
	}

	s.Responses[resp.QuestionID] = resp
	s.Evaluations[resp.QuestionID] = eval
	s.CurrentIndex++
	if s.CurrentIndex >= len(s.Questions) {
		s.state = StateCompleted
		s.CompletedAt = time.Now().UTC()
	}
	return nil
}

// Reset discards all questions, responses, and evaluations and returns the
// session to NotStarted. Valid from any state.
func (s *Session) Reset() {
	s.Questions = nil
	s.CurrentIndex = 0
	s.Responses = make(map[string]Response)
	s.Evaluations = make(map[string]*EvaluationResult)
	s.FallbackQuestions = false
	s.CompletedAt = time.Time{}
	s.state = StateNotStarted
}

// Progress returns the number of answered questions and the total.
func (s *Session) Progress() (answered, total int) {
	return len(s.Responses), len(s.Questions)
}

// AverageScore returns the mean overall score across all evaluations,
// rounded half up. Zero when nothing has been evaluated yet.
func (s *Session) AverageScore() int {
	if len(s.Evaluations) == 0 {
		return 0
	}
	sum := 0
	for _, ev := range s.Evaluations {
		sum += ev.OverallScore
	}
	return int((float64(sum)/float64(len(s.Evaluations)) + 0.5))
}
