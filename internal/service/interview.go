// internal/service/interview.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/interviewlab/backend/internal/domain/interview"
	"github.com/interviewlab/backend/internal/domain/questionbank"
	"github.com/interviewlab/backend/internal/evaluator"
	"github.com/interviewlab/backend/internal/infrastructure/config"
	"github.com/interviewlab/backend/internal/media"
	"github.com/interviewlab/backend/internal/metrics"
)

var (
	ErrSessionNotFound      = errors.New("interview not found")
	ErrUnknownInterviewType = errors.New("unknown interview type")
	ErrUnknownDifficulty    = errors.New("unknown difficulty level")
	ErrBadQuestionCount     = errors.New("question count out of range")
	ErrEmptyAnswer          = errors.New("answer text is empty")
	ErrMissingFile          = errors.New("audio/video answers require an uploaded file")
)

// AnswerEvaluator is what the service needs from the evaluator.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, in evaluator.Input) *interview.EvaluationResult
}

// MediaProcessor is what the service needs from the media normalizer.
type MediaProcessor interface {
	Validate(filename string, size int64, modality interview.Modality) error
	TranscribeAudio(ctx context.Context, filename string, data []byte) (string, error)
	ProcessVideo(ctx context.Context, filename string, data []byte) (transcript, descriptor string, err error)
}

// Archiver persists completed interviews. May be nil to disable archiving.
type Archiver interface {
	ArchiveSession(ctx context.Context, sess *interview.Session) error
}

// InterviewService owns the live sessions and drives the whole workflow:
// start, submit, results, reset. Sessions are kept in memory only and are
// isolated from each other; access to one session is serialized by its
// entry lock, so a submit blocks any concurrent call on the same interview
// (but never on a different one).
type InterviewService struct {
	cfg       *config.Interview
	questions QuestionGenerator
	evaluator AnswerEvaluator
	media     MediaProcessor
	archive   Archiver
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu   sync.Mutex
	sess *interview.Session
}

func NewInterviewService(cfg *config.Interview, q QuestionGenerator, e AnswerEvaluator, m MediaProcessor, a Archiver, logger *slog.Logger) *InterviewService {
	return &InterviewService{
		cfg:       cfg,
		questions: q,
		evaluator: e,
		media:     m,
		archive:   a,
		logger:    logger,
		sessions:  make(map[string]*sessionEntry),
	}
}

// Catalog is the configuration surface the UI needs to render its controls.
type Catalog struct {
	InterviewTypes   []string `json:"interview_types"`
	DifficultyLevels []string `json:"difficulty_levels"`
	DefaultQuestions int      `json:"default_questions"`
	MaxQuestions     int      `json:"max_questions"`
	MaxAudioSizeMB   int64    `json:"max_audio_size_mb"`
	MaxVideoSizeMB   int64    `json:"max_video_size_mb"`
	AudioFormats     []string `json:"audio_formats"`
	VideoFormats     []string `json:"video_formats"`
}

func (s *InterviewService) Catalog() Catalog {
	return Catalog{
		InterviewTypes:   s.cfg.InterviewTypes,
		DifficultyLevels: s.cfg.DifficultyLevels,
		DefaultQuestions: s.cfg.DefaultQuestions,
		MaxQuestions:     s.cfg.MaxQuestions,
		MaxAudioSizeMB:   s.cfg.Media.MaxAudioSizeMB,
		MaxVideoSizeMB:   s.cfg.Media.MaxVideoSizeMB,
		AudioFormats:     s.cfg.Media.AudioFormats,
		VideoFormats:     s.cfg.Media.VideoFormats,
	}
}

// Snapshot is a read-only view of a session handed to the API layer.
type Snapshot struct {
	ID                string               `json:"id"`
	Type              string               `json:"interview_type"`
	Difficulty        string               `json:"difficulty"`
	State             interview.State      `json:"state"`
	Questions         []interview.Question `json:"questions"`
	CurrentIndex      int                  `json:"current_index"`
	Answered          int                  `json:"answered"`
	Total             int                  `json:"total"`
	FallbackQuestions bool                 `json:"fallback_questions"`
}

// Start creates a session and moves it straight to InProgress. Question
// generation failures fall back to the static bank; starting never fails on
// the completion endpoint.
func (s *InterviewService) Start(ctx context.Context, interviewType, difficulty string, count int) (Snapshot, error) {
	if !s.cfg.KnownType(interviewType) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownInterviewType, interviewType)
	}
	if !s.cfg.KnownDifficulty(difficulty) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
	if count == 0 {
		count = s.cfg.DefaultQuestions
	}
	if count < 1 || count > s.cfg.MaxQuestions {
		return Snapshot{}, fmt.Errorf("%w: %d not in [1,%d]", ErrBadQuestionCount, count, s.cfg.MaxQuestions)
	}

	questions, err := s.questions.Generate(ctx, interviewType, difficulty, count)
	fromFallback := false
	if err != nil || len(questions) == 0 {
		s.logger.Warn("question generation failed, using fallback bank",
			"interview_type", interviewType,
			"error", err,
		)
		questions = questionbank.Questions(interviewType, difficulty, count)
		fromFallback = true
	}

	sess := interview.New(interviewType, difficulty)
	if err := sess.Start(questions, fromFallback); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = &sessionEntry{sess: sess}
	s.mu.Unlock()

	source := "generated"
	if fromFallback {
		source = "fallback"
	}
	metrics.InterviewsStarted.WithLabelValues(source).Inc()
	s.logger.Info("interview started",
		"interview_id", sess.ID,
		"interview_type", interviewType,
		"difficulty", difficulty,
		"questions", len(questions),
		"question_source", source,
	)
	return snapshot(sess), nil
}

// Get returns a snapshot of one session.
func (s *InterviewService) Get(id string) (Snapshot, error) {
	entry, err := s.entry(id)
	if err != nil {
		return Snapshot{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return snapshot(entry.sess), nil
}

// SubmitRequest is one answer submission.
type SubmitRequest struct {
	QuestionID string
	Modality   interview.Modality
	Text       string // text answers
	Filename   string // audio/video answers
	Data       []byte // audio/video answers
}

// Submit evaluates an answer and advances the interview. The call blocks
// for the full round trip: media processing, the LLM sub-evaluations, and
// scoring. Media validation and transcription failures are returned to the
// caller; completion failures are absorbed into a degraded evaluation that
// still advances the session.
func (s *InterviewService) Submit(ctx context.Context, id string, req SubmitRequest) (*interview.EvaluationResult, Snapshot, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, Snapshot{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	sess := entry.sess

	if sess.State() != interview.StateInProgress {
		return nil, Snapshot{}, interview.ErrNotInProgress
	}
	if !req.Modality.Valid() {
		return nil, Snapshot{}, fmt.Errorf("unknown modality %q", req.Modality)
	}

	started := time.Now()

	resp := interview.Response{
		QuestionID: req.QuestionID,
		Modality:   req.Modality,
	}
	var descriptor string

	switch req.Modality {
	case interview.ModalityText:
		if req.Text == "" {
			return nil, Snapshot{}, ErrEmptyAnswer
		}
		resp.Text = req.Text

	case interview.ModalityAudio:
		if req.Filename == "" || len(req.Data) == 0 {
			return nil, Snapshot{}, ErrMissingFile
		}
		if err := s.validateMedia(req); err != nil {
			return nil, Snapshot{}, err
		}
		transcript, err := s.media.TranscribeAudio(ctx, req.Filename, req.Data)
		if err != nil {
			return nil, Snapshot{}, err
		}
		resp.Transcript = transcript
		resp.Filename = req.Filename

	case interview.ModalityVideo:
		if req.Filename == "" || len(req.Data) == 0 {
			return nil, Snapshot{}, ErrMissingFile
		}
		if err := s.validateMedia(req); err != nil {
			return nil, Snapshot{}, err
		}
		transcript, desc, err := s.media.ProcessVideo(ctx, req.Filename, req.Data)
		if err != nil {
			return nil, Snapshot{}, err
		}
		resp.Transcript = transcript
		resp.Filename = req.Filename
		descriptor = desc
	}

	question, ok := sess.CurrentQuestion()
	if !ok {
		return nil, Snapshot{}, interview.ErrNotInProgress
	}

	eval := s.evaluator.Evaluate(ctx, evaluator.Input{
		Question:        question,
		Answer:          resp.AnswerText(),
		InterviewType:   sess.Type,
		Difficulty:      sess.Difficulty,
		Modality:        req.Modality,
		VideoDescriptor: descriptor,
	})

	if err := sess.SubmitResponse(resp, eval); err != nil {
		return nil, Snapshot{}, err
	}

	outcome := "ok"
	if eval.Degraded {
		outcome = "degraded"
	}
	metrics.ResponsesEvaluated.WithLabelValues(string(req.Modality), outcome).Inc()
	metrics.EvaluationDuration.WithLabelValues(string(req.Modality)).Observe(time.Since(started).Seconds())

	if sess.State() == interview.StateCompleted {
		metrics.InterviewsCompleted.Inc()
		s.archiveCompleted(ctx, sess)
	}

	return eval, snapshot(sess), nil
}

// Results returns the per-question outcome of a session.
type Results struct {
	ID           string           `json:"id"`
	State        interview.State  `json:"state"`
	AverageScore int              `json:"average_score"`
	Items        []QuestionResult `json:"items"`
}

type QuestionResult struct {
	Question   interview.Question          `json:"question"`
	Response   *interview.Response         `json:"response,omitempty"`
	Evaluation *interview.EvaluationResult `json:"evaluation,omitempty"`
}

func (s *InterviewService) Results(id string) (Results, error) {
	entry, err := s.entry(id)
	if err != nil {
		return Results{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	sess := entry.sess

	res := Results{
		ID:           sess.ID,
		State:        sess.State(),
		AverageScore: sess.AverageScore(),
		Items:        make([]QuestionResult, 0, len(sess.Questions)),
	}
	for _, q := range sess.Questions {
		item := QuestionResult{Question: q}
		if resp, ok := sess.Responses[q.ID]; ok {
			r := resp
			item.Response = &r
			item.Evaluation = sess.Evaluations[q.ID]
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}

// Reset discards everything in the session and returns it to NotStarted.
func (s *InterviewService) Reset(id string) (Snapshot, error) {
	entry, err := s.entry(id)
	if err != nil {
		return Snapshot{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.sess.Reset()
	s.logger.Info("interview reset", "interview_id", id)
	return snapshot(entry.sess), nil
}

func (s *InterviewService) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

func (s *InterviewService) validateMedia(req SubmitRequest) error {
	err := s.media.Validate(req.Filename, int64(len(req.Data)), req.Modality)
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, media.ErrUnsupportedFormat):
		metrics.MediaRejected.WithLabelValues("format").Inc()
	case errors.Is(err, media.ErrFileTooLarge):
		metrics.MediaRejected.WithLabelValues("size").Inc()
	}
	return err
}

// archiveCompleted writes the finished interview to the archive. Archive
// failures are logged, never surfaced: the candidate already has the result.
func (s *InterviewService) archiveCompleted(ctx context.Context, sess *interview.Session) {
	if s.archive == nil {
		return
	}
	if err := s.archive.ArchiveSession(ctx, sess); err != nil {
		s.logger.Error("failed to archive interview", "interview_id", sess.ID, "error", err)
		return
	}
	s.logger.Info("interview archived", "interview_id", sess.ID, "average_score", sess.AverageScore())
}

func snapshot(sess *interview.Session) Snapshot {
	answered, total := sess.Progress()
	return Snapshot{
		ID:                sess.ID,
		Type:              sess.Type,
		Difficulty:        sess.Difficulty,
		State:             sess.State(),
		Questions:         sess.Questions,
		CurrentIndex:      sess.CurrentIndex,
		Answered:          answered,
		Total:             total,
		FallbackQuestions: sess.FallbackQuestions,
	}
}
