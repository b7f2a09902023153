package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/interviewlab/backend/internal/domain/interview"
	"github.com/interviewlab/backend/internal/evaluator"
	"github.com/interviewlab/backend/internal/infrastructure/config"
	"github.com/interviewlab/backend/internal/media"
	"github.com/interviewlab/backend/internal/service"
)

// ── Stubs ───────────────────────────────────────────────────────────────────

type stubGenerator struct {
	questions []interview.Question
	err       error
}

func (g *stubGenerator) Generate(ctx context.Context, interviewType, difficulty string, count int) ([]interview.Question, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

type stubEvaluator struct {
	result *interview.EvaluationResult
	inputs []evaluator.Input
}

func (e *stubEvaluator) Evaluate(ctx context.Context, in evaluator.Input) *interview.EvaluationResult {
	e.inputs = append(e.inputs, in)
	r := *e.result
	return &r
}

type stubMedia struct {
	validateErr   error
	transcript    string
	transcribeErr error
	descriptor    string
}

func (m *stubMedia) Validate(filename string, size int64, modality interview.Modality) error {
	return m.validateErr
}

func (m *stubMedia) TranscribeAudio(ctx context.Context, filename string, data []byte) (string, error) {
	return m.transcript, m.transcribeErr
}

func (m *stubMedia) ProcessVideo(ctx context.Context, filename string, data []byte) (string, string, error) {
	return m.transcript, m.descriptor, m.transcribeErr
}

type recordingArchiver struct {
	archived []*interview.Session
	err      error
}

func (a *recordingArchiver) ArchiveSession(ctx context.Context, sess *interview.Session) error {
	if a.err != nil {
		return a.err
	}
	a.archived = append(a.archived, sess)
	return nil
}

// ── Helpers ─────────────────────────────────────────────────────────────────

func generatedQuestions(n int) []interview.Question {
	qs := make([]interview.Question, n)
	for i := range qs {
		qs[i] = interview.Question{
			ID:   string(rune('a' + i)),
			Text: "Question " + string(rune('A'+i)),
		}
	}
	return qs
}

func okEvaluation() *interview.EvaluationResult {
	return &interview.EvaluationResult{
		OverallScore: 72,
		Criteria: []interview.CriterionScore{
			{Name: interview.CriterionContentQuality, Value: 80, Weight: 0.6},
			{Name: interview.CriterionCommunication, Value: 60, Weight: 0.4},
		},
		FeedbackText: "Solid answer.",
	}
}

type deps struct {
	gen     *stubGenerator
	eval    *stubEvaluator
	media   *stubMedia
	archive *recordingArchiver
}

func newService(t *testing.T, d deps) *service.InterviewService {
	t.Helper()
	cfg, err := config.LoadInterview("")
	if err != nil {
		t.Fatal(err)
	}
	if d.gen == nil {
		d.gen = &stubGenerator{questions: generatedQuestions(2)}
	}
	if d.eval == nil {
		d.eval = &stubEvaluator{result: okEvaluation()}
	}
	if d.media == nil {
		d.media = &stubMedia{transcript: "spoken answer"}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var archive service.Archiver
	if d.archive != nil {
		archive = d.archive
	}
	return service.NewInterviewService(cfg, d.gen, d.eval, d.media, archive, logger)
}

func submitText(t *testing.T, svc *service.InterviewService, id, questionID string) (*interview.EvaluationResult, service.Snapshot) {
	t.Helper()
	eval, snap, err := svc.Submit(context.Background(), id, service.SubmitRequest{
		QuestionID: questionID,
		Modality:   interview.ModalityText,
		Text:       "my answer",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return eval, snap
}

// ── Tests ───────────────────────────────────────────────────────────────────

func TestStart_ValidatesCatalog(t *testing.T) {
	svc := newService(t, deps{})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "Astrology", "Mid Level", 0); !errors.Is(err, service.ErrUnknownInterviewType) {
		t.Errorf("expected ErrUnknownInterviewType, got %v", err)
	}
	if _, err := svc.Start(ctx, "Behavioral", "Impossible", 0); !errors.Is(err, service.ErrUnknownDifficulty) {
		t.Errorf("expected ErrUnknownDifficulty, got %v", err)
	}
	if _, err := svc.Start(ctx, "Behavioral", "Mid Level", 99); !errors.Is(err, service.ErrBadQuestionCount) {
		t.Errorf("expected ErrBadQuestionCount, got %v", err)
	}
}

func TestStart_UsesGeneratedQuestions(t *testing.T) {
	svc := newService(t, deps{gen: &stubGenerator{questions: generatedQuestions(3)}})

	snap, err := svc.Start(context.Background(), "Behavioral", "Mid Level", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != interview.StateInProgress {
		t.Errorf("expected in progress, got %q", snap.State)
	}
	if len(snap.Questions) != 3 {
		t.Errorf("expected 3 questions, got %d", len(snap.Questions))
	}
	if snap.FallbackQuestions {
		t.Error("expected generated questions, not fallback")
	}
}

func TestStart_FallsBackWhenGenerationFails(t *testing.T) {
	svc := newService(t, deps{gen: &stubGenerator{err: errors.New("model unreachable")}})

	snap, err := svc.Start(context.Background(), "Behavioral", "Mid Level", 3)
	if err != nil {
		t.Fatalf("start must not fail on generation errors: %v", err)
	}
	if !snap.FallbackQuestions {
		t.Error("expected fallback questions flag")
	}
	if len(snap.Questions) != 3 {
		t.Errorf("expected 3 fallback questions, got %d", len(snap.Questions))
	}
}

func TestSubmit_TextFlowToCompletion(t *testing.T) {
	archive := &recordingArchiver{}
	svc := newService(t, deps{archive: archive})

	snap, err := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)
	if err != nil {
		t.Fatal(err)
	}

	eval, snap2 := submitText(t, svc, snap.ID, snap.Questions[0].ID)
	if eval.OverallScore != 72 {
		t.Errorf("expected overall 72, got %d", eval.OverallScore)
	}
	if snap2.Answered != 1 || snap2.State != interview.StateInProgress {
		t.Errorf("unexpected snapshot after first answer: %+v", snap2)
	}

	_, snap3 := submitText(t, svc, snap.ID, snap.Questions[1].ID)
	if snap3.State != interview.StateCompleted {
		t.Errorf("expected completed, got %q", snap3.State)
	}
	if len(archive.archived) != 1 {
		t.Errorf("expected 1 archived interview, got %d", len(archive.archived))
	}
}

func TestSubmit_EmptyTextRejected(t *testing.T) {
	svc := newService(t, deps{})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)

	_, _, err := svc.Submit(context.Background(), snap.ID, service.SubmitRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   interview.ModalityText,
	})
	if !errors.Is(err, service.ErrEmptyAnswer) {
		t.Errorf("expected ErrEmptyAnswer, got %v", err)
	}
}

func TestSubmit_UnknownSession(t *testing.T) {
	svc := newService(t, deps{})

	_, _, err := svc.Submit(context.Background(), "nope", service.SubmitRequest{
		QuestionID: "a",
		Modality:   interview.ModalityText,
		Text:       "hi",
	})
	if !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmit_WrongQuestionDoesNotAdvance(t *testing.T) {
	svc := newService(t, deps{})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)

	_, _, err := svc.Submit(context.Background(), snap.ID, service.SubmitRequest{
		QuestionID: snap.Questions[1].ID,
		Modality:   interview.ModalityText,
		Text:       "skipping",
	})
	if !errors.Is(err, interview.ErrQuestionMismatch) {
		t.Errorf("expected ErrQuestionMismatch, got %v", err)
	}

	got, _ := svc.Get(snap.ID)
	if got.CurrentIndex != 0 || got.Answered != 0 {
		t.Errorf("rejected submit mutated the session: %+v", got)
	}
}

func TestSubmit_AudioUsesTranscript(t *testing.T) {
	eval := &stubEvaluator{result: okEvaluation()}
	svc := newService(t, deps{eval: eval, media: &stubMedia{transcript: "transcribed words"}})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)

	_, _, err := svc.Submit(context.Background(), snap.ID, service.SubmitRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   interview.ModalityAudio,
		Filename:   "answer.mp3",
		Data:       []byte("fake-audio"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eval.inputs) != 1 || eval.inputs[0].Answer != "transcribed words" {
		t.Errorf("evaluator did not receive the transcript: %+v", eval.inputs)
	}
}

func TestSubmit_AudioRequiresFile(t *testing.T) {
	svc := newService(t, deps{})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)

	_, _, err := svc.Submit(context.Background(), snap.ID, service.SubmitRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   interview.ModalityAudio,
	})
	if !errors.Is(err, service.ErrMissingFile) {
		t.Errorf("expected ErrMissingFile, got %v", err)
	}
}

func TestSubmit_MediaValidationShortCircuits(t *testing.T) {
	eval := &stubEvaluator{result: okEvaluation()}
	svc := newService(t, deps{
		eval:  eval,
		media: &stubMedia{validateErr: media.ErrUnsupportedFormat},
	})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)

	_, _, err := svc.Submit(context.Background(), snap.ID, service.SubmitRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   interview.ModalityAudio,
		Filename:   "answer.txt",
		Data:       []byte("x"),
	})
	if !errors.Is(err, media.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if len(eval.inputs) != 0 {
		t.Error("evaluation must not run for rejected media")
	}

	got, _ := svc.Get(snap.ID)
	if got.Answered != 0 {
		t.Error("rejected media advanced the session")
	}
}

func TestSubmit_VideoPassesDescriptor(t *testing.T) {
	eval := &stubEvaluator{result: okEvaluation()}
	svc := newService(t, deps{
		eval:  eval,
		media: &stubMedia{transcript: "video words", descriptor: "duration 30s, 720p"},
	})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)

	_, _, err := svc.Submit(context.Background(), snap.ID, service.SubmitRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   interview.ModalityVideo,
		Filename:   "answer.mp4",
		Data:       []byte("fake-video"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.inputs[0].VideoDescriptor != "duration 30s, 720p" {
		t.Errorf("descriptor not passed: %+v", eval.inputs[0])
	}
}

func TestSubmit_DegradedEvaluationStillAdvances(t *testing.T) {
	degraded := &interview.EvaluationResult{
		OverallScore: 70,
		Criteria: []interview.CriterionScore{
			{Name: interview.CriterionContentQuality, Value: 70, Weight: 0.6},
			{Name: interview.CriterionCommunication, Value: 70, Weight: 0.4},
		},
		Degraded: true,
	}
	svc := newService(t, deps{eval: &stubEvaluator{result: degraded}})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)

	eval, snap2 := submitText(t, svc, snap.ID, snap.Questions[0].ID)
	if !eval.Degraded {
		t.Error("expected degraded evaluation")
	}
	if snap2.Answered != 1 {
		t.Error("degraded evaluation must still advance the interview")
	}
}

func TestSessions_AreIsolated(t *testing.T) {
	svc := newService(t, deps{})
	ctx := context.Background()

	a, _ := svc.Start(ctx, "Behavioral", "Mid Level", 2)
	b, _ := svc.Start(ctx, "Leadership", "Senior Level", 2)

	submitText(t, svc, a.ID, a.Questions[0].ID)

	gotB, err := svc.Get(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotB.Answered != 0 || gotB.State != interview.StateInProgress {
		t.Errorf("session B affected by session A: %+v", gotB)
	}
}

func TestReset_ReturnsToNotStarted(t *testing.T) {
	svc := newService(t, deps{})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)
	submitText(t, svc, snap.ID, snap.Questions[0].ID)

	got, err := svc.Reset(snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != interview.StateNotStarted || got.Answered != 0 || got.Total != 0 {
		t.Errorf("unexpected snapshot after reset: %+v", got)
	}
}

func TestResults_ListsEveryQuestion(t *testing.T) {
	svc := newService(t, deps{})
	snap, _ := svc.Start(context.Background(), "Behavioral", "Mid Level", 2)
	submitText(t, svc, snap.ID, snap.Questions[0].ID)

	res, err := svc.Results(snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	if res.Items[0].Evaluation == nil {
		t.Error("answered question missing its evaluation")
	}
	if res.Items[1].Evaluation != nil || res.Items[1].Response != nil {
		t.Error("unanswered question must have no response or evaluation")
	}
	if res.AverageScore != 72 {
		t.Errorf("expected average 72, got %d", res.AverageScore)
	}
}

func TestCatalog_MirrorsConfig(t *testing.T) {
	svc := newService(t, deps{})

	cat := svc.Catalog()
	if len(cat.InterviewTypes) == 0 || len(cat.DifficultyLevels) == 0 {
		t.Error("catalog missing types or levels")
	}
	if cat.MaxAudioSizeMB != 25 || cat.MaxVideoSizeMB != 100 {
		t.Errorf("unexpected media ceilings: %+v", cat)
	}
	if cat.DefaultQuestions < 1 || cat.DefaultQuestions > cat.MaxQuestions {
		t.Errorf("inconsistent question bounds: %+v", cat)
	}
}
