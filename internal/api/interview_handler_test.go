package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/interviewlab/backend/internal/api"
	"github.com/interviewlab/backend/internal/domain/interview"
	"github.com/interviewlab/backend/internal/evaluator"
	"github.com/interviewlab/backend/internal/infrastructure/config"
	"github.com/interviewlab/backend/internal/service"
)

// ── Stubs ───────────────────────────────────────────────────────────────────

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, interviewType, difficulty string, count int) ([]interview.Question, error) {
	qs := make([]interview.Question, count)
	for i := range qs {
		qs[i] = interview.Question{ID: string(rune('a' + i)), Text: "Question"}
	}
	return qs, nil
}

type stubEvaluator struct{}

func (stubEvaluator) Evaluate(ctx context.Context, in evaluator.Input) *interview.EvaluationResult {
	return &interview.EvaluationResult{
		OverallScore: 72,
		Criteria: []interview.CriterionScore{
			{Name: interview.CriterionContentQuality, Value: 80, Weight: 0.6},
			{Name: interview.CriterionCommunication, Value: 60, Weight: 0.4},
		},
		FeedbackText: "Solid answer.",
	}
}

type stubMedia struct{}

func (stubMedia) Validate(filename string, size int64, modality interview.Modality) error {
	return nil
}

func (stubMedia) TranscribeAudio(ctx context.Context, filename string, data []byte) (string, error) {
	return "spoken answer", nil
}

func (stubMedia) ProcessVideo(ctx context.Context, filename string, data []byte) (string, string, error) {
	return "spoken answer", "duration 30s", nil
}

// ── Helpers ─────────────────────────────────────────────────────────────────

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg, err := config.LoadInterview("")
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewInterviewService(cfg, stubGenerator{}, stubEvaluator{}, stubMedia{}, nil, logger)
	handler := api.NewHandler(svc, nil, logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func startInterview(t *testing.T, server *httptest.Server, count int) service.Snapshot {
	t.Helper()
	resp := postJSON(t, server.URL+"/interviews", api.CreateInterviewRequest{
		InterviewType: "Behavioral",
		Difficulty:    "Mid Level",
		QuestionCount: count,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	return decode[service.Snapshot](t, resp)
}

// ── Tests ───────────────────────────────────────────────────────────────────

func TestGetCatalog(t *testing.T) {
	server := newServer(t)

	resp, err := http.Get(server.URL + "/catalog")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cat := decode[service.Catalog](t, resp)
	if len(cat.InterviewTypes) == 0 {
		t.Error("expected interview types in the catalog")
	}
}

func TestCreateInterview(t *testing.T) {
	server := newServer(t)

	snap := startInterview(t, server, 3)
	if snap.ID == "" || len(snap.Questions) != 3 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.State != interview.StateInProgress {
		t.Errorf("expected in progress, got %q", snap.State)
	}
}

func TestCreateInterview_Validation(t *testing.T) {
	server := newServer(t)

	resp := postJSON(t, server.URL+"/interviews", api.CreateInterviewRequest{
		InterviewType: "Astrology",
		Difficulty:    "Mid Level",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/interviews", map[string]string{"difficulty": "Mid Level"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing type, got %d", resp.StatusCode)
	}
}

func TestGetInterview_NotFound(t *testing.T) {
	server := newServer(t)

	resp, err := http.Get(server.URL + "/interviews/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSubmitResponse_TextJSON(t *testing.T) {
	server := newServer(t)
	snap := startInterview(t, server, 2)

	resp := postJSON(t, server.URL+"/interviews/"+snap.ID+"/responses", api.SubmitResponseRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   "text",
		Text:       "my answer",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	out := decode[api.SubmitResponseResponse](t, resp)
	if out.Evaluation == nil || out.Evaluation.OverallScore != 72 {
		t.Errorf("unexpected evaluation: %+v", out.Evaluation)
	}
	if out.Interview.Answered != 1 {
		t.Errorf("expected 1 answered, got %d", out.Interview.Answered)
	}
}

func TestSubmitResponse_Multipart(t *testing.T) {
	server := newServer(t)
	snap := startInterview(t, server, 2)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	form.WriteField("question_id", snap.Questions[0].ID)
	form.WriteField("modality", "audio")
	part, _ := form.CreateFormFile("file", "answer.mp3")
	part.Write([]byte("fake-audio"))
	form.Close()

	resp, err := http.Post(server.URL+"/interviews/"+snap.ID+"/responses", form.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	out := decode[api.SubmitResponseResponse](t, resp)
	if out.Evaluation == nil {
		t.Fatal("expected an evaluation")
	}
}

func TestSubmitResponse_MultipartWithoutFile(t *testing.T) {
	server := newServer(t)
	snap := startInterview(t, server, 2)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	form.WriteField("question_id", snap.Questions[0].ID)
	form.WriteField("modality", "audio")
	form.Close()

	resp, err := http.Post(server.URL+"/interviews/"+snap.ID+"/responses", form.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSubmitResponse_CompletedConflicts(t *testing.T) {
	server := newServer(t)
	snap := startInterview(t, server, 1)

	resp := postJSON(t, server.URL+"/interviews/"+snap.ID+"/responses", api.SubmitResponseRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   "text",
		Text:       "my answer",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/interviews/"+snap.ID+"/responses", api.SubmitResponseRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   "text",
		Text:       "again",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 after completion, got %d", resp.StatusCode)
	}
}

func TestResetInterview(t *testing.T) {
	server := newServer(t)
	snap := startInterview(t, server, 2)

	resp, err := http.Post(server.URL+"/interviews/"+snap.ID+"/reset", "application/json", strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	out := decode[service.Snapshot](t, resp)
	if out.State != interview.StateNotStarted {
		t.Errorf("expected not started, got %q", out.State)
	}
}

func TestGetResults(t *testing.T) {
	server := newServer(t)
	snap := startInterview(t, server, 2)

	resp := postJSON(t, server.URL+"/interviews/"+snap.ID+"/responses", api.SubmitResponseRequest{
		QuestionID: snap.Questions[0].ID,
		Modality:   "text",
		Text:       "my answer",
	})
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/interviews/" + snap.ID + "/results")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	res := decode[service.Results](t, resp)
	if len(res.Items) != 2 || res.AverageScore != 72 {
		t.Errorf("unexpected results: %+v", res)
	}
}

func TestHistory_DisabledWithoutArchive(t *testing.T) {
	server := newServer(t)

	resp, err := http.Get(server.URL + "/history")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
}
