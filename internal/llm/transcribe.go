package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// TranscriptionError is returned when speech-to-text fails. Unlike
// completion failures it is surfaced to the caller: there is no answer
// content to score without a transcript.
type TranscriptionError struct {
	Reason  string
	Wrapped error
}

func (e *TranscriptionError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("transcription failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("transcription failed: %s", e.Reason)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Wrapped
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends an audio file to the hosted speech-to-text endpoint and
// returns the transcript. The filename's extension tells the endpoint the
// container format.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", &TranscriptionError{Reason: "failed to build upload form", Wrapped: err}
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", &TranscriptionError{Reason: "failed to read audio", Wrapped: err}
	}
	if err := form.WriteField("model", c.transcribeModel); err != nil {
		return "", &TranscriptionError{Reason: "failed to build upload form", Wrapped: err}
	}
	if err := form.Close(); err != nil {
		return "", &TranscriptionError{Reason: "failed to build upload form", Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", &TranscriptionError{Reason: "failed to create request", Wrapped: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TranscriptionError{Reason: "endpoint unreachable", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &TranscriptionError{Reason: fmt.Sprintf("endpoint returned status %d", resp.StatusCode)}
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", &TranscriptionError{Reason: "failed to decode response", Wrapped: err}
	}
	if tr.Text == "" {
		return "", &TranscriptionError{Reason: "empty transcript"}
	}
	return tr.Text, nil
}
