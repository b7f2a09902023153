package interview

// Modality is the format of a submitted answer.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
	ModalityVideo Modality = "video"
)

// Valid reports whether m is one of the known modalities.
func (m Modality) Valid() bool {
	switch m {
	case ModalityText, ModalityAudio, ModalityVideo:
		return true
	}
	return false
}

// Evaluation criterion names. The set applied to an answer depends on its
// modality: content quality and communication always, vocal delivery for
// audio and video, body language for video only.
const (
	CriterionContentQuality = "content_quality"
	CriterionCommunication  = "communication"
	CriterionVocalDelivery  = "vocal_delivery"
	CriterionBodyLanguage   = "body_language"
)

// Question is a single generated (or fallback) interview question.
// Immutable after the session starts.
type Question struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Response is a candidate's answer to one question.
type Response struct {
	QuestionID string   `json:"question_id"`
	Modality   Modality `json:"modality"`
	// Text holds the typed answer for text responses.
	Text string `json:"text,omitempty"`
	// Transcript holds the speech-to-text output for audio/video responses.
	Transcript string `json:"transcript,omitempty"`
	// Filename is the uploaded file's name for audio/video responses.
	Filename string `json:"filename,omitempty"`
}

// AnswerText returns the text that was actually evaluated: the typed answer
// for text responses, the transcript otherwise.
func (r Response) AnswerText() string {
	if r.Modality == ModalityText {
		return r.Text
	}
	return r.Transcript
}

// CriterionScore is one scored evaluation axis.
type CriterionScore struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`  // 0-100
	Weight float64 `json:"weight"` // 0-1; weights applied to one answer sum to 1
}

// EvaluationResult is the full evaluation of a single response.
// Created once per response and never mutated afterwards.
type EvaluationResult struct {
	OverallScore int              `json:"overall_score"` // 0-100, rounded half up
	Criteria     []CriterionScore `json:"criteria"`
	FeedbackText string           `json:"feedback_text"`
	Strengths    []string         `json:"strengths"`
	Improvements []string         `json:"improvements"`
	Tips         []string         `json:"tips"`
	// Degraded marks an evaluation built from fallback constants after the
	// completion endpoint failed. Degraded results still count and still
	// advance the interview.
	Degraded bool `json:"degraded"`
}
