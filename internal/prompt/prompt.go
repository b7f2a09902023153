// Package prompt renders the prompts sent to the completion endpoint.
// Builders are pure string templating; the only failure mode is a caller
// asking for an out-of-range question count.
package prompt

import (
	"fmt"
	"strings"
	"unicode"
)

// Builder renders question-generation and evaluation prompts.
type Builder struct {
	maxQuestions int
}

// NewBuilder creates a Builder. maxQuestions bounds QuestionPrompt's count.
func NewBuilder(maxQuestions int) *Builder {
	return &Builder{maxQuestions: maxQuestions}
}

// System messages paired with each prompt kind.
const (
	SystemInterviewer = "You are an expert technical and behavioral interviewer with years of experience."
	SystemEvaluator   = "You are an expert interview evaluator. Provide honest, constructive feedback."
	SystemSpeechCoach = "You are a speech and communication expert."
)

// QuestionPrompt builds the question-generation prompt.
func (b *Builder) QuestionPrompt(interviewType, difficulty string, count int) (string, error) {
	if count < 1 || count > b.maxQuestions {
		return "", fmt.Errorf("question count %d outside [1,%d]", count, b.maxQuestions)
	}

	return fmt.Sprintf(`You are an expert interviewer. Generate %d realistic interview questions for a %s position at the %s level.

Requirements:
- Questions should be realistic and commonly asked in actual interviews
- Vary difficulty appropriately for the level
- Include a mix of question types (technical, behavioral, situational as appropriate)
- Format as a numbered list

Generate the questions now:`, count, interviewType, difficulty), nil
}

// EvaluationPrompt builds the content-evaluation prompt for an answer.
// The answer is the typed text for text responses, the transcript otherwise.
func (b *Builder) EvaluationPrompt(question, answer, interviewType, difficulty string) string {
	return fmt.Sprintf(`You are an expert interview evaluator. Evaluate the following interview response:

Question: %s
Candidate's Answer: %s
Interview Type: %s
Level: %s

Evaluate on these criteria:
1. Content Quality: accuracy, relevance, and depth of the answer
2. Communication: clarity, structure, and articulation

Provide:
1. Individual scores (0-100) for each criterion
2. Brief feedback for each criterion
3. Key strengths (2-3 points)
4. Areas for improvement (2-3 points)
5. One specific actionable tip

Respond with ONLY this JSON — no explanation, no markdown:
{
    "scores": {
        "content_quality": <score>,
        "communication": <score>
    },
    "feedback": {
        "content_quality": "<feedback>",
        "communication": "<feedback>"
    },
    "strengths": ["<strength1>", "<strength2>"],
    "improvements": ["<improvement1>", "<improvement2>"],
    "actionable_tip": "<specific tip>"
}`, question, answer, interviewType, difficulty)
}

// VocalPrompt builds the vocal-delivery prompt over a transcript.
func (b *Builder) VocalPrompt(transcript, interviewType string) string {
	return fmt.Sprintf(`Analyze the audio characteristics of this interview response:

Transcript: %s
Interview Type: %s

Evaluate:
1. Speaking pace and rhythm
2. Voice clarity and articulation
3. Filler words usage (um, uh, like, etc.)
4. Tone and energy level
5. Professional communication style

Respond with ONLY this JSON — no explanation, no markdown:
{
    "vocal_score": <score 0-100>,
    "pace_feedback": "<feedback>",
    "clarity_feedback": "<feedback>",
    "tone_feedback": "<feedback>"
}`, transcript, interviewType)
}

// BodyLanguagePrompt builds the body-language prompt over a video descriptor.
func (b *Builder) BodyLanguagePrompt(descriptor string) string {
	return fmt.Sprintf(`You are analyzing a candidate's body language and non-verbal communication during an interview response.

Based on the video analysis data provided:
%s

Evaluate the candidate's:
1. Posture and body positioning
2. Facial expressions and eye contact
3. Hand gestures and body movements
4. Overall professional presence

Respond with ONLY this JSON — no explanation, no markdown:
{
    "body_language_score": <score 0-100>,
    "posture_feedback": "<feedback>",
    "gesture_feedback": "<feedback>",
    "overall_presence": "<feedback>"
}`, descriptor)
}

// ParseNumberedList extracts the items of a numbered list ("1. ..." or
// "1) ...") from model output, capped at max. Unnumbered lines are ignored.
func ParseNumberedList(text string, max int) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		item, ok := stripNumberedPrefix(trimmed)
		if !ok || item == "" {
			continue
		}
		items = append(items, item)
		if len(items) == max {
			break
		}
	}
	return items
}

// stripNumberedPrefix removes a leading "1. " or "1) " style prefix.
// Operates on runes for UTF-8 safety.
func stripNumberedPrefix(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) < 3 || !unicode.IsDigit(runes[0]) {
		return "", false
	}

	for i, r := range runes {
		if r == '.' || r == ')' {
			if i+1 < len(runes) {
				return strings.TrimSpace(string(runes[i+1:])), true
			}
			return "", false
		}
		if !unicode.IsDigit(r) {
			return "", false
		}
	}
	return "", false
}
