// Package questionbank holds the static question bank used when live
// question generation fails. The interview still starts; the session is
// simply marked as running on fallback questions.
package questionbank

import (
	"github.com/google/uuid"

	"github.com/interviewlab/backend/internal/domain/interview"
)

// banks maps an interview type to its canned questions. Types without a
// bank fall back to the behavioral set, which works for any interview.
var banks = map[string][]string{
	"Technical - Software Engineering": {
		"Explain the difference between abstract classes and interfaces.",
		"How would you design a URL shortening service like bit.ly?",
		"What is the time complexity of common sorting algorithms?",
		"Describe your experience with version control systems.",
		"How do you approach debugging a complex issue in production?",
	},
	"Technical - Data Science": {
		"Explain the bias-variance tradeoff.",
		"How do you handle missing data in a dataset?",
		"Describe a machine learning project you worked on end to end.",
		"What is the difference between supervised and unsupervised learning?",
		"How would you evaluate a classification model?",
	},
	"Behavioral": {
		"Tell me about a time when you faced a significant challenge at work.",
		"Describe a situation where you had to work with a difficult team member.",
		"Give an example of when you showed leadership skills.",
		"Tell me about a project you're particularly proud of.",
		"How do you handle tight deadlines and pressure?",
	},
	"Leadership": {
		"How do you motivate a team that's falling behind on deliverables?",
		"Describe your leadership style.",
		"Tell me about a time you had to make an unpopular decision.",
		"How do you handle conflicts between team members?",
		"What's your approach to delegating tasks?",
	},
	"Product Management": {
		"How do you prioritize features on a product roadmap?",
		"Describe how you would launch a product in a new market.",
		"Tell me about a product decision you made based on data.",
		"How do you balance stakeholder requests against user needs?",
		"Walk me through how you would sunset a failing feature.",
	},
}

const defaultBank = "Behavioral"

// Questions returns up to n fallback questions for the given interview type
// and difficulty. Each call mints fresh question IDs so sessions never share
// question identity.
func Questions(interviewType, difficulty string, n int) []interview.Question {
	texts, ok := banks[interviewType]
	if !ok {
		texts = banks[defaultBank]
	}
	if n > len(texts) {
		n = len(texts)
	}
	if n < 0 {
		n = 0
	}

	questions := make([]interview.Question, 0, n)
	for _, text := range texts[:n] {
		questions = append(questions, interview.Question{
			ID:         uuid.NewString(),
			Text:       text,
			Category:   interviewType,
			Difficulty: difficulty,
		})
	}
	return questions
}
