package model

import (
	"time"
)

type Question struct {
	ID           string    `json:"id"`
	ContestID    string    `json:"contest_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Difficulty   *string   `json:"difficulty"`
	Points       *int      `json:"points"`
	SampleInput  string    `json:"sample_input"`
	SampleOutput string    `json:"sample_output"`
	HiddenInput  *string   `json:"hidden_input"`
	HiddenOutput *string   `json:"hidden_output"`
	StarterCode  *string   `json:"starter_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuestionSummary is what a student sees in a contest's question list.
type QuestionSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StudentQuestion is the student-facing shape of a single question.
// Hidden test data never leaves the server through this type.
type StudentQuestion struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Difficulty   *string `json:"difficulty"`
	Points       *int    `json:"points"`
	SampleInput  string  `json:"sampleInput"`
	SampleOutput string  `json:"sampleOutput"`
	StarterCode  *string `json:"starterCode"`
}

func (q *Question) Summary() QuestionSummary {
	return QuestionSummary{ID: q.ID, Title: q.Title, Description: q.Description}
}

func (q *Question) StudentView() StudentQuestion {
	return StudentQuestion{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		Difficulty:   q.Difficulty,
		Points:       q.Points,
		SampleInput:  q.SampleInput,
		SampleOutput: q.SampleOutput,
		StarterCode:  q.StarterCode,
	}
}
