package model

import "time"

type Testcase struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	IsHidden   bool      `json:"is_hidden"`
	CreatedAt  time.Time `json:"created_at"`
}
