package model

import "time"

type SubmissionStatus string

const (
	StatusSolved SubmissionStatus = "solved"
	StatusFailed SubmissionStatus = "failed"
)

const (
	// VerdictAccepted is the only judge status description counted as solved.
	VerdictAccepted = "Accepted"
	// VerdictUnknown is reported when the judge response has no status description.
	VerdictUnknown = "Failed"

	SolvedScore = 100
	FailedScore = 0
)

// Submission is an append-only record of one judged attempt.
type Submission struct {
	ID         string           `json:"id"`
	StudentID  string           `json:"student_id"`
	ContestID  string           `json:"contest_id"`
	QuestionID string           `json:"question_id"`
	Code       string           `json:"code"`
	Language   Language         `json:"language"`
	Status     SubmissionStatus `json:"status"`
	Score      int              `json:"score"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ClassifyVerdict maps a judge status description to a submission status.
// Anything other than an exact "Accepted" is a failure.
func ClassifyVerdict(description string) SubmissionStatus {
	if description == VerdictAccepted {
		return StatusSolved
	}
	return StatusFailed
}

// ScoreFor is the whole scoring policy: no partial credit.
func ScoreFor(status SubmissionStatus) int {
	if status == StatusSolved {
		return SolvedScore
	}
	return FailedScore
}
