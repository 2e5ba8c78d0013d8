package model

import "time"

// SubmittedAnswer is one {questionId, answerChosen} pair as sent by the
// client; AnswerChosen is an index into the question's options.
type SubmittedAnswer struct {
	QuestionID   string `json:"questionId"`
	AnswerChosen int    `json:"answerChosen"`
}

// QuizAttempt is one scored submission record. Attempts are append-only:
// repeated submissions for the same quiz each create a new row, and review
// resolves ambiguity by taking the most recent one.
type QuizAttempt struct {
	ID          string            `json:"id"`
	QuizID      string            `json:"quiz_id"`
	UserID      string            `json:"user_id"`
	StartTimeMs int64             `json:"startTime"` // as reported by the submitter
	EndTimeMs   int64             `json:"endTime"`
	Answers     []SubmittedAnswer `json:"answers"`
	Score       int               `json:"score"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AttemptRecordedEvent is the payload pushed to the stats queue after an
// attempt row commits.
type AttemptRecordedEvent struct {
	UserID     string `json:"user_id"`
	QuizID     string `json:"quiz_id"`
	Score      int    `json:"score"`
	Percentage int    `json:"percentage"`
	Expired    bool   `json:"expired"`
}
