package model

import "time"

// Quiz binds a fixed selection of question ids to one owning user and a
// start/end window. Rows are immutable after creation; attempts accumulate
// separately in quiz_attempts.
type Quiz struct {
	ID                string    `json:"id"`
	Slug              string    `json:"slug"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	UserID            string    `json:"user_id"`
	StartTimeMs       int64     `json:"startTime"`
	EndTimeMs         int64     `json:"endTime"`
	SelectedQuestions []string  `json:"selected_questions"`
	CreatedAt         time.Time `json:"created_at"`
}

// QuizSummary is the per-quiz row of the owner's quiz list, joined with the
// best attempt score so far.
type QuizSummary struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartTimeMs   int64  `json:"startTime"`
	EndTimeMs     int64  `json:"endTime"`
	QuestionCount int    `json:"question_count"`
	BestScore     *int   `json:"score"` // nil when the quiz has no attempts
}
