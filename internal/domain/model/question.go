package model

// Question is shared pool reference data. Rows are written once by the
// administrative pool push and never mutated afterwards.
type Question struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // index into Options
}
