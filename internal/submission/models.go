package submission

import "github.com/coursedeck/coursedeck-lms/internal/lms"

// Submission is one learner's complete graded attempt at a quiz. It is the
// aggregate root for its answers: answer rows are created with it in one
// transaction and are never reachable except through their parent.
type Submission struct {
	ID        string    `json:"id"`
	QuizID    string    `json:"quiz_id"`
	UserID    string    `json:"user_id"`
	Score     float64   `json:"score"`
	CreatedAt int64     `json:"created_at"`
	Answers   []Answer  `json:"answers,omitempty"`
	Quiz      *lms.Quiz `json:"quiz,omitempty"`
}

// Answer records the learner's raw input for one question plus the computed
// verdict. IsCorrect is nil when the question had no deterministic
// correctness for this input (unresolvable choice, ungraded essay).
type Answer struct {
	ID           string `json:"id"`
	SubmissionID string `json:"quiz_submission_id"`
	QuestionID   string `json:"question_id"`
	ChoiceID     string `json:"choice_id,omitempty"`
	AnswerText   string `json:"answer_text,omitempty"`
	IsCorrect    *bool  `json:"is_correct"`
}

// AnswerInput is one entry of the caller-supplied answer batch, in the
// caller's order.
type AnswerInput struct {
	QuestionID string `json:"question_id" validate:"required"`
	ChoiceID   string `json:"choice_id"`
	AnswerText string `json:"answer_text"`
}

// Summary aggregates historical submissions for a quiz. AverageScore is nil
// when the quiz has no submissions.
type Summary struct {
	TotalSubmissions int      `json:"total_submissions"`
	AverageScore     *float64 `json:"average_score"`
}
