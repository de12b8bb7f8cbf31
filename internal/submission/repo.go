package submission

import "context"

// Store is the submission engine's surface. Submit grades and persists one
// attempt atomically; the read methods are scoped to the requesting user,
// except Summary, which the caller must gate behind an analytics
// permission before invoking.
type Store interface {
	Submit(ctx context.Context, quizID, userID string, answers []AnswerInput) (Submission, error)
	ListByQuiz(ctx context.Context, quizID, userID string) ([]Submission, error)
	ListByUser(ctx context.Context, userID string) ([]Submission, error)
	Get(ctx context.Context, id, userID string) (Submission, error)
	Summary(ctx context.Context, quizID string) (Summary, error)
}
