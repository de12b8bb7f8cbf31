package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coursedeck/coursedeck-lms/internal/grading"
	"github.com/coursedeck/coursedeck-lms/internal/lms"
)

type SQLStore struct {
	db       *sql.DB
	resolver *grading.Resolver
}

func NewSQLStore(db *sql.DB, resolver *grading.Resolver) *SQLStore {
	return &SQLStore{db: db, resolver: resolver}
}

// Submit grades the answer batch and persists header + answer rows in a
// single transaction. Any failure mid-batch rolls everything back: callers
// observe either a fully graded submission or nothing.
func (s *SQLStore) Submit(ctx context.Context, quizID, userID string, answers []AnswerInput) (Submission, error) {
	if len(answers) == 0 {
		return Submission{}, fmt.Errorf("answers must not be empty: %w", lms.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Submission{}, &lms.StorageError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, quizID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, lms.NotFoundf("quiz")
		}
		return Submission{}, &lms.StorageError{Op: "quiz lookup", Err: err}
	}

	sub := Submission{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		UserID:    userID,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quiz_submissions (id,quiz_id,user_id,score,created_at) VALUES ($1,$2,$3,0,$4)`,
		sub.ID, sub.QuizID, sub.UserID, sub.CreatedAt); err != nil {
		return Submission{}, &lms.StorageError{Op: "insert submission", Err: err}
	}

	for i, in := range answers {
		q, err := questionForGrading(ctx, tx, in.QuestionID)
		if err != nil {
			return Submission{}, err
		}
		verdict, err := s.resolver.Evaluate(q, grading.Answer{ChoiceID: in.ChoiceID, Text: in.AnswerText})
		if err != nil {
			return Submission{}, err
		}

		a := Answer{
			ID:           uuid.NewString(),
			SubmissionID: sub.ID,
			QuestionID:   q.ID,
			ChoiceID:     in.ChoiceID,
			AnswerText:   in.AnswerText,
		}
		var isCorrect sql.NullBool
		if verdict.Known {
			isCorrect = sql.NullBool{Bool: verdict.Correct, Valid: true}
			a.IsCorrect = &verdict.Correct
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO submission_answers (id,quiz_submission_id,question_id,choice_id,answer_text,is_correct,ord)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			a.ID, a.SubmissionID, a.QuestionID, nullStr(a.ChoiceID), a.AnswerText, isCorrect, i); err != nil {
			return Submission{}, &lms.StorageError{Op: "insert answer", Err: err}
		}
		sub.Answers = append(sub.Answers, a)
	}

	// Score from the persisted rows, not from a running counter.
	var correct int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submission_answers WHERE quiz_submission_id=$1 AND is_correct`,
		sub.ID).Scan(&correct); err != nil {
		return Submission{}, &lms.StorageError{Op: "count correct", Err: err}
	}
	if total := len(answers); total > 0 {
		sub.Score = float64(correct) / float64(total) * 100
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE quiz_submissions SET score=$1 WHERE id=$2`, sub.Score, sub.ID); err != nil {
		return Submission{}, &lms.StorageError{Op: "update score", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return Submission{}, &lms.StorageError{Op: "commit", Err: err}
	}
	return sub, nil
}

// ListByQuiz returns the user's own submissions for a quiz.
func (s *SQLStore) ListByQuiz(ctx context.Context, quizID, userID string) ([]Submission, error) {
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, quizID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, lms.NotFoundf("quiz")
		}
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,quiz_id,user_id,score,created_at FROM quiz_submissions
		 WHERE quiz_id=$1 AND user_id=$2 ORDER BY created_at DESC, id`, quizID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

// ListByUser returns all of the user's submissions across quizzes, each
// carrying its parent quiz.
func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id,s.quiz_id,s.user_id,s.score,s.created_at,
		        q.id,q.course_id,q.title,q.description,q.created_at
		 FROM quiz_submissions s JOIN quizzes q ON q.id=s.quiz_id
		 WHERE s.user_id=$1 ORDER BY s.created_at DESC, s.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Submission{}
	for rows.Next() {
		var sub Submission
		var quiz lms.Quiz
		if err := rows.Scan(&sub.ID, &sub.QuizID, &sub.UserID, &sub.Score, &sub.CreatedAt,
			&quiz.ID, &quiz.CourseID, &quiz.Title, &quiz.Description, &quiz.CreatedAt); err != nil {
			return nil, err
		}
		sub.Quiz = &quiz
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Get returns one submission with its ordered answers. Ownership is the
// sole visibility rule here; there is no admin bypass in this layer.
func (s *SQLStore) Get(ctx context.Context, id, userID string) (Submission, error) {
	var sub Submission
	err := s.db.QueryRowContext(ctx,
		`SELECT id,quiz_id,user_id,score,created_at FROM quiz_submissions WHERE id=$1`, id).
		Scan(&sub.ID, &sub.QuizID, &sub.UserID, &sub.Score, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, lms.NotFoundf("submission")
	}
	if err != nil {
		return Submission{}, err
	}
	if sub.UserID != userID {
		return Submission{}, lms.ErrUnauthorized
	}

	var quiz lms.Quiz
	err = s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,description,created_at FROM quizzes WHERE id=$1`, sub.QuizID).
		Scan(&quiz.ID, &quiz.CourseID, &quiz.Title, &quiz.Description, &quiz.CreatedAt)
	if err == nil {
		sub.Quiz = &quiz
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Submission{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id,quiz_submission_id,question_id,choice_id,answer_text,is_correct
		 FROM submission_answers WHERE quiz_submission_id=$1 ORDER BY ord`, id)
	if err != nil {
		return Submission{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var a Answer
		var choiceID sql.NullString
		var isCorrect sql.NullBool
		if err := rows.Scan(&a.ID, &a.SubmissionID, &a.QuestionID, &choiceID, &a.AnswerText, &isCorrect); err != nil {
			return Submission{}, err
		}
		a.ChoiceID = choiceID.String
		if isCorrect.Valid {
			v := isCorrect.Bool
			a.IsCorrect = &v
		}
		sub.Answers = append(sub.Answers, a)
	}
	return sub, rows.Err()
}

// Summary aggregates the quiz's submissions. AVG over zero rows is NULL,
// which surfaces as a nil AverageScore rather than a divide-by-zero.
func (s *SQLStore) Summary(ctx context.Context, quizID string) (Summary, error) {
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, quizID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Summary{}, lms.NotFoundf("quiz")
		}
		return Summary{}, err
	}
	var sum Summary
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(score) FROM quiz_submissions WHERE quiz_id=$1`, quizID).
		Scan(&sum.TotalSubmissions, &avg)
	if err != nil {
		return Summary{}, err
	}
	if avg.Valid {
		sum.AverageScore = &avg.Float64
	}
	return sum, nil
}

func questionForGrading(ctx context.Context, tx *sql.Tx, id string) (lms.Question, error) {
	var q lms.Question
	var answer sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT id,quiz_id,type,question_text,answer FROM questions WHERE id=$1`, id).
		Scan(&q.ID, &q.QuizID, &q.Type, &q.QuestionText, &answer)
	if errors.Is(err, sql.ErrNoRows) {
		return lms.Question{}, lms.NotFoundf("question %s", id)
	}
	if err != nil {
		return lms.Question{}, &lms.StorageError{Op: "question lookup", Err: err}
	}
	q.Answer = answer.String

	rows, err := tx.QueryContext(ctx,
		`SELECT id,question_id,choice_text,is_correct FROM choices WHERE question_id=$1 ORDER BY id`, id)
	if err != nil {
		return lms.Question{}, &lms.StorageError{Op: "choices lookup", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var c lms.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.IsCorrect); err != nil {
			return lms.Question{}, &lms.StorageError{Op: "choices scan", Err: err}
		}
		q.Choices = append(q.Choices, c)
	}
	if err := rows.Err(); err != nil {
		return lms.Question{}, &lms.StorageError{Op: "choices scan", Err: err}
	}
	return q, nil
}

func scanSubmissions(rows *sql.Rows) ([]Submission, error) {
	out := []Submission{}
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.QuizID, &sub.UserID, &sub.Score, &sub.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
