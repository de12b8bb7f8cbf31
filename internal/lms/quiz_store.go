package lms

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuizStore manages quizzes, their questions and choices. The submission
// engine reads questions through this store's schema but inside its own
// transaction; mutating a question here never re-grades existing
// submissions.
type QuizStore struct {
	db *sql.DB
}

func NewQuizStore(db *sql.DB) *QuizStore { return &QuizStore{db: db} }

func (s *QuizStore) Create(ctx context.Context, q Quiz) (Quiz, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM courses WHERE id=$1`, q.CourseID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, NotFoundf("course")
	}
	if err != nil {
		return Quiz{}, err
	}
	q.ID = uuid.NewString()
	q.CreatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id,course_id,title,description,created_at) VALUES ($1,$2,$3,$4,$5)`,
		q.ID, q.CourseID, q.Title, q.Description, q.CreatedAt)
	if err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *QuizStore) Get(ctx context.Context, id string) (Quiz, error) {
	var q Quiz
	err := s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,description,created_at FROM quizzes WHERE id=$1`, id).
		Scan(&q.ID, &q.CourseID, &q.Title, &q.Description, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, NotFoundf("quiz")
	}
	return q, err
}

func (s *QuizStore) ListByCourse(ctx context.Context, courseID string) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,title,description,created_at FROM quizzes
		 WHERE course_id=$1 ORDER BY created_at`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Quiz{}
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.ID, &q.CourseID, &q.Title, &q.Description, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *QuizStore) Update(ctx context.Context, q Quiz) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET title=$1, description=$2 WHERE id=$3`, q.Title, q.Description, q.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "quiz")
}

func (s *QuizStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "quiz")
}

// --- questions ---

func (s *QuizStore) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, q.QuizID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, NotFoundf("quiz")
	}
	if err != nil {
		return Question{}, err
	}
	if q.Type != QuestionTypeMultipleChoice && q.Type != QuestionTypeEssay {
		return Question{}, &UnsupportedQuestionTypeError{Type: q.Type}
	}
	q.ID = uuid.NewString()
	q.CreatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id,quiz_id,type,question_text,answer,created_by,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		q.ID, q.QuizID, q.Type, q.QuestionText, nullStr(q.Answer), q.CreatedBy, q.CreatedAt)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *QuizStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	var q Question
	var answer sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id,quiz_id,type,question_text,answer,created_by,created_at FROM questions WHERE id=$1`, id).
		Scan(&q.ID, &q.QuizID, &q.Type, &q.QuestionText, &answer, &q.CreatedBy, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, NotFoundf("question")
	}
	if err != nil {
		return Question{}, err
	}
	q.Answer = answer.String
	choices, err := s.ListChoices(ctx, id)
	if err != nil {
		return Question{}, err
	}
	q.Choices = choices
	return q, nil
}

func (s *QuizStore) ListQuestions(ctx context.Context, quizID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,quiz_id,type,question_text,answer,created_by,created_at FROM questions
		 WHERE quiz_id=$1 ORDER BY created_at`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		var q Question
		var answer sql.NullString
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Type, &q.QuestionText, &answer, &q.CreatedBy, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.Answer = answer.String
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *QuizStore) UpdateQuestion(ctx context.Context, q Question) error {
	if q.Type != QuestionTypeMultipleChoice && q.Type != QuestionTypeEssay {
		return &UnsupportedQuestionTypeError{Type: q.Type}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE questions SET type=$1, question_text=$2, answer=$3 WHERE id=$4`,
		q.Type, q.QuestionText, nullStr(q.Answer), q.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "question")
}

func (s *QuizStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "question")
}

// --- choices ---

func (s *QuizStore) CreateChoice(ctx context.Context, c Choice) (Choice, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM questions WHERE id=$1`, c.QuestionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return Choice{}, NotFoundf("question")
	}
	if err != nil {
		return Choice{}, err
	}
	c.ID = uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO choices (id,question_id,choice_text,is_correct) VALUES ($1,$2,$3,$4)`,
		c.ID, c.QuestionID, c.ChoiceText, c.IsCorrect)
	if err != nil {
		return Choice{}, err
	}
	return c, nil
}

func (s *QuizStore) ListChoices(ctx context.Context, questionID string) ([]Choice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,question_id,choice_text,is_correct FROM choices WHERE question_id=$1 ORDER BY id`,
		questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Choice{}
	for rows.Next() {
		var c Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.IsCorrect); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *QuizStore) UpdateChoice(ctx context.Context, c Choice) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE choices SET choice_text=$1, is_correct=$2 WHERE id=$3`,
		c.ChoiceText, c.IsCorrect, c.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "choice")
}

func (s *QuizStore) DeleteChoice(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM choices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "choice")
}
