package submission_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/coursedeck/coursedeck-lms/internal/db"
	"github.com/coursedeck/coursedeck-lms/internal/grading"
	"github.com/coursedeck/coursedeck-lms/internal/lms"
	"github.com/coursedeck/coursedeck-lms/internal/submission"
)

func newTestStore(t *testing.T) (*submission.SQLStore, *sql.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dbh, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	// shared-cache in-memory DBs vanish when the last conn closes
	dbh.SetMaxIdleConns(2)
	if err := db.EnsureSchema(context.Background(), dbh, db.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return submission.NewSQLStore(dbh, grading.NewResolver()), dbh
}

func seedQuiz(t *testing.T, dbh *sql.DB) string {
	t.Helper()
	now := time.Now().Unix()
	if _, err := dbh.Exec(`INSERT INTO courses (id,title,created_at) VALUES ('course-1','Course One',?)`, now); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	if _, err := dbh.Exec(`INSERT INTO quizzes (id,course_id,title,created_at) VALUES ('quiz-1','course-1','Quiz One',?)`, now); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return "quiz-1"
}

func seedMCQuestion(t *testing.T, dbh *sql.DB, id string) (correctChoice, wrongChoice string) {
	t.Helper()
	if _, err := dbh.Exec(
		`INSERT INTO questions (id,quiz_id,type,question_text,created_at) VALUES (?, 'quiz-1','multiple_choice','pick one',0)`,
		id); err != nil {
		t.Fatalf("seed question: %v", err)
	}
	correctChoice, wrongChoice = id+"-right", id+"-wrong"
	if _, err := dbh.Exec(
		`INSERT INTO choices (id,question_id,choice_text,is_correct) VALUES (?,?,'Correct Answer',1),(?,?,'Wrong Answer',0)`,
		correctChoice, id, wrongChoice, id); err != nil {
		t.Fatalf("seed choices: %v", err)
	}
	return correctChoice, wrongChoice
}

func seedEssayQuestion(t *testing.T, dbh *sql.DB, id, canonical string) {
	t.Helper()
	var answer any
	if canonical != "" {
		answer = canonical
	}
	if _, err := dbh.Exec(
		`INSERT INTO questions (id,quiz_id,type,question_text,answer,created_at) VALUES (?, 'quiz-1','essay','explain',?,0)`,
		id, answer); err != nil {
		t.Fatalf("seed essay question: %v", err)
	}
}

func TestSubmitSingleChoiceScores(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	right, wrong := seedMCQuestion(t, dbh, "q1")
	ctx := context.Background()

	sub, err := store.Submit(ctx, quizID, "u1", []submission.AnswerInput{{QuestionID: "q1", ChoiceID: right}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Score != 100 {
		t.Fatalf("correct choice: want score 100, got %v", sub.Score)
	}

	sub, err = store.Submit(ctx, quizID, "u1", []submission.AnswerInput{{QuestionID: "q1", ChoiceID: wrong}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Score != 0 {
		t.Fatalf("wrong choice: want score 0, got %v", sub.Score)
	}
}

func TestSubmitTwoOfThreeCorrect(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	r1, _ := seedMCQuestion(t, dbh, "q1")
	r2, _ := seedMCQuestion(t, dbh, "q2")
	_, w3 := seedMCQuestion(t, dbh, "q3")

	sub, err := store.Submit(context.Background(), quizID, "u1", []submission.AnswerInput{
		{QuestionID: "q1", ChoiceID: r1},
		{QuestionID: "q2", ChoiceID: r2},
		{QuestionID: "q3", ChoiceID: w3},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := 100 * 2.0 / 3.0
	if math.Abs(sub.Score-want) > 1e-9 {
		t.Fatalf("want score %v, got %v", want, sub.Score)
	}

	// header score must match the persisted answer rows
	var persisted float64
	if err := dbh.QueryRow(`SELECT score FROM quiz_submissions WHERE id=?`, sub.ID).Scan(&persisted); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if math.Abs(persisted-want) > 1e-9 {
		t.Fatalf("persisted score %v != %v", persisted, want)
	}
}

func TestSubmitEssayNormalization(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	seedEssayQuestion(t, dbh, "e1", " Paris ")

	sub, err := store.Submit(context.Background(), quizID, "u1",
		[]submission.AnswerInput{{QuestionID: "e1", AnswerText: "paris"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Score != 100 {
		t.Fatalf("normalized essay match: want 100, got %v", sub.Score)
	}
}

func TestSubmitUngradedEssayIsNull(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	seedEssayQuestion(t, dbh, "e1", "")
	right, _ := seedMCQuestion(t, dbh, "q1")

	sub, err := store.Submit(context.Background(), quizID, "u1", []submission.AnswerInput{
		{QuestionID: "e1", AnswerText: "free-form thoughts"},
		{QuestionID: "q1", ChoiceID: right},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Score != 50 {
		t.Fatalf("indeterminate answer counts against the denominator: want 50, got %v", sub.Score)
	}

	got, err := store.Get(context.Background(), sub.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Answers[0].IsCorrect != nil {
		t.Fatalf("ungraded essay must persist NULL is_correct, got %v", *got.Answers[0].IsCorrect)
	}
	if got.Answers[1].IsCorrect == nil || !*got.Answers[1].IsCorrect {
		t.Fatalf("graded answer lost its verdict: %+v", got.Answers[1])
	}
}

func TestSubmitRollsBackOnUnsupportedType(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	right, _ := seedMCQuestion(t, dbh, "q1")
	// injected behind the store's back; CreateQuestion would refuse it
	if _, err := dbh.Exec(
		`INSERT INTO questions (id,quiz_id,type,question_text,created_at) VALUES ('q2','quiz-1','matching','pair up',0)`); err != nil {
		t.Fatalf("seed rogue question: %v", err)
	}

	_, err := store.Submit(context.Background(), quizID, "u1", []submission.AnswerInput{
		{QuestionID: "q1", ChoiceID: right},
		{QuestionID: "q2", AnswerText: "a-b"},
	})
	var uq *lms.UnsupportedQuestionTypeError
	if !errors.As(err, &uq) {
		t.Fatalf("want UnsupportedQuestionTypeError, got %v", err)
	}

	var n int
	if err := dbh.QueryRow(`SELECT COUNT(*) FROM quiz_submissions`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("submission header survived rollback: %d rows", n)
	}
	if err := dbh.QueryRow(`SELECT COUNT(*) FROM submission_answers`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("answer rows survived rollback: %d rows", n)
	}
}

func TestSubmitUnknownQuestionFails(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	right, _ := seedMCQuestion(t, dbh, "q1")

	_, err := store.Submit(context.Background(), quizID, "u1", []submission.AnswerInput{
		{QuestionID: "q1", ChoiceID: right},
		{QuestionID: "ghost"},
	})
	if !errors.Is(err, lms.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	var n int
	if err := dbh.QueryRow(`SELECT COUNT(*) FROM quiz_submissions`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("partial submission committed: %d rows", n)
	}
}

func TestSubmitValidation(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)

	_, err := store.Submit(context.Background(), quizID, "u1", nil)
	if !errors.Is(err, lms.ErrValidation) {
		t.Fatalf("empty batch: want ErrValidation, got %v", err)
	}

	_, err = store.Submit(context.Background(), "no-such-quiz", "u1",
		[]submission.AnswerInput{{QuestionID: "q1"}})
	if !errors.Is(err, lms.ErrNotFound) {
		t.Fatalf("missing quiz: want ErrNotFound, got %v", err)
	}
}

func TestAnswerOrderPreserved(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	r1, _ := seedMCQuestion(t, dbh, "q1")
	r2, _ := seedMCQuestion(t, dbh, "q2")
	_, w3 := seedMCQuestion(t, dbh, "q3")

	sub, err := store.Submit(context.Background(), quizID, "u1", []submission.AnswerInput{
		{QuestionID: "q3", ChoiceID: w3},
		{QuestionID: "q1", ChoiceID: r1},
		{QuestionID: "q2", ChoiceID: r2},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := store.Get(context.Background(), sub.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wantOrder := []string{"q3", "q1", "q2"}
	if len(got.Answers) != len(wantOrder) {
		t.Fatalf("want %d answers, got %d", len(wantOrder), len(got.Answers))
	}
	for i, qid := range wantOrder {
		if got.Answers[i].QuestionID != qid {
			t.Fatalf("answer %d: want question %s, got %s", i, qid, got.Answers[i].QuestionID)
		}
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	right, _ := seedMCQuestion(t, dbh, "q1")

	sub, err := store.Submit(context.Background(), quizID, "userB",
		[]submission.AnswerInput{{QuestionID: "q1", ChoiceID: right}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := store.Get(context.Background(), sub.ID, "userA"); !errors.Is(err, lms.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if _, err := store.Get(context.Background(), sub.ID, "userB"); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := store.Get(context.Background(), "no-such-id", "userB"); !errors.Is(err, lms.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListScopedToUser(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	right, _ := seedMCQuestion(t, dbh, "q1")
	ctx := context.Background()

	if _, err := store.Submit(ctx, quizID, "u1", []submission.AnswerInput{{QuestionID: "q1", ChoiceID: right}}); err != nil {
		t.Fatalf("submit u1: %v", err)
	}
	if _, err := store.Submit(ctx, quizID, "u2", []submission.AnswerInput{{QuestionID: "q1", ChoiceID: right}}); err != nil {
		t.Fatalf("submit u2: %v", err)
	}

	mine, err := store.ListByQuiz(ctx, quizID, "u1")
	if err != nil {
		t.Fatalf("list by quiz: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != "u1" {
		t.Fatalf("listByQuiz leaked other users' submissions: %+v", mine)
	}

	byUser, err := store.ListByUser(ctx, "u2")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(byUser) != 1 {
		t.Fatalf("want 1 submission for u2, got %d", len(byUser))
	}
	if byUser[0].Quiz == nil || byUser[0].Quiz.Title != "Quiz One" {
		t.Fatalf("listByUser should attach the parent quiz, got %+v", byUser[0].Quiz)
	}
}

func TestSummary(t *testing.T) {
	store, dbh := newTestStore(t)
	quizID := seedQuiz(t, dbh)
	right, wrong := seedMCQuestion(t, dbh, "q1")
	ctx := context.Background()

	sum, err := store.Summary(ctx, quizID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalSubmissions != 0 || sum.AverageScore != nil {
		t.Fatalf("empty quiz: want {0, nil}, got %+v", sum)
	}

	if _, err := store.Submit(ctx, quizID, "u1", []submission.AnswerInput{{QuestionID: "q1", ChoiceID: right}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := store.Submit(ctx, quizID, "u2", []submission.AnswerInput{{QuestionID: "q1", ChoiceID: wrong}}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sum, err = store.Summary(ctx, quizID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalSubmissions != 2 {
		t.Fatalf("want 2 submissions, got %d", sum.TotalSubmissions)
	}
	if sum.AverageScore == nil || math.Abs(*sum.AverageScore-50) > 1e-9 {
		t.Fatalf("want average 50, got %v", sum.AverageScore)
	}

	if _, err := store.Summary(ctx, "no-such-quiz"); !errors.Is(err, lms.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
