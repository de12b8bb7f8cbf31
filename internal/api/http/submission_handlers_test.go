package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/coursedeck/coursedeck-lms/internal/lms"
	"github.com/coursedeck/coursedeck-lms/internal/rbac"
	"github.com/coursedeck/coursedeck-lms/internal/submission"
)

// fakeStore satisfies submission.Store with canned data keyed by quiz id.
type fakeStore struct {
	subs    map[string]submission.Submission
	summary submission.Summary
}

func (f *fakeStore) Submit(_ context.Context, quizID, userID string, answers []submission.AnswerInput) (submission.Submission, error) {
	if quizID == "missing" {
		return submission.Submission{}, lms.NotFoundf("quiz")
	}
	score := 0.0
	for _, a := range answers {
		if a.ChoiceID == "right" {
			score++
		}
	}
	score = score / float64(len(answers)) * 100
	return submission.Submission{ID: "sub-1", QuizID: quizID, UserID: userID, Score: score}, nil
}

func (f *fakeStore) ListByQuiz(_ context.Context, quizID, userID string) ([]submission.Submission, error) {
	out := []submission.Submission{}
	for _, s := range f.subs {
		if s.QuizID == quizID && s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]submission.Submission, error) {
	out := []submission.Submission{}
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id, userID string) (submission.Submission, error) {
	s, ok := f.subs[id]
	if !ok {
		return submission.Submission{}, lms.NotFoundf("submission")
	}
	if s.UserID != userID {
		return submission.Submission{}, lms.ErrUnauthorized
	}
	return s, nil
}

func (f *fakeStore) Summary(_ context.Context, quizID string) (submission.Summary, error) {
	if quizID == "missing" {
		return submission.Summary{}, lms.NotFoundf("quiz")
	}
	return f.summary, nil
}

func newRouter(store submission.Store, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := rbac.WithSubject(req.Context(), userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/quizzes/{quizID}/submit", SubmitQuizHandler(store))
	r.Get("/quizzes/{quizID}/submissions/summary", QuizSummaryHandler(store))
	r.Get("/quiz-submissions/{submissionID}", GetSubmissionHandler(store))
	return r
}

func TestSubmitHandler(t *testing.T) {
	r := newRouter(&fakeStore{}, "u1")

	body := `{"answers":[{"question_id":"q1","choice_id":"right"},{"question_id":"q2","choice_id":"wrong"}]}`
	req := httptest.NewRequest("POST", "/quizzes/quiz-1/submit", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SubmissionID string  `json:"submission_id"`
		Score        float64 `json:"score"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SubmissionID == "" || resp.Score != 50 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitHandlerValidation(t *testing.T) {
	r := newRouter(&fakeStore{}, "u1")

	req := httptest.NewRequest("POST", "/quizzes/quiz-1/submit", strings.NewReader(`{"answers":[]}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty answers: want 422, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/quizzes/quiz-1/submit", strings.NewReader(`{not json`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: want 400, got %d", rec.Code)
	}
}

func TestSubmitHandlerQuizNotFound(t *testing.T) {
	r := newRouter(&fakeStore{}, "u1")

	body := `{"answers":[{"question_id":"q1"}]}`
	req := httptest.NewRequest("POST", "/quizzes/missing/submit", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestGetSubmissionHandlerOwnership(t *testing.T) {
	store := &fakeStore{subs: map[string]submission.Submission{
		"sub-1": {ID: "sub-1", QuizID: "quiz-1", UserID: "userB", Score: 80},
	}}

	rec := httptest.NewRecorder()
	newRouter(store, "userA").ServeHTTP(rec, httptest.NewRequest("GET", "/quiz-submissions/sub-1", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("other user's submission: want 403, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	newRouter(store, "userB").ServeHTTP(rec, httptest.NewRequest("GET", "/quiz-submissions/sub-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("owner: want 200, got %d", rec.Code)
	}
}

func TestSummaryHandler(t *testing.T) {
	avg := 72.5
	store := &fakeStore{summary: submission.Summary{TotalSubmissions: 4, AverageScore: &avg}}

	rec := httptest.NewRecorder()
	newRouter(store, "teacher-1").ServeHTTP(rec,
		httptest.NewRequest("GET", "/quizzes/quiz-1/submissions/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var sum submission.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.TotalSubmissions != 4 || sum.AverageScore == nil || *sum.AverageScore != 72.5 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}
