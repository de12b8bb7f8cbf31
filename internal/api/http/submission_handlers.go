package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursedeck/coursedeck-lms/internal/rbac"
	"github.com/coursedeck/coursedeck-lms/internal/submission"
)

type submitRequest struct {
	Answers []submission.AnswerInput `json:"answers" validate:"required,min=1,dive"`
}

// POST /quizzes/{quizID}/submit
// Grades the whole batch atomically and returns the committed submission.
func SubmitQuizHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		user := rbac.SubjectFromContext(r.Context())

		var req submitRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}

		sub, err := store.Submit(r.Context(), quizID, user, req.Answers)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"submission_id": sub.ID,
			"score":         sub.Score,
		})
	}
}

// GET /quizzes/{quizID}/submissions — the caller's own attempts.
func ListQuizSubmissionsHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		user := rbac.SubjectFromContext(r.Context())
		subs, err := store.ListByQuiz(r.Context(), quizID, user)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, subs)
	}
}

// GET /quizzes/{quizID}/submissions/summary — gated by quiz:view-analytics
// at the router; this handler assumes the capability check already passed.
func QuizSummaryHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		sum, err := store.Summary(r.Context(), quizID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

// GET /quiz-submissions — all of the caller's submissions across quizzes.
func ListMySubmissionsHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := rbac.SubjectFromContext(r.Context())
		subs, err := store.ListByUser(r.Context(), user)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, subs)
	}
}

// GET /quiz-submissions/{submissionID} — owner only.
func GetSubmissionHandler(store submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		user := rbac.SubjectFromContext(r.Context())
		sub, err := store.Get(r.Context(), id, user)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}
