package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursedeck/coursedeck-lms/internal/lms"
	"github.com/coursedeck/coursedeck-lms/internal/rbac"
)

type quizRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func CreateQuizHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quizRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		q, err := store.Create(r.Context(), lms.Quiz{
			CourseID:    chi.URLParam(r, "courseID"),
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func ListQuizzesHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.ListByCourse(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func UpdateQuizHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quizRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		q := lms.Quiz{ID: chi.URLParam(r, "quizID"), Title: req.Title, Description: req.Description}
		if err := store.Update(r.Context(), q); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func DeleteQuizHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "quizID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- questions ---

type questionRequest struct {
	Type         string `json:"type" validate:"required"`
	QuestionText string `json:"question_text" validate:"required"`
	Answer       string `json:"answer"`
}

func CreateQuestionHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		q, err := store.CreateQuestion(r.Context(), lms.Question{
			QuizID:       chi.URLParam(r, "quizID"),
			Type:         req.Type,
			QuestionText: req.QuestionText,
			Answer:       req.Answer,
			CreatedBy:    rbac.SubjectFromContext(r.Context()),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func ListQuestionsHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.ListQuestions(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func UpdateQuestionHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		q := lms.Question{
			ID:           chi.URLParam(r, "questionID"),
			Type:         req.Type,
			QuestionText: req.QuestionText,
			Answer:       req.Answer,
		}
		if err := store.UpdateQuestion(r.Context(), q); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func DeleteQuestionHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuestion(r.Context(), chi.URLParam(r, "questionID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- choices ---

type choiceRequest struct {
	ChoiceText string `json:"choice_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

func CreateChoiceHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req choiceRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		c, err := store.CreateChoice(r.Context(), lms.Choice{
			QuestionID: chi.URLParam(r, "questionID"),
			ChoiceText: req.ChoiceText,
			IsCorrect:  req.IsCorrect,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func ListChoicesHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := store.ListChoices(r.Context(), chi.URLParam(r, "questionID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cs)
	}
}

func UpdateChoiceHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req choiceRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		c := lms.Choice{ID: chi.URLParam(r, "choiceID"), ChoiceText: req.ChoiceText, IsCorrect: req.IsCorrect}
		if err := store.UpdateChoice(r.Context(), c); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func DeleteChoiceHandler(store *lms.QuizStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteChoice(r.Context(), chi.URLParam(r, "choiceID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
