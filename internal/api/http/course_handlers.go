package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursedeck/coursedeck-lms/internal/lms"
	"github.com/coursedeck/coursedeck-lms/internal/rbac"
)

type courseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
}

func CreateCourseHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req courseRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		c, err := store.Create(r.Context(), lms.Course{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			CreatedBy:   rbac.SubjectFromContext(r.Context()),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func GetCourseHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.Get(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func ListCoursesHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
		cs, err := store.List(r.Context(), limit, offset)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cs)
	}
}

func UpdateCourseHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req courseRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		c := lms.Course{
			ID:          chi.URLParam(r, "courseID"),
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
		}
		if err := store.Update(r.Context(), c); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func DeleteCourseHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "courseID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AssignCourseTagsHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TagIDs []string `json:"tag_ids" validate:"required"`
		}
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := store.AssignTags(r.Context(), chi.URLParam(r, "courseID"), req.TagIDs); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// enrollHandler assigns users to a course in the given role; one handler
// serves both assign-teachers and assign-students.
func enrollHandler(store *lms.CourseStore, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserIDs []string `json:"user_ids" validate:"required,min=1"`
		}
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		courseID := chi.URLParam(r, "courseID")
		for _, uid := range req.UserIDs {
			if err := store.Enroll(r.Context(), courseID, uid, role); err != nil {
				writeErr(w, err)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AssignTeachersHandler(store *lms.CourseStore) http.HandlerFunc {
	return enrollHandler(store, "teacher")
}

func AssignStudentsHandler(store *lms.CourseStore) http.HandlerFunc {
	return enrollHandler(store, "student")
}

func listEnrolledHandler(store *lms.CourseStore, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		us, err := store.ListEnrolled(r.Context(), chi.URLParam(r, "courseID"), role)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, us)
	}
}

func ListCourseTeachersHandler(store *lms.CourseStore) http.HandlerFunc {
	return listEnrolledHandler(store, "teacher")
}

func ListCourseStudentsHandler(store *lms.CourseStore) http.HandlerFunc {
	return listEnrolledHandler(store, "student")
}

// --- lessons ---

type lessonRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

func CreateLessonHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lessonRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		l, err := store.CreateLesson(r.Context(), lms.Lesson{
			CourseID: chi.URLParam(r, "courseID"),
			Title:    req.Title,
			Content:  req.Content,
			Position: req.Position,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

func ListLessonsHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, err := store.ListLessons(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ls)
	}
}

func UpdateLessonHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lessonRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		l := lms.Lesson{
			ID:       chi.URLParam(r, "lessonID"),
			Title:    req.Title,
			Content:  req.Content,
			Position: req.Position,
		}
		if err := store.UpdateLesson(r.Context(), l); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func DeleteLessonHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteLesson(r.Context(), chi.URLParam(r, "lessonID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func CompleteLessonHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := rbac.SubjectFromContext(r.Context())
		if err := store.MarkLessonCompleted(r.Context(), chi.URLParam(r, "lessonID"), user); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func UncompleteLessonHandler(store *lms.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := rbac.SubjectFromContext(r.Context())
		if err := store.UnmarkLessonCompleted(r.Context(), chi.URLParam(r, "lessonID"), user); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
