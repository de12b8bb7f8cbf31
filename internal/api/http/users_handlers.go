package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursedeck/coursedeck-lms/internal/lms"
	"github.com/coursedeck/coursedeck-lms/internal/rbac"
)

// GET /me
func MeHandler(store *lms.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := store.Get(r.Context(), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// GET /users?role=student&limit=50&offset=0
func ListUsersHandler(store *lms.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
		us, err := store.List(r.Context(), role, limit, offset)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, us)
	}
}

// POST /users/{userID}/role  { "role": "teacher" }
func UpdateUserRoleHandler(store *lms.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role string `json:"role" validate:"required,oneof=student teacher admin"`
		}
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		if err := store.UpdateRole(r.Context(), chi.URLParam(r, "userID"), req.Role); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /users/{userID}
func DeleteUserHandler(store *lms.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
