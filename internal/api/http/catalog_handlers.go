package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coursedeck/coursedeck-lms/internal/lms"
)

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

func CreateCategoryHandler(store *lms.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		c, err := store.CreateCategory(r.Context(), req.Name)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func ListCategoriesHandler(store *lms.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := store.ListCategories(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cs)
	}
}

func UpdateCategoryHandler(store *lms.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		id := chi.URLParam(r, "categoryID")
		if err := store.UpdateCategory(r.Context(), id, req.Name); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lms.Category{ID: id, Name: req.Name})
	}
}

func DeleteCategoryHandler(store *lms.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func CreateTagHandler(store *lms.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		t, err := store.CreateTag(r.Context(), req.Name)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func ListTagsHandler(store *lms.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := store.ListTags(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
	}
}

func UpdateTagHandler(store *lms.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := decode(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeErr(w, err)
			return
		}
		id := chi.URLParam(r, "tagID")
		if err := store.UpdateTag(r.Context(), id, req.Name); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lms.Tag{ID: id, Name: req.Name})
	}
}

func DeleteTagHandler(store *lms.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteTag(r.Context(), chi.URLParam(r, "tagID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
