package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/inkwelldev/inkwell/internal/fault"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/storage"
)

// Taxonomy handles GET /api/v1/taxonomy: the current category and tag
// mirrors, as the candidate lists the AI pipeline works from.
func Taxonomy(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := store.ListCategories(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list categories")
			return
		}
		tags, err := store.ListTags(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list tags")
			return
		}
		if categories == nil {
			categories = []models.Term{}
		}
		if tags == nil {
			tags = []models.Term{}
		}
		writeJSON(w, http.StatusOK, map[string][]models.Term{
			"categories": categories,
			"tags":       tags,
		})
	}
}

// ReplaceTaxonomy handles PUT /api/v1/taxonomy. The hosting platform owns
// the taxonomy and pushes the complete lists; the stored mirrors are
// replaced wholesale.
func ReplaceTaxonomy(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Categories []models.Term `json:"categories"`
			Tags       []models.Term `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}

		for _, t := range append(append([]models.Term{}, body.Categories...), body.Tags...) {
			if t.ID <= 0 || t.Name == "" {
				writeFault(w, fault.New(fault.KindInvalidParam, "every term needs a positive id and a name"))
				return
			}
		}

		if err := store.ReplaceTaxonomy(r.Context(), body.Categories, body.Tags); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to replace taxonomy")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
