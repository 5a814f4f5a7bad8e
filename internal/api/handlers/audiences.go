package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkwelldev/inkwell/internal/fault"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/storage"
)

// ListAudiences handles GET /api/v1/audiences.
func ListAudiences(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audiences, err := store.ListAudiences(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list audiences")
			return
		}
		if audiences == nil {
			audiences = []models.Audience{}
		}
		writeJSON(w, http.StatusOK, audiences)
	}
}

// CreateAudience handles POST /api/v1/audiences. The server assigns the ID.
func CreateAudience(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var audience models.Audience
		if err := json.NewDecoder(r.Body).Decode(&audience); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}
		if audience.Name == "" {
			writeFault(w, fault.New(fault.KindInvalidParam, "name is required"))
			return
		}

		audience.ID = "aud_" + uuid.NewString()
		if err := store.SaveAudience(r.Context(), &audience); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save audience")
			return
		}
		writeJSON(w, http.StatusCreated, audience)
	}
}

// UpdateAudience handles PUT /api/v1/audiences/{id}.
func UpdateAudience(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if _, err := store.GetAudience(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "audience not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load audience")
			return
		}

		var audience models.Audience
		if err := json.NewDecoder(r.Body).Decode(&audience); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}
		if audience.Name == "" {
			writeFault(w, fault.New(fault.KindInvalidParam, "name is required"))
			return
		}

		audience.ID = id
		if err := store.SaveAudience(r.Context(), &audience); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save audience")
			return
		}
		writeJSON(w, http.StatusOK, audience)
	}
}

// DeleteAudience handles DELETE /api/v1/audiences/{id}.
func DeleteAudience(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.DeleteAudience(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "audience not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete audience")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
