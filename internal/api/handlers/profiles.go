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

// ListVoiceProfiles handles GET /api/v1/voice-profiles. Profiles are
// returned as a map keyed by ID, matching the stored collection shape.
func ListVoiceProfiles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := store.ListVoiceProfiles(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list voice profiles")
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

// CreateVoiceProfile handles POST /api/v1/voice-profiles. The server
// assigns the ID; a client-supplied ID in the body is ignored.
func CreateVoiceProfile(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile models.VoiceProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}
		if profile.Name == "" {
			writeFault(w, fault.New(fault.KindInvalidParam, "name is required"))
			return
		}

		profile.ID = "vp_" + uuid.NewString()
		if err := store.SaveVoiceProfile(r.Context(), &profile); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save voice profile")
			return
		}
		writeJSON(w, http.StatusCreated, profile)
	}
}

// UpdateVoiceProfile handles PUT /api/v1/voice-profiles/{id}. The body
// replaces the stored document wholesale.
func UpdateVoiceProfile(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if _, err := store.GetVoiceProfile(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "voice profile not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load voice profile")
			return
		}

		var profile models.VoiceProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}
		if profile.Name == "" {
			writeFault(w, fault.New(fault.KindInvalidParam, "name is required"))
			return
		}

		profile.ID = id
		if err := store.SaveVoiceProfile(r.Context(), &profile); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save voice profile")
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// DeleteVoiceProfile handles DELETE /api/v1/voice-profiles/{id}.
func DeleteVoiceProfile(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.DeleteVoiceProfile(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "voice profile not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete voice profile")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
