package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwelldev/inkwell/internal/ai"
	"github.com/inkwelldev/inkwell/internal/fault"
	"github.com/inkwelldev/inkwell/internal/secrets"
	"github.com/inkwelldev/inkwell/internal/storage"
)

// ProviderStatuses handles GET /api/v1/providers. Key material never
// leaves the server; the response carries only name and configured flags.
func ProviderStatuses(registry *ai.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, registry.Status(r.Context()))
	}
}

// SetProviderKey handles PUT /api/v1/providers/{id}/key. The plaintext key
// from the body is encrypted before it touches storage, and the registry's
// cached instance is dropped so the next request uses the new key. An empty
// key clears the credential.
func SetProviderKey(store *storage.Store, codec *secrets.Codec, registry *ai.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := registry.Get(r.Context(), id); fault.KindOf(err) == fault.KindInvalidProvider {
			writeFault(w, err)
			return
		}

		var body struct {
			APIKey string `json:"api_key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}

		encrypted, err := codec.Encrypt(body.APIKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to encrypt API key")
			return
		}
		if err := store.SetCredential(r.Context(), id, encrypted); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store API key")
			return
		}
		registry.Invalidate(id)

		writeJSON(w, http.StatusOK, map[string]bool{
			"configured": registry.IsConfigured(r.Context(), id),
		})
	}
}

// SetDefaultProvider handles PUT /api/v1/providers/default.
func SetDefaultProvider(store *storage.Store, registry *ai.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ProviderID string `json:"provider_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}
		if body.ProviderID == "" {
			writeFault(w, fault.New(fault.KindInvalidParam, "provider_id is required"))
			return
		}
		if _, err := registry.Get(r.Context(), body.ProviderID); fault.KindOf(err) == fault.KindInvalidProvider {
			writeFault(w, err)
			return
		}

		if err := store.SetDefaultProvider(r.Context(), body.ProviderID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to set default provider")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"default_provider": body.ProviderID})
	}
}
