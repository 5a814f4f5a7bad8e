package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/inkwelldev/inkwell/internal/fault"
)

// writeJSON encodes v as JSON and writes it with the given HTTP status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing left to do but bail.
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes a plain JSON error response with the given status.
// The body is {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeFault writes a typed error response. Fault errors carry their kind
// string and map to their own HTTP status; anything else is a 500 with a
// generic body so internal details never leak to the editor UI.
func writeFault(w http.ResponseWriter, err error) {
	kind := fault.KindOf(err)
	if kind == "" {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(fault.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": fault.MessageOf(err),
		"kind":  kind,
	})
}
