package api

import (
	"encoding/json"
	"net/http"

	"github.com/inkwelldev/inkwell/internal/fault"
)

// writeFault writes a typed error as a JSON response with the kind string
// and the status mapped from it.
func writeFault(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(fault.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": fault.MessageOf(err),
		"kind":  fault.KindOf(err),
	})
}
