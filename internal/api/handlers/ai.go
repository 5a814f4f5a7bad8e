package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/inkwelldev/inkwell/internal/categorizer"
	"github.com/inkwelldev/inkwell/internal/content"
	"github.com/inkwelldev/inkwell/internal/fault"
	"github.com/inkwelldev/inkwell/internal/rewriter"
)

// Categorize handles POST /api/v1/categorize. It validates the content,
// runs the categorization pipeline, and returns the enriched suggestions.
func Categorize(cat *categorizer.Categorizer, minContentChars int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body struct {
			Content    string `json:"content"`
			AudienceID string `json:"audience_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}

		if err := validateContent(body.Content, minContentChars); err != nil {
			writeFault(w, err)
			return
		}

		result, err := cat.Analyze(ctx, body.Content, body.AudienceID)
		if err != nil {
			logFault("categorize", err)
			writeFault(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// Rewrite handles POST /api/v1/rewrite. It validates the content and the
// profile reference, runs the rewrite pipeline, and returns the rewritten
// draft.
func Rewrite(rw *rewriter.Rewriter, minContentChars int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body struct {
			Content        string `json:"content"`
			VoiceProfileID string `json:"voice_profile_id"`
			AudienceID     string `json:"audience_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}

		if err := validateContent(body.Content, minContentChars); err != nil {
			writeFault(w, err)
			return
		}
		if body.VoiceProfileID == "" {
			writeFault(w, fault.New(fault.KindInvalidParam, "voice_profile_id is required"))
			return
		}

		rewritten, err := rw.Rewrite(ctx, body.Content, body.VoiceProfileID, body.AudienceID)
		if err != nil {
			logFault("rewrite", err)
			writeFault(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"rewritten_content": rewritten})
	}
}

// SuggestAudience handles POST /api/v1/suggest-audience.
func SuggestAudience(cat *categorizer.Categorizer, minContentChars int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFault(w, fault.New(fault.KindInvalidParam, "invalid JSON body"))
			return
		}

		if err := validateContent(body.Content, minContentChars); err != nil {
			writeFault(w, err)
			return
		}

		suggestion, err := cat.SuggestAudience(ctx, body.Content)
		if err != nil {
			logFault("suggest-audience", err)
			writeFault(w, err)
			return
		}

		writeJSON(w, http.StatusOK, suggestion)
	}
}

// validateContent enforces the minimum useful content length. The check
// runs on the markup-stripped, collapsed form so tag soup cannot pad a
// too-short draft past the threshold.
func validateContent(raw string, minChars int) error {
	if raw == "" {
		return fault.New(fault.KindInvalidParam, "content is required")
	}
	if content.PlainLength(raw) < minChars {
		return fault.Newf(fault.KindInvalidParam,
			"content too short: at least %d characters of text are required", minChars)
	}
	return nil
}

// logFault records a failed AI operation. Expected (typed) failures log at
// Warn; anything unexpected logs at Error.
func logFault(op string, err error) {
	if fault.KindOf(err) != "" {
		slog.Warn("ai operation failed", "op", op, "kind", fault.KindOf(err), "error", err)
		return
	}
	slog.Error("ai operation failed", "op", op, "error", err)
}
