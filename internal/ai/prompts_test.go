package ai

import (
	"strings"
	"testing"

	"github.com/inkwelldev/inkwell/internal/models"
)

func TestBuildCategorizationPrompt(t *testing.T) {
	categories := []models.Term{
		{ID: 1, Name: "Engineering", Slug: "engineering"},
		{ID: 4, Name: "Essays", Slug: "essays"},
	}
	tags := []models.Term{{ID: 9, Name: "golang", Slug: "golang"}}

	got := BuildCategorizationPrompt(categories, tags, nil)

	for _, want := range []string{
		"- Engineering (ID: 1)",
		"- Essays (ID: 4)",
		"- golang (ID: 9)",
		"Available Categories:",
		"Available Tags:",
		"new_tags",
		"reasoning",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Target Audience") {
		t.Error("no audience block expected without an audience")
	}
}

func TestBuildCategorizationPromptWithAudience(t *testing.T) {
	aud := &models.Audience{Name: "Founders", Definition: "Startup founders."}
	got := BuildCategorizationPrompt(nil, nil, aud)

	if !strings.Contains(got, "Target Audience: Founders") {
		t.Errorf("audience block missing:\n%s", got)
	}
	if !strings.Contains(got, "Consider this audience when making suggestions.") {
		t.Error("audience instruction missing")
	}
}

func TestBuildAudiencePrompt(t *testing.T) {
	audiences := []models.Audience{
		{ID: "aud_1", Name: "Founders", Definition: "Startup founders."},
		{ID: "aud_2", Name: "Students"},
	}

	got := BuildAudiencePrompt(audiences)

	if !strings.Contains(got, "- Founders (ID: aud_1): Startup founders.") {
		t.Errorf("audience with description rendered wrong:\n%s", got)
	}
	if !strings.Contains(got, "- Students (ID: aud_2)\n") {
		t.Errorf("audience without description rendered wrong:\n%s", got)
	}
	if !strings.Contains(got, "audience_id") || !strings.Contains(got, "confidence") {
		t.Error("answer shape keys missing")
	}
}

func TestBuildRewritePrompt(t *testing.T) {
	voice := "## Voice Identity\nBlunt and kind."
	got := BuildRewritePrompt(voice, nil)

	if !strings.Contains(got, "Voice Profile:\n"+voice) {
		t.Error("compiled voice prompt should be embedded verbatim")
	}
	if !strings.Contains(got, "Return only the rewritten content") {
		t.Error("output guideline missing")
	}
}

func TestBuildRewritePromptWithAudience(t *testing.T) {
	aud := &models.Audience{Name: "Readers", Definition: "Regulars."}
	got := BuildRewritePrompt("voice", aud)

	if !strings.Contains(got, "Target Audience: Readers") {
		t.Error("audience block missing")
	}
	if !strings.Contains(got, "Tailor the rewritten content for this specific audience.") {
		t.Error("audience instruction missing")
	}
}
