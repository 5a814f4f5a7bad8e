package composer

import (
	"strings"

	"github.com/inkwelldev/inkwell/internal/models"
)

// ComposeAudience compiles an audience record into the context block
// embedded in categorization and rewrite prompts. The descriptive text
// prefers the v2 definition; the four psychographic lists render dashed and
// only when populated.
func ComposeAudience(aud *models.Audience) string {
	if aud == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Target Audience: " + aud.Name + "\n")
	if text := aud.DescriptiveText(); text != "" {
		b.WriteString("Audience Description: " + text + "\n")
	}

	writeList(&b, "Goals", aud.Goals)
	writeList(&b, "Pain Points", aud.Pains)
	writeList(&b, "Hopes & Dreams", aud.HopesDreams)
	writeList(&b, "Fears", aud.Fears)

	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(label + ":\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}
