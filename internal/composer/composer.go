// Package composer turns structured editorial documents into natural-language
// prompt fragments. The compiled text is the entire behavioral specification
// handed to the AI vendor, so section order and the "emit nothing for absent
// data" rule are load-bearing contracts.
package composer

import (
	"strings"
	"unicode"

	"github.com/inkwelldev/inkwell/internal/models"
)

// Compose compiles a voice profile into a single markdown instruction
// document. Legacy v1 profiles (free-text Content, no VoiceIdentity) are
// returned verbatim. For v2 profiles, each section is emitted only when at
// least one of its subfields is populated; populated sections are joined by
// blank lines. Compose is pure and deterministic.
func Compose(profile models.VoiceProfile) string {
	if profile.IsLegacy() {
		return profile.Content
	}

	var parts []string

	if profile.VoiceIdentity != "" {
		parts = append(parts, "## Voice Identity\n"+profile.VoiceIdentity)
	}

	if s := toneEnergySection(profile.ToneEnergy); s != "" {
		parts = append(parts, s)
	}

	if s := labeledSection("## Language Patterns", []labeled{
		{"Sentence Structure", profile.LanguagePatterns.SentenceStructure},
		{"Vocabulary", profile.LanguagePatterns.Vocabulary},
		{"Contractions & Formality", profile.LanguagePatterns.Contractions},
		{"Punctuation", profile.LanguagePatterns.Punctuation},
	}); s != "" {
		parts = append(parts, s)
	}

	if s := labeledSection("## Additional Writing Patterns", []labeled{
		{"Paragraph Structure", profile.AdditionalPatterns.ParagraphStructure},
		{"Opening Moves", profile.AdditionalPatterns.OpeningMoves},
		{"Closing Moves", profile.AdditionalPatterns.ClosingMoves},
		{"Transitions", profile.AdditionalPatterns.Transitions},
		{"Examples & Evidence", profile.AdditionalPatterns.ExamplesEvidence},
		{"Distinctive Patterns", profile.AdditionalPatterns.Distinctive},
	}); s != "" {
		parts = append(parts, s)
	}

	if s := labeledSection("## Philosophy & Approach", []labeled{
		{"Content Philosophy", profile.ContentPhilosophy},
		{"Credibility & Authority", profile.CredibilityAuthority},
		{"Audience Relationship", profile.AudienceRelationship},
		{"Handling Disagreement", profile.HandlingDisagreement},
	}); s != "" {
		parts = append(parts, s)
	}

	if s := labeledSection("## Platform Adaptation", []labeled{
		{"Twitter/X", profile.PlatformAdaptation.Twitter},
		{"LinkedIn", profile.PlatformAdaptation.LinkedIn},
		{"Facebook", profile.PlatformAdaptation.Facebook},
		{"Blog/Long-form", profile.PlatformAdaptation.Blog},
	}); s != "" {
		parts = append(parts, s)
	}

	if s := guardrailsSection(profile.Guardrails); s != "" {
		parts = append(parts, s)
	}

	if len(profile.QuickReference) > 0 {
		parts = append(parts, "## Quick Reference\n- "+strings.Join(profile.QuickReference, "\n- "))
	}

	return strings.Join(parts, "\n\n")
}

// labeled pairs a display label with its free-text value.
type labeled struct {
	label string
	value string
}

// labeledSection renders a heading followed by one bold-labeled paragraph
// per populated field, in the given order. Empty sections render as "".
func labeledSection(heading string, fields []labeled) string {
	var paras []string
	for _, f := range fields {
		if f.value != "" {
			paras = append(paras, "**"+f.label+":** "+f.value)
		}
	}
	if len(paras) == 0 {
		return ""
	}
	return heading + "\n" + strings.Join(paras, "\n\n")
}

// toneEnergySection renders the enum-valued tone settings as a bulleted
// list with capitalized values.
func toneEnergySection(tone models.ToneEnergy) string {
	var lines []string
	if tone.EnergyLevel != "" {
		lines = append(lines, "Energy Level: "+capitalize(tone.EnergyLevel))
	}
	if tone.HumorStyle != "" {
		lines = append(lines, "Humor Style: "+capitalize(tone.HumorStyle))
	}
	if tone.EmotionalRange != "" {
		lines = append(lines, "Emotional Range: "+capitalize(tone.EmotionalRange))
	}
	if len(lines) == 0 {
		return ""
	}
	return "## Tone & Energy\n- " + strings.Join(lines, "\n- ")
}

// guardrailsSection renders the hard style rules. never_words join on one
// comma-separated line; the other three lists render dashed.
func guardrailsSection(g models.Guardrails) string {
	var paras []string
	if len(g.NeverWords) > 0 {
		paras = append(paras, "**Words to NEVER use:** "+strings.Join(g.NeverWords, ", "))
	}
	if len(g.NeverPhrases) > 0 {
		paras = append(paras, "**Phrases to NEVER use:**\n- "+strings.Join(g.NeverPhrases, "\n- "))
	}
	if len(g.NeverPatterns) > 0 {
		paras = append(paras, "**Patterns to NEVER use:**\n- "+strings.Join(g.NeverPatterns, "\n- "))
	}
	if len(g.AlwaysDo) > 0 {
		paras = append(paras, "**ALWAYS do these things:**\n- "+strings.Join(g.AlwaysDo, "\n- "))
	}
	if len(paras) == 0 {
		return ""
	}
	return "## Anti-AI Guardrails (CRITICAL)\n" + strings.Join(paras, "\n\n")
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
