package models

import "time"

// CurrentSchemaVersion is the schema version written to every saved voice
// profile and audience document.
const CurrentSchemaVersion = 2

// VoiceProfile is a structured description of a writing style. Profiles are
// stored as whole JSON documents and replaced atomically; the AI pipeline
// never mutates them.
//
// Two generations exist: v1 documents carry a single free-text Content
// field, v2 documents carry the structured sections below. Every structured
// field is optional — absent fields contribute nothing to the compiled
// prompt.
type VoiceProfile struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Updated time.Time `json:"updated"`
	Version int       `json:"version"`

	// Content is the legacy v1 free-text profile. When it is set and
	// VoiceIdentity is empty, it overrides the structured sections entirely.
	Content string `json:"content,omitempty"`

	VoiceIdentity      string             `json:"voice_identity,omitempty"`
	ToneEnergy         ToneEnergy         `json:"tone_energy,omitempty"`
	LanguagePatterns   LanguagePatterns   `json:"language_patterns,omitempty"`
	AdditionalPatterns AdditionalPatterns `json:"additional_patterns,omitempty"`

	ContentPhilosophy    string `json:"content_philosophy,omitempty"`
	CredibilityAuthority string `json:"credibility_authority,omitempty"`
	AudienceRelationship string `json:"audience_relationship,omitempty"`
	HandlingDisagreement string `json:"handling_disagreement,omitempty"`

	PlatformAdaptation PlatformAdaptation `json:"platform_adaptation,omitempty"`
	Guardrails         Guardrails         `json:"guardrails,omitempty"`
	QuickReference     []string           `json:"quick_reference,omitempty"`
}

// ToneEnergy holds the enum-valued tone settings. Valid values:
// EnergyLevel ∈ {low, medium, high, variable}, HumorStyle ∈ {none, subtle,
// moderate, frequent}, EmotionalRange ∈ {reserved, balanced, expressive}.
type ToneEnergy struct {
	EnergyLevel    string `json:"energy_level,omitempty"`
	HumorStyle     string `json:"humor_style,omitempty"`
	EmotionalRange string `json:"emotional_range,omitempty"`
}

// LanguagePatterns holds free-text descriptions of sentence-level habits.
type LanguagePatterns struct {
	SentenceStructure string `json:"sentence_structure,omitempty"`
	Vocabulary        string `json:"vocabulary,omitempty"`
	Contractions      string `json:"contractions,omitempty"`
	Punctuation       string `json:"punctuation,omitempty"`
}

// AdditionalPatterns holds free-text descriptions of document-level habits.
type AdditionalPatterns struct {
	ParagraphStructure string `json:"paragraph_structure,omitempty"`
	OpeningMoves       string `json:"opening_moves,omitempty"`
	ClosingMoves       string `json:"closing_moves,omitempty"`
	Transitions        string `json:"transitions,omitempty"`
	ExamplesEvidence   string `json:"examples_evidence,omitempty"`
	Distinctive        string `json:"distinctive,omitempty"`
}

// PlatformAdaptation holds per-platform style adjustments.
type PlatformAdaptation struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Blog     string `json:"blog,omitempty"`
}

// Guardrails lists hard rules the rewrite must obey.
type Guardrails struct {
	NeverWords    []string `json:"never_words,omitempty"`
	NeverPhrases  []string `json:"never_phrases,omitempty"`
	NeverPatterns []string `json:"never_patterns,omitempty"`
	AlwaysDo      []string `json:"always_do,omitempty"`
}

// IsLegacy reports whether the profile is a v1 document: free-text Content
// present with no structured VoiceIdentity.
func (p *VoiceProfile) IsLegacy() bool {
	return p.Content != "" && p.VoiceIdentity == ""
}

// UpgradeVoiceProfile upgrades a v1 document to the v2 schema. It is pure:
// the input is not modified. The legacy Content field is preserved rather
// than copied into VoiceIdentity, so the compiler's verbatim-override
// contract for v1 text keeps holding after the upgrade.
func UpgradeVoiceProfile(p VoiceProfile) VoiceProfile {
	if p.Version >= CurrentSchemaVersion {
		return p
	}
	p.Version = CurrentSchemaVersion
	return p
}
