package models

import "time"

// Audience is a structured description of a target reader segment. Like
// voice profiles, audiences are whole-document records, replaced atomically
// and read-only to the AI pipeline.
type Audience struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Updated time.Time `json:"updated"`
	Version int       `json:"version"`

	// Definition is the current descriptive text. Description is the legacy
	// v1 field; consumers accept either, preferring Definition.
	Definition  string `json:"definition,omitempty"`
	Description string `json:"description,omitempty"`

	Goals       []string `json:"goals,omitempty"`
	Pains       []string `json:"pains,omitempty"`
	HopesDreams []string `json:"hopes_dreams,omitempty"`
	Fears       []string `json:"fears,omitempty"`
}

// DescriptiveText returns the audience's descriptive text, preferring the
// v2 Definition over the legacy Description.
func (a *Audience) DescriptiveText() string {
	if a.Definition != "" {
		return a.Definition
	}
	return a.Description
}

// UpgradeAudience upgrades a v1 audience to the v2 schema. The legacy
// Description is promoted to Definition and the list fields are left empty.
func UpgradeAudience(a Audience) Audience {
	if a.Version >= CurrentSchemaVersion {
		return a
	}
	if a.Definition == "" {
		a.Definition = a.Description
		a.Description = ""
	}
	a.Version = CurrentSchemaVersion
	return a
}
