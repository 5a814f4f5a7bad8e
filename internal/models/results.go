package models

// Term is a taxonomy term (category or tag) as supplied by the hosting
// blogging platform.
type Term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategorySuggestions is the raw categorization answer decoded from the
// model's JSON reply: bare term IDs, not yet checked against the candidate
// lists.
type CategorySuggestions struct {
	Categories []int64  `json:"categories"`
	Tags       []int64  `json:"tags"`
	NewTags    []string `json:"new_tags"`
	Reasoning  string   `json:"reasoning"`
}

// CategorizeResult is the enriched categorization answer returned to the
// caller: suggested IDs mapped back to full terms, with hallucinated IDs
// dropped.
type CategorizeResult struct {
	Categories []Term   `json:"categories"`
	Tags       []Term   `json:"tags"`
	NewTags    []string `json:"new_tags"`
	Reasoning  string   `json:"reasoning"`
}

// AudienceSuggestion is the audience-matching answer. Audience is attached
// by the orchestrator when AudienceID names a known record.
type AudienceSuggestion struct {
	AudienceID string    `json:"audience_id"`
	Confidence int       `json:"confidence"`
	Reasoning  string    `json:"reasoning"`
	Audience   *Audience `json:"audience,omitempty"`
}
