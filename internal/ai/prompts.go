package ai

import (
	"fmt"
	"strings"

	"github.com/inkwelldev/inkwell/internal/composer"
	"github.com/inkwelldev/inkwell/internal/models"
)

// BuildCategorizationPrompt builds the system prompt for the categorize
// task: every candidate category and tag listed as "name (ID: n)", the
// optional audience context up front, and the exact four-key JSON answer
// shape.
func BuildCategorizationPrompt(categories, tags []models.Term, audience *models.Audience) string {
	var b strings.Builder

	b.WriteString("You are a content categorization assistant for a blog. ")
	b.WriteString("Analyze the given content and suggest appropriate categories and tags.\n\n")

	if audience != nil {
		b.WriteString(composer.ComposeAudience(audience))
		b.WriteString("\nConsider this audience when making suggestions.\n\n")
	}

	b.WriteString("Available Categories:\n")
	for _, cat := range categories {
		fmt.Fprintf(&b, "- %s (ID: %d)\n", cat.Name, cat.ID)
	}

	b.WriteString("\nAvailable Tags:\n")
	for _, tag := range tags {
		fmt.Fprintf(&b, "- %s (ID: %d)\n", tag.Name, tag.ID)
	}

	b.WriteString("\nRespond with a JSON object containing:\n")
	b.WriteString("- categories: array of category IDs that best match the content\n")
	b.WriteString("- tags: array of tag IDs that best match the content\n")
	b.WriteString("- new_tags: array of suggested new tag names if existing tags don't cover the topic\n")
	b.WriteString("- reasoning: brief explanation of your choices\n")
	b.WriteString("\nOnly suggest categories and tags that are truly relevant. Quality over quantity.")

	return b.String()
}

// BuildAudiencePrompt builds the system prompt for the suggest-audience
// task, listing every candidate as "name (ID: id): description".
func BuildAudiencePrompt(audiences []models.Audience) string {
	var b strings.Builder

	b.WriteString("You are a content analyst. Analyze the given content and determine which target audience it's best suited for.\n\n")

	b.WriteString("Available Audiences:\n")
	for _, aud := range audiences {
		fmt.Fprintf(&b, "- %s (ID: %s)", aud.Name, aud.ID)
		if text := aud.DescriptiveText(); text != "" {
			b.WriteString(": " + text)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\nRespond with a JSON object containing:\n")
	b.WriteString("- audience_id: the ID of the best matching audience\n")
	b.WriteString("- confidence: a score from 0-100 indicating how well the content matches\n")
	b.WriteString("- reasoning: brief explanation of why this audience is the best match")

	return b.String()
}

// BuildRewritePrompt builds the system prompt for the rewrite task. The
// compiled voice-profile text is embedded verbatim; the guidelines require
// fact preservation, similar length, kept formatting, and a reply holding
// only the rewritten text.
func BuildRewritePrompt(voicePrompt string, audience *models.Audience) string {
	var b strings.Builder

	b.WriteString("You are a content rewriter. Rewrite the given content using the specified voice profile while maintaining the core message and information.\n\n")

	b.WriteString("Voice Profile:\n")
	b.WriteString(voicePrompt)
	b.WriteString("\n\n")

	if audience != nil {
		b.WriteString(composer.ComposeAudience(audience))
		b.WriteString("\nTailor the rewritten content for this specific audience.\n\n")
	}

	b.WriteString("Guidelines:\n")
	b.WriteString("- Maintain all factual information and key points\n")
	b.WriteString("- Apply the voice profile's tone, style, and vocabulary\n")
	b.WriteString("- Keep approximately the same length as the original\n")
	b.WriteString("- Preserve any formatting (headings, lists, etc.)\n")
	b.WriteString("- Return only the rewritten content, no explanations")

	return b.String()
}

// User-message prefixes for the two request shapes.
func analyzeUserPrompt(content string) string {
	return "Analyze this content:\n\n" + content
}

func rewriteUserPrompt(content string) string {
	return "Rewrite this content:\n\n" + content
}
