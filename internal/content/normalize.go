// Package content prepares raw post content for AI analysis: markup
// stripping, entity decoding, whitespace normalization, and length-budget
// truncation.
package content

import (
	"strings"

	"golang.org/x/net/html"
)

// Default length budgets. Both are overridable per call through Options.
const (
	DefaultCategorizeMaxChars = 8000
	DefaultRewriteMaxChars    = 12000

	// sentenceSearchWindow bounds how far back from the cut point rewrite
	// truncation looks for a sentence-terminating period.
	sentenceSearchWindow = 500

	// TruncationMarker is appended when rewrite-mode input exceeds its budget.
	TruncationMarker = "[Content truncated for processing]"
)

// Mode selects the normalization profile.
type Mode int

const (
	// ModeCategorize collapses all whitespace to single spaces; only the
	// semantic content matters, not the layout.
	ModeCategorize Mode = iota
	// ModeRewrite preserves line breaks so the rewritten draft can
	// round-trip the original formatting.
	ModeRewrite
)

// Options configures a Normalize call. A zero MaxLength selects the
// mode's default budget.
type Options struct {
	Mode      Mode
	MaxLength int
}

// Normalize strips markup tags, decodes HTML entities, normalizes line
// endings to \n, and enforces the mode's length budget. Normalizing
// already-normalized text is a no-op.
func Normalize(raw string, opts Options) string {
	text := stripMarkup(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	switch opts.Mode {
	case ModeCategorize:
		return truncateHard(collapseWhitespace(text), orDefault(opts.MaxLength, DefaultCategorizeMaxChars))
	default:
		return truncateAtSentence(strings.TrimSpace(text), orDefault(opts.MaxLength, DefaultRewriteMaxChars))
	}
}

// PlainLength returns the length of raw after markup stripping and
// whitespace collapsing. The boundary uses it for minimum-length validation.
func PlainLength(raw string) int {
	return len(collapseWhitespace(stripMarkup(raw)))
}

func orDefault(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}

// stripMarkup removes HTML/XML tags and decodes entities using the HTML
// tokenizer. script and style bodies are dropped along with their tags.
// Block-level closers and <br> become newlines so rewrite mode keeps the
// document's visual structure.
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		// Tokenizing is only needed when tags can be present; entities may
		// still appear in plain text.
		if strings.Contains(s, "&") {
			return html.UnescapeString(s)
		}
		return s
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skipDepth++
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skipDepth > 0 {
					skipDepth--
				}
			case "p", "div", "li", "tr", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte('\n')
			case "br":
				b.WriteByte('\n')
			}
		}
	}
}

// collapseWhitespace reduces every whitespace run to a single space and
// trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateHard cuts s at max characters and appends an ellipsis. No
// boundary search.
func truncateHard(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// truncateAtSentence cuts s at max characters, preferring the nearest
// sentence-terminating period within the final sentenceSearchWindow
// characters of budget, then appends the truncation marker.
func truncateAtSentence(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := s[:max]
	if idx := strings.LastIndexByte(cut, '.'); idx >= 0 && idx >= max-sentenceSearchWindow {
		cut = cut[:idx+1]
	}
	return strings.TrimSpace(cut) + "\n\n" + TruncationMarker
}
