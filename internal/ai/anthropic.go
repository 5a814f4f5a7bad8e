package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/inkwelldev/inkwell/internal/fault"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/secrets"
)

// Compile-time interface check.
var _ Provider = (*AnthropicProvider)(nil)

const (
	anthropicBaseURL      = "https://api.anthropic.com/v1"
	anthropicDefaultModel = "claude-haiku-4-5"
	anthropicAPIVersion   = "2023-06-01"
)

// AnthropicProvider implements Provider against the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropicProvider creates an AnthropicProvider from an encrypted API
// key. The key is decrypted once, here; an empty or undecryptable
// ciphertext leaves the provider unconfigured.
func NewAnthropicProvider(cipherKey string, codec *secrets.Codec, model string) *AnthropicProvider {
	if model == "" {
		model = anthropicDefaultModel
	}

	apiKey, err := codec.Decrypt(cipherKey)
	if err != nil {
		slog.Warn("could not decrypt anthropic credential", "error", err)
		apiKey = ""
	}

	return &AnthropicProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicBaseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ID returns "anthropic".
func (p *AnthropicProvider) ID() string { return "anthropic" }

// Name returns the display name.
func (p *AnthropicProvider) Name() string { return "Anthropic" }

// IsConfigured reports whether a non-empty API key was recovered.
func (p *AnthropicProvider) IsConfigured() bool { return p.apiKey != "" }

// anthropicRequest is the request body for the Messages API.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

// anthropicMessage is a single message in the request.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the response body from the Messages API.
type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeForCategories suggests categories and tags using the Messages API.
func (p *AnthropicProvider) AnalyzeForCategories(ctx context.Context, content string, categories, tags []models.Term, audience *models.Audience) (*models.CategorySuggestions, error) {
	if !p.IsConfigured() {
		return nil, fault.New(fault.KindNotConfigured, "Anthropic API key is not configured")
	}

	text, err := p.callAPI(ctx,
		BuildCategorizationPrompt(categories, tags, audience),
		analyzeUserPrompt(content),
		structuredTemperature, categorizeMaxTokens,
	)
	if err != nil {
		return nil, err
	}

	return decodeCategorySuggestions(text)
}

// SuggestAudience picks the best-matching audience using the Messages API.
func (p *AnthropicProvider) SuggestAudience(ctx context.Context, content string, audiences []models.Audience) (*models.AudienceSuggestion, error) {
	if !p.IsConfigured() {
		return nil, fault.New(fault.KindNotConfigured, "Anthropic API key is not configured")
	}
	if len(audiences) == 0 {
		return nil, fault.New(fault.KindNoAudiences, "no audiences defined")
	}

	text, err := p.callAPI(ctx,
		BuildAudiencePrompt(audiences),
		analyzeUserPrompt(content),
		structuredTemperature, audienceMaxTokens,
	)
	if err != nil {
		return nil, err
	}

	return decodeAudienceSuggestion(text)
}

// RewriteContent rewrites content in the compiled voice using the Messages
// API.
func (p *AnthropicProvider) RewriteContent(ctx context.Context, content, voicePrompt string, audience *models.Audience) (string, error) {
	if !p.IsConfigured() {
		return "", fault.New(fault.KindNotConfigured, "Anthropic API key is not configured")
	}

	text, err := p.callAPI(ctx,
		BuildRewritePrompt(voicePrompt, audience),
		rewriteUserPrompt(content),
		rewriteTemperature, rewriteMaxTokens,
	)
	if err != nil {
		return "", err
	}

	rewritten := strings.TrimSpace(text)
	if rewritten == "" {
		return "", fault.New(fault.KindEmptyResponse, "AI returned an empty rewrite")
	}
	return rewritten, nil
}

// callAPI posts one messages request and returns the first content block's
// text. Vendor failures map to api_error faults, transport failures to
// network_error.
func (p *AnthropicProvider) callAPI(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := anthropicRequest{
		Model:       p.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)
	req.Header.Set("content-type", "application/json")

	slog.Debug("calling Anthropic API", "model", p.model)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fault.Newf(fault.KindNetworkError, "request to Anthropic failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fault.Newf(fault.KindNetworkError, "reading Anthropic response: %v", err)
	}

	var apiResp anthropicResponse
	if resp.StatusCode >= 400 {
		message := "unknown API error"
		if json.Unmarshal(respBody, &apiResp) == nil && apiResp.Error != nil {
			message = apiResp.Error.Message
		}
		return "", fault.API(message, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fault.Newf(fault.KindParseError, "unreadable Anthropic response (status %d)", resp.StatusCode)
	}

	if len(apiResp.Content) == 0 {
		return "", fault.New(fault.KindEmptyResponse, "no content blocks returned")
	}

	return apiResp.Content[0].Text, nil
}
