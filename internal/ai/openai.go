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
var _ Provider = (*OpenAIProvider)(nil)

const (
	openaiBaseURL      = "https://api.openai.com/v1"
	openaiDefaultModel = "gpt-4o-mini"
)

// OpenAIProvider implements Provider against the OpenAI Chat Completions
// API (and any OpenAI-compatible endpoint).
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates an OpenAIProvider from an encrypted API key.
// The key is decrypted once, here; an empty or undecryptable ciphertext
// leaves the provider unconfigured rather than failing construction.
func NewOpenAIProvider(cipherKey string, codec *secrets.Codec, model string) *OpenAIProvider {
	if model == "" {
		model = openaiDefaultModel
	}

	apiKey, err := codec.Decrypt(cipherKey)
	if err != nil {
		slog.Warn("could not decrypt openai credential", "error", err)
		apiKey = ""
	}

	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: openaiBaseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ID returns "openai".
func (p *OpenAIProvider) ID() string { return "openai" }

// Name returns the display name.
func (p *OpenAIProvider) Name() string { return "OpenAI" }

// IsConfigured reports whether a non-empty API key was recovered.
func (p *OpenAIProvider) IsConfigured() bool { return p.apiKey != "" }

// openaiRequest is the request body for the Chat Completions API.
type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

// openaiMessage is a single message in the request.
type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiResponse is the response body from the Chat Completions API.
type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeForCategories suggests categories and tags using the Chat
// Completions API.
func (p *OpenAIProvider) AnalyzeForCategories(ctx context.Context, content string, categories, tags []models.Term, audience *models.Audience) (*models.CategorySuggestions, error) {
	if !p.IsConfigured() {
		return nil, fault.New(fault.KindNotConfigured, "OpenAI API key is not configured")
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

// SuggestAudience picks the best-matching audience using the Chat
// Completions API.
func (p *OpenAIProvider) SuggestAudience(ctx context.Context, content string, audiences []models.Audience) (*models.AudienceSuggestion, error) {
	if !p.IsConfigured() {
		return nil, fault.New(fault.KindNotConfigured, "OpenAI API key is not configured")
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

// RewriteContent rewrites content in the compiled voice using the Chat
// Completions API.
func (p *OpenAIProvider) RewriteContent(ctx context.Context, content, voicePrompt string, audience *models.Audience) (string, error) {
	if !p.IsConfigured() {
		return "", fault.New(fault.KindNotConfigured, "OpenAI API key is not configured")
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

// callAPI posts one chat-completion request and returns the first choice's
// text. Vendor failures (status >= 400) become api_error faults carrying
// the vendor message and status; transport failures become network_error.
func (p *OpenAIProvider) callAPI(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := openaiRequest{
		Model: p.model,
		Messages: []openaiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("calling OpenAI API", "model", p.model)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fault.Newf(fault.KindNetworkError, "request to OpenAI failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fault.Newf(fault.KindNetworkError, "reading OpenAI response: %v", err)
	}

	var apiResp openaiResponse
	if resp.StatusCode >= 400 {
		message := "unknown API error"
		if json.Unmarshal(respBody, &apiResp) == nil && apiResp.Error != nil {
			message = apiResp.Error.Message
		}
		return "", fault.API(message, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fault.Newf(fault.KindParseError, "unreadable OpenAI response (status %d)", resp.StatusCode)
	}

	if len(apiResp.Choices) == 0 {
		return "", fault.New(fault.KindEmptyResponse, "no choices returned")
	}

	return apiResp.Choices[0].Message.Content, nil
}
