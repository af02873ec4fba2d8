package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

const anthropicDefaultMaxTokens int64 = 1024

// Ensure AnthropicLLM implements LLMService
var _ driven.LLMService = (*AnthropicLLM)(nil)

// AnthropicLLM implements LLMService via the Anthropic Messages API.
type AnthropicLLM struct {
	sdk   anthropic.Client
	model string
}

// NewAnthropicLLM creates a new Anthropic LLM service.
func NewAnthropicLLM(apiKey, model string) (driven.LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)

	return &AnthropicLLM{sdk: client, model: model}, nil
}

// Classify asks the model to assign a domain/category when rule-based
// classification was inconclusive (spec §4.2 step 6).
func (a *AnthropicLLM) Classify(ctx context.Context, filename, text string, domains []string) (driven.LLMClassification, error) {
	if len(text) > 4000 {
		text = text[:4000]
	}
	prompt := fmt.Sprintf(
		"Classify this document into exactly one of these domains: %s.\nFilename: %s\nText excerpt:\n%s\n\nRespond with strict JSON only, no prose: {\"domain\": \"...\", \"category\": \"...\", \"confidence\": 0.0-1.0}",
		strings.Join(domains, ", "), filename, text,
	)

	resp, err := a.send(ctx, prompt)
	if err != nil {
		return driven.LLMClassification{}, err
	}

	resp = extractJSON(resp)
	var out struct {
		Domain     string  `json:"domain"`
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(resp), &out); err != nil {
		return driven.LLMClassification{}, fmt.Errorf("parsing classification response: %w", err)
	}
	return driven.LLMClassification{Domain: out.Domain, Category: out.Category, Confidence: out.Confidence}, nil
}

// GenerateAnswer produces a grounded answer using only the supplied
// numbered source passages, instructed to refuse when they don't answer
// the question (spec §4.9 step 8-9).
func (a *AnthropicLLM) GenerateAnswer(ctx context.Context, query string, sources []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("Answer the question using ONLY the numbered sources below. If the sources do not contain the answer, reply exactly: \"I don't have enough information to answer that.\"\n\n")
	for i, s := range sources {
		fmt.Fprintf(&sb, "[%d] %s\n\n", i+1, s)
	}
	fmt.Fprintf(&sb, "Question: %s\n", query)

	return a.send(ctx, sb.String())
}

func (a *AnthropicLLM) send(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicDefaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := a.sdk.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic message request: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(v.Text)
		}
	}
	return sb.String(), nil
}

// extractJSON trims any leading/trailing prose the model wraps around a
// JSON object despite instructions, keeping only the outermost braces.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

// Model returns the model name being used.
func (a *AnthropicLLM) Model() string { return a.model }

// Ping verifies the LLM service is available with a minimal request.
func (a *AnthropicLLM) Ping(ctx context.Context) error {
	_, err := a.send(ctx, "ping")
	return err
}

// Close releases resources held by the LLM service.
func (a *AnthropicLLM) Close() error {
	return nil
}
