package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// Ensure OpenAILLM implements LLMService
var _ driven.LLMService = (*OpenAILLM)(nil)

// OpenAILLM implements LLMService via OpenAI's chat completions REST endpoint.
type OpenAILLM struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAILLM creates a new OpenAI LLM service.
func NewOpenAILLM(apiKey, model, baseURL string) (driven.LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAILLM{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *responseFmt  `json:"response_format,omitempty"`
}

type responseFmt struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Classify asks the model to assign a domain/category when rule-based
// classification was inconclusive (spec §4.2 step 6). The model is
// instructed to return strict JSON so the result parses deterministically.
func (o *OpenAILLM) Classify(ctx context.Context, filename, text string, domains []string) (driven.LLMClassification, error) {
	if len(text) > 4000 {
		text = text[:4000]
	}
	prompt := fmt.Sprintf(
		"Classify this document into exactly one of these domains: %s.\nFilename: %s\nText excerpt:\n%s\n\nRespond with strict JSON: {\"domain\": \"...\", \"category\": \"...\", \"confidence\": 0.0-1.0}",
		strings.Join(domains, ", "), filename, text,
	)

	resp, err := o.doChat(ctx, []chatMessage{{Role: "user", Content: prompt}}, true)
	if err != nil {
		return driven.LLMClassification{}, err
	}

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
func (o *OpenAILLM) GenerateAnswer(ctx context.Context, query string, sources []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("Answer the question using ONLY the numbered sources below. If the sources do not contain the answer, reply exactly: \"I don't have enough information to answer that.\"\n\n")
	for i, s := range sources {
		fmt.Fprintf(&sb, "[%d] %s\n\n", i+1, s)
	}
	fmt.Fprintf(&sb, "Question: %s\n", query)

	return o.doChat(ctx, []chatMessage{{Role: "user", Content: sb.String()}}, false)
}

func (o *OpenAILLM) doChat(ctx context.Context, messages []chatMessage, jsonMode bool) (string, error) {
	reqBody := chatRequest{Model: o.model, Messages: messages, Temperature: 0.1}
	if jsonMode {
		reqBody.ResponseFormat = &responseFmt{Type: "json_object"}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned status %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// Model returns the model name being used.
func (o *OpenAILLM) Model() string { return o.model }

// Ping verifies the LLM service is available with a minimal completion call.
func (o *OpenAILLM) Ping(ctx context.Context) error {
	_, err := o.doChat(ctx, []chatMessage{{Role: "user", Content: "ping"}}, false)
	return err
}

// Close releases resources held by the LLM service.
func (o *OpenAILLM) Close() error {
	o.client.CloseIdleConnections()
	return nil
}
