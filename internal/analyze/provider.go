package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"bottomfeeder/internal/config"
)

// Provider is the interface for text-completion backends.
type Provider interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

const systemInstruction = "You are an assistant that extracts specific information from articles."

// ChatProvider talks to an OpenAI-compatible chat-completions endpoint with
// bearer-token authentication.
type ChatProvider struct {
	BaseURL     string
	Model       string
	Temperature float64
	apiKey      string
	client      *http.Client
}

// NewChatProvider creates a provider from config. The credential must
// already be resolved; config.Analyzer.Key does the fail-fast check.
func NewChatProvider(cfg config.Analyzer, apiKey string) *ChatProvider {
	return &ChatProvider{
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		apiKey:      apiKey,
		client:      &http.Client{Timeout: cfg.Timeout()},
	}
}

// Generate sends a prompt to the completion service and returns the reply
// text. The call is not retried.
func (p *ChatProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := map[string]any{
		"model": p.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemInstruction},
			{"role": "user", "content": prompt},
		},
		"temperature": p.Temperature,
		"max_tokens":  maxTokens,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return result.Choices[0].Message.Content, nil
}
