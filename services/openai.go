package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"form_forge_app_go/config"
	"net/http"
	"time"
)

// CompletionClient produces a raw text completion for a prompt. The
// orchestrator depends on this interface so tests can stub the model.
type CompletionClient interface {
	// Configured reports whether the client has a usable credential
	Configured() bool
	// Complete sends the prompt and returns the assistant's text completion
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatMessage is one message of a chat-completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAIClient calls the OpenAI chat-completions endpoint
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient creates a client from config. The HTTP client timeout is a
// hard upper bound; callers additionally pass a per-request context.
func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	timeout := cfg.OpenAITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIClient{
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
		baseURL: cfg.OpenAIBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is set
func (c *OpenAIClient) Configured() bool {
	return c.apiKey != ""
}

// Complete sends the prompt as a single system message and extracts the
// assistant's text completion from the provider envelope
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("completion API error (%s): %s", result.Error.Type, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return result.Choices[0].Message.Content, nil
}
