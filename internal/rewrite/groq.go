package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	groqURL          = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModel = "llama3-8b-8192"
)

// GroqProvider speaks the OpenAI-compatible chat completions API that Groq
// exposes.
type GroqProvider struct {
	Model      string
	APIKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGroqProvider(model, apiKey string) *GroqProvider {
	return NewGroqProviderWithClient(model, apiKey, "", nil)
}

// NewGroqProviderWithClient overrides the endpoint and HTTP client.
func NewGroqProviderWithClient(model, apiKey, baseURL string, client *http.Client) *GroqProvider {
	if model == "" {
		model = defaultGroqModel
	}
	if baseURL == "" {
		baseURL = groqURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GroqProvider{
		Model:      model,
		APIKey:     apiKey,
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (p *GroqProvider) ID() string {
	return "groq:" + p.Model
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *GroqProvider) Complete(ctx context.Context, req Request) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("groq: %w", ErrUnavailable)
	}

	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       p.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API returned status: %s", resp.Status)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode groq response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("groq API returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
