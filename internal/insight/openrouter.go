package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// defaultFreeModels are tried in order within a single OpenRouter attempt.
// These endpoints accept unauthenticated requests at low rate limits.
var defaultFreeModels = []string{
	"meta-llama/llama-3.2-3b-instruct:free",
	"google/gemma-2-9b-it:free",
	"microsoft/phi-3-mini-128k-instruct:free",
}

// OpenRouter generates text through the OpenRouter chat-completions API.
type OpenRouter struct {
	Models     []string
	APIKey     string // optional
	Referer    string // optional HTTP-Referer header, used for attribution
	httpClient *http.Client
}

// NewOpenRouter creates an OpenRouter backend using the default free models.
func NewOpenRouter(apiKey, referer string) *OpenRouter {
	return &OpenRouter{
		Models:  defaultFreeModels,
		APIKey:  apiKey,
		Referer: referer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name implements Generator.
func (o *OpenRouter) Name() string { return "openrouter" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
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

// Generate implements Generator. Each configured model is tried once; the
// first non-empty completion wins.
func (o *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, model := range o.Models {
		text, err := o.complete(ctx, model, prompt)
		if err == nil && text != "" {
			return text, nil
		}
		if err == nil {
			err = fmt.Errorf("model %s returned empty completion", model)
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no models configured")
	}
	return "", fmt.Errorf("openrouter: %w", lastErr)
}

func (o *OpenRouter) complete(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.APIKey)
	}
	if o.Referer != "" {
		req.Header.Set("HTTP-Referer", o.Referer)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("model %s: status %d: %s", model, resp.StatusCode, payload)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("model %s: no choices in response", model)
	}
	return parsed.Choices[0].Message.Content, nil
}
