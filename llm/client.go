package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/habitloop/health-backend/config"
)

// Schema is a JSON-schema-like description of the expected response shape.
// It is embedded verbatim into the request so the model sees the exact
// structure it must return. Schema alone does not enforce array lengths;
// callers validate cardinality on the result.
type Schema map[string]interface{}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

type chatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Choices []choice `json:"choices"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewClient(cfg config.InferenceConfig) *Client {
	return &Client{
		apiKey:  config.Resolve(cfg.APIKey, "LLM_API_KEY", ""),
		baseURL: config.Resolve(cfg.BaseURL, "LLM_BASE_URL", "https://api.openai.com/v1"),
		model:   config.Resolve(cfg.Model, "LLM_MODEL", "gpt-4o-mini"),
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Chat sends the messages and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("LLM_API_KEY not configured")
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   8192,
		Temperature: 0.7,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// GenerateJSON sends a structured generation request: the prompt plus the
// expected response schema, with an instruction to return only conforming
// JSON. The result is decoded into out.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema Schema, out interface{}) error {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	system := fmt.Sprintf(
		"You are a structured data generator. Respond with a single JSON object conforming exactly to this JSON schema, with no surrounding text:\n%s",
		string(schemaJSON))

	resp, err := c.Chat(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}, true)
	if err != nil {
		return err
	}

	cleaned := StripCodeFences(resp)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("parse generated JSON: %w", err)
	}
	return nil
}

// StripCodeFences removes a markdown ```json fence the model sometimes wraps
// its output in despite instructions.
func StripCodeFences(s string) string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
