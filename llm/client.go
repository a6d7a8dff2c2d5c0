package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fridgekeeper/config"
)

// ErrNotConfigured is returned when no API key is available. The
// server keeps running without one; only the classify endpoint is
// disabled.
var ErrNotConfigured = errors.New("OPENAI_API_KEY not configured")

type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multi-part user message, either
// text or an image reference.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ChatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	MaxTokens        int       `json:"max_tokens,omitempty"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p,omitempty"`
	FrequencyPenalty float64   `json:"frequency_penalty,omitempty"`
}

type Choice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Choices []Choice `json:"choices"`
}

// Client talks to an OpenAI-compatible chat completions API. Build it
// once at startup and inject it into the handlers that need it.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewClient builds a client from the environment.
func NewClient() *Client {
	return NewClientWith(
		config.GetEnv("OPENAI_API_KEY", ""),
		config.GetEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		config.GetEnv("LLM_MODEL", "gpt-4o"),
	)
}

// NewClientWith builds a client with explicit settings.
func NewClientWith(apiKey, baseURL, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Chat makes one synchronous chat completions call and returns the
// first choice's text.
func (c *Client) Chat(messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := ChatRequest{
		Model:            c.model,
		Messages:         messages,
		MaxTokens:        1000,
		Temperature:      0,
		TopP:             0.3,
		FrequencyPenalty: 0.1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
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
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

const classifyPrompt = `You are an analyst who identifies the food items visible in a fridge photo.

List every distinct food item you can see. For each item report:
1. The item name, using the most common grocery name.
2. The quantity, counting pieces where items are countable and estimating weight or volume otherwise.
3. The storage state if visible (sealed, opened, partially used).

Report one item per line as "name: quantity unit". Do not invent items you cannot see. If the image contains no food, say so.`

// ClassifyImage sends one image, already encoded as a base64 data
// URI, together with the fixed food-enumeration instruction, and
// returns the model's raw text.
func (c *Client) ClassifyImage(dataURI string) (string, error) {
	messages := []Message{
		{Role: "system", Content: classifyPrompt},
		{Role: "user", Content: []ContentPart{
			{Type: "image_url", ImageURL: &ImageURL{URL: dataURI}},
		}},
	}
	return c.Chat(messages)
}
