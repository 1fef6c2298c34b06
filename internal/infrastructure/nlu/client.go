package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cartcompare/backend/internal/domain"
)

// Defaults for the chat-completions API
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "google/gemini-2.0-flash-001"
	DefaultTimeout = 60 * time.Second
)

const systemPrompt = `You turn shopping requests into shopping lists. The user may write, upload a photo of a handwritten list or a product, or send a voice note.
Reply with a JSON array only, one element per product:
[{"name": "<product as it would appear on a supermarket shelf>", "quantity": <integer, 1 if not stated>}]
Reply with [] when the input mentions no products. Do not add any other text.`

// Error represents an error that occurred while talking to the extraction API
type Error struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return "nlu error: " + e.Op
	}
	return "nlu error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds configuration for the extraction client
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// Referer is sent as HTTP-Referer, OpenRouter uses it for attribution
	Referer string
}

// Client extracts shopping lists through an OpenAI-compatible
// chat-completions endpoint
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	referer    string
	httpClient *http.Client
}

// NewClient creates a new extraction client
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  config.APIKey,
		apiURL:  strings.TrimRight(baseURL, "/") + "/chat/completions",
		model:   model,
		referer: config.Referer,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	ImageURL   *imageURL   `json:"image_url,omitempty"`
	InputAudio *inputAudio `json:"input_audio,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type inputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// ExtractList sends the user input to the model and parses the product list
// from its reply
func (c *Client) ExtractList(ctx context.Context, req domain.ExtractRequest) ([]domain.RequestedItem, error) {
	if c.apiKey == "" {
		return nil, &Error{Op: "validate_configuration", Err: domain.ErrExtractorUnavailable}
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: []contentPart{{Type: "text", Text: systemPrompt}}},
			{Role: "user", Content: buildUserContent(req)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Op: "marshal_request", Err: fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: "create_request", Err: fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.referer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: "send_request", Err: fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "read_response", Err: fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Op:  "check_api_response",
			Err: fmt.Errorf("%w: %s - %s", domain.ErrExtractionFailed, resp.Status, truncate(string(respBody), 300)),
		}
	}

	return parseChatResponse(respBody)
}

// buildUserContent attaches every provided input as its own content part
func buildUserContent(req domain.ExtractRequest) []contentPart {
	parts := make([]contentPart, 0, 3)

	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = "Extract the shopping list from the attached input."
	}
	parts = append(parts, contentPart{Type: "text", Text: text})

	if req.ImageURL != "" {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: req.ImageURL}})
	}

	if req.AudioBase64 != "" {
		format := req.AudioFormat
		if format == "" {
			format = "wav"
		}
		parts = append(parts, contentPart{Type: "input_audio", InputAudio: &inputAudio{Data: req.AudioBase64, Format: format}})
	}

	return parts
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
