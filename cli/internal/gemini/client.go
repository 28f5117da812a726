// Package gemini adapts the Google GenAI SDK (google.golang.org/genai) to the
// single-prompt text generation git-suggest needs, and maps its failures onto
// ErrUnreachable, ErrNoCandidates and *APIError.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"gitsuggest/cli/internal/version"
)

// DefaultBaseURL is the public Gemini API root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const _defaultTimeout = 60 * time.Second

var (
	// ErrUnreachable indicates the API could not be reached (connection failure or 5xx).
	ErrUnreachable = errors.New("gemini API unreachable")
	// ErrNoCandidates indicates a successful response without any generated text.
	ErrNoCandidates = errors.New("gemini returned no text")
)

// APIError is a non-2xx response other than a server error.
type APIError struct {
	StatusCode int
	Status     string // e.g. "INVALID_ARGUMENT", "PERMISSION_DENIED"
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini: HTTP %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini: HTTP %d: %s", e.StatusCode, e.Message)
}

// Client calls the Gemini API with a fixed API key. Use NewClient.
type Client struct {
	genai *genai.Client
}

// Options are the generation settings sent as generationConfig.
type Options struct {
	Temperature     float64
	MaxOutputTokens int
}

// NewClient builds a Gemini client on the Gemini API backend. An empty
// baseURL uses DefaultBaseURL; a nil httpClient gets a 60s timeout.
func NewClient(ctx context.Context, baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: _defaultTimeout}
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: strings.TrimSuffix(baseURL, "/") + "/",
			Headers: http.Header{"User-Agent": []string{version.UserAgent()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &Client{genai: gc}, nil
}

// GenerateContent sends prompt as a single user turn to model and returns the
// text of the first candidate.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string, opts *Options) (string, error) {
	var cfg *genai.GenerateContentConfig
	if opts != nil {
		cfg = &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(opts.Temperature)),
			MaxOutputTokens: int32(opts.MaxOutputTokens),
		}
	}
	resp, err := c.genai.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrNoCandidates, resp.PromptFeedback.BlockReason)
		}
		return "", ErrNoCandidates
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: finish reason %s", ErrNoCandidates, resp.Candidates[0].FinishReason)
	}
	return text, nil
}

// mapError sorts SDK failures into server/transport errors (ErrUnreachable)
// and request errors (*APIError). Anything else is returned wrapped.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("gemini: %w: HTTP %d", ErrUnreachable, apiErr.Code)
		}
		e := &APIError{StatusCode: apiErr.Code, Message: strings.TrimSpace(apiErr.Message)}
		// Plain-text bodies carry the HTTP status line instead of an API status.
		if !strings.HasPrefix(apiErr.Status, fmt.Sprint(apiErr.Code)) {
			e.Status = apiErr.Status
		}
		return e
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return fmt.Errorf("gemini: %w", errors.Join(ErrUnreachable, err))
	}
	return fmt.Errorf("gemini: %w", err)
}
