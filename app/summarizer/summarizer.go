package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Sentinel errors classifying summarization failures. Model output is parsed
// and schema-validated before any value is used. No automatic retry is
// performed; the caller decides whether to retry or skip.
var (
	ErrEmptyInput  = errors.New("input text is empty")
	ErrUnavailable = errors.New("summarization backend unavailable")
	ErrParse       = errors.New("failed to parse model output")
	ErrSchema      = errors.New("model output missing required fields")
)

const promptTemplate = `You are a helpful AI assistant.
Your task is to summarize the provided text into a JSON object.

Strictly return ONLY a JSON object with the following keys:
- "title": A short, catchy headline.
- "summary": A concise summary (2-3 sentences).
- "whyItMatters": A brief explanation of significance.

Example format:
{
  "title": "Example Title",
  "summary": "Example summary text.",
  "whyItMatters": "Example significance."
}

Do not include any markdown, explanations, or extra text outside the JSON.

Text to summarize:
%s
`

// Summary is the validated output of a summarization call
type Summary struct {
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	WhyItMatters string `json:"whyItMatters"`
}

// Client talks to an Ollama-compatible /api/generate endpoint
type Client struct {
	url        string
	model      string
	httpClient *http.Client
}

// NewClient creates a summarizer client for the given generate endpoint and
// model name
func NewClient(url, model string, httpClient *http.Client) *Client {
	return &Client{
		url:        url,
		model:      model,
		httpClient: httpClient,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Run summarizes the given text into a {title, summary, whyItMatters} triple
func (c *Client) Run(ctx context.Context, text string) (*Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	payload, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  fmt.Sprintf(promptTemplate, text),
		Stream:  false,
		Format:  "json",
		Options: generateOptions{Temperature: 0.7},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP error: %d %s", ErrUnavailable, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	var envelope generateResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope: %v", ErrUnavailable, err)
	}
	if envelope.Response == "" {
		return nil, fmt.Errorf("%w: empty model response", ErrUnavailable)
	}

	summary, err := parseModelOutput(envelope.Response)
	if err != nil {
		return nil, err
	}

	slog.Debug("Text summarized", "model", c.model, "input_length", len(text), "title", summary.Title)

	return summary, nil
}

// parseModelOutput strips incidental code-fence wrapping, parses the JSON and
// validates that all three required fields are present and non-empty
func parseModelOutput(raw string) (*Summary, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var summary Summary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	summary.Title = strings.TrimSpace(summary.Title)
	summary.Summary = strings.TrimSpace(summary.Summary)
	summary.WhyItMatters = strings.TrimSpace(summary.WhyItMatters)

	if summary.Title == "" || summary.Summary == "" || summary.WhyItMatters == "" {
		return nil, fmt.Errorf("%w: got title=%t summary=%t whyItMatters=%t", ErrSchema,
			summary.Title != "", summary.Summary != "", summary.WhyItMatters != "")
	}

	return &summary, nil
}
