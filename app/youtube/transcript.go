package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	timedTextURL      = "https://video.google.com/timedtext"
	maxTranscriptSize = 4 * 1024 * 1024
)

// TranscriptClient fetches caption tracks from YouTube's timedtext endpoint.
// Not every video has one; callers fall back to the video description.
type TranscriptClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewTranscriptClient creates a transcript client sharing the given HTTP
// client
func NewTranscriptClient(httpClient *http.Client) *TranscriptClient {
	return &TranscriptClient{
		httpClient: httpClient,
		baseURL:    timedTextURL,
	}
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch retrieves the English transcript for a video and joins its segments
// into plain text. An empty result means no transcript is available.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=en&v=%s", c.baseURL, url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript request failed: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscriptSize))
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}

	// The endpoint returns an empty body when no caption track exists
	if len(data) == 0 {
		return "", nil
	}

	return ParseTranscript(data)
}

// ParseTranscript joins the text segments of a timedtext XML document
func ParseTranscript(data []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to parse transcript XML: %w", err)
	}

	segments := make([]string, 0, len(doc.Texts))
	for _, segment := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(segment.Value))
		if text != "" {
			segments = append(segments, text)
		}
	}

	return strings.Join(segments, " "), nil
}
