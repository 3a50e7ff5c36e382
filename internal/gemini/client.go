// Package gemini is a minimal client for the generative-language
// generateContent REST endpoint. Responses are treated as untrusted: the
// helpers here only get as far as "some JSON object came back"; field-level
// validation belongs to the callers.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNoCandidates = errors.New("gemini: response has no candidates")
	ErrNoParts      = errors.New("gemini: candidate has no content parts")
	ErrEmptyText    = errors.New("gemini: response text is empty")
	ErrNoJSON       = errors.New("gemini: no JSON object in response text")
)

// InlineData carries base64-encoded binary content alongside a text prompt.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

// GenerationConfig mirrors the subset of generation options we use. The
// JSON response MIME hint keeps the model from wrapping output in prose.
type GenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Candidate struct {
	Content *Content `json:"content"`
}

type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Client is the single upstream operation the analyzers depend on. A small
// interface keeps them testable without the network.
type Client interface {
	GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// RestClient calls the hosted generateContent endpoint over HTTPS.
type RestClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

type Config struct {
	APIKey  string
	APIBase string
	Model   string
	Timeout time.Duration
}

func NewRestClient(cfg Config) *RestClient {
	base := strings.TrimRight(cfg.APIBase, "/")
	return &RestClient{
		apiKey:   cfg.APIKey,
		endpoint: fmt.Sprintf("%s/v1beta/models/%s:generateContent", base, strings.TrimSpace(cfg.Model)),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *RestClient) GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	u := c.endpoint + "?" + url.Values{"key": {c.apiKey}}.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Bounded read keeps a hostile error body from blowing up logs.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gemini: unexpected status %d: %s", resp.StatusCode, string(snippet))
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	return &out, nil
}

// ExtractText pulls the first text part out of the first candidate. Every
// missing layer is an error so the callers can collapse it into their
// fallback path.
func ExtractText(resp *GenerateResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", ErrNoParts
	}
	text := strings.TrimSpace(content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// DecodeObject parses model output into a loosely typed map. It first tries
// the full text; if that fails it falls back to the substring between the
// first '{' and the last '}' so stray prose around the object is tolerated.
func DecodeObject(raw string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj != nil {
		return obj, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, ErrNoJSON
	}
	obj = nil
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil || obj == nil {
		return nil, ErrNoJSON
	}
	return obj, nil
}
