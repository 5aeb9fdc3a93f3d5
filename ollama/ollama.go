// Package ollama is a minimal client for the Ollama generate API, used by
// the AI enrichment strategy.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zombar/llmstxt/models"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
)

// Client talks to a single Ollama instance.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates an Ollama client.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout:   120 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Generate sends a prompt and returns the full (non-streamed) response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := models.OllamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ollamaResp models.OllamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return ollamaResp.Response, nil
}

// SiteSummary is the page digest handed to the model for analysis.
type SiteSummary struct {
	URL         string
	Title       string
	Description string
	Content     string
}

const analyzePromptFmt = `Analyze this website content and provide:
1. A concise, professional description (1-2 sentences)
2. The main purpose/category of the website
3. Key topics covered
4. Target audience
5. Content quality assessment (1-10)

Website: %s
Title: %s
Description: %s
Content: %s

Respond with a single JSON object with keys: description, category, topics, audience, quality_score`

// AnalyzeSite asks the model for site-level insights and parses the JSON
// reply. Responses wrapped in markdown code fences are tolerated.
func (c *Client) AnalyzeSite(ctx context.Context, summary SiteSummary) (*models.AIInsights, error) {
	prompt := fmt.Sprintf(analyzePromptFmt, summary.URL, summary.Title, summary.Description, summary.Content)

	response, err := c.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var insights models.AIInsights
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse insights: %w", err)
	}
	return &insights, nil
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
