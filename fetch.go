package llmstxt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Target identifies the page under analysis. The domain doubles as the
// internal-link test and as the extraction fallback value.
type Target struct {
	URL    string
	Domain string
}

// NewTarget parses and validates a URL into an analysis target.
func NewTarget(rawURL string) (Target, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Target{}, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Target{}, fmt.Errorf("URL must be http or https")
	}
	return Target{URL: rawURL, Domain: parsed.Host}, nil
}

// NormalizeURL prepends https:// when the input has no http(s) scheme.
func NormalizeURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}

// FetchError reports a failed page fetch: transport errors, timeouts and
// non-2xx responses. The whole analysis aborts on it; nothing is retried.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// fetchDocument issues the single outbound GET for the target and parses
// the response body into a document tree.
func fetchDocument(ctx context.Context, client *http.Client, target Target, userAgent string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: target.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: target.URL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
