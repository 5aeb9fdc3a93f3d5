// Package llmstxt analyzes a single web page and produces an llms.txt
// summary document: a title, a blockquote description, and categorized
// internal link sections.
//
// Two pipelines exist. The basic pipeline runs independent keyword scans
// over the page's anchors, so a link may appear in several categories. The
// advanced pipeline extracts richer metadata (keywords, link context,
// content text), scores every link against a fixed category set so each
// link lands in exactly one bucket, and computes a composite quality score.
// The two classification semantics are deliberately kept separate.
package llmstxt

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zombar/llmstxt/models"
	"github.com/zombar/llmstxt/ollama"
)

// Config contains generator configuration
type Config struct {
	HTTPTimeout            time.Duration // advanced pipeline fetch timeout
	BasicHTTPTimeout       time.Duration // basic pipeline fetch timeout
	EnableBrowserRendering bool          // render pages in headless Chrome before re-extraction
	EnableAIAnalysis       bool          // ask an Ollama model for site insights
	OllamaBaseURL          string
	OllamaModel            string
}

// DefaultConfig returns default generator configuration. Both enrichment
// strategies are off: the pipeline runs fully static unless configured
// otherwise.
func DefaultConfig() Config {
	return Config{
		HTTPTimeout:      30 * time.Second,
		BasicHTTPTimeout: 10 * time.Second,
		OllamaBaseURL:    ollama.DefaultBaseURL,
		OllamaModel:      ollama.DefaultModel,
	}
}

const (
	advancedUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	basicUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Generator runs page analyses. Safe for concurrent use: every analysis
// owns its record exclusively and nothing is cached between requests.
type Generator struct {
	config      Config
	client      *http.Client
	basicClient *http.Client
	browser     Enricher
	ai          Enricher
}

// New creates a new Generator instance
func New(config Config) *Generator {
	g := &Generator{
		config: config,
		client: &http.Client{
			Timeout:   config.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		basicClient: &http.Client{
			Timeout:   config.BasicHTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		browser: NoopEnricher{},
		ai:      NoopEnricher{},
	}
	if config.EnableBrowserRendering {
		g.browser = NewBrowserEnricher(2*config.HTTPTimeout, advancedUserAgent)
	}
	if config.EnableAIAnalysis {
		g.ai = NewAIEnricher(ollama.NewClient(config.OllamaBaseURL, config.OllamaModel))
	}
	return g
}

// Analyze runs the basic pipeline: fetch, extract title and description,
// scan links into the reduced category set.
func (g *Generator) Analyze(ctx context.Context, rawURL string) (*models.BasicRecord, error) {
	target, err := NewTarget(NormalizeURL(rawURL))
	if err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, g.basicClient, target, basicUserAgent)
	if err != nil {
		return nil, err
	}

	return &models.BasicRecord{
		Title:       extractBasicTitle(doc, target),
		Description: extractBasicDescription(doc, target),
		Links:       basicCategorize(doc, target),
	}, nil
}

// Generate runs the basic pipeline and renders the result.
func (g *Generator) Generate(ctx context.Context, rawURL string) (string, *models.BasicRecord, error) {
	record, err := g.Analyze(ctx, rawURL)
	if err != nil {
		return "", nil, err
	}
	return RenderBasic(record), record, nil
}

// AnalyzeAdvanced runs the enhanced pipeline. The returned step log is
// valid even on failure: it records how far the analysis got.
func (g *Generator) AnalyzeAdvanced(ctx context.Context, rawURL string) (*models.SiteRecord, []string, error) {
	steps := []string{"Initializing advanced analysis..."}

	target, err := NewTarget(NormalizeURL(rawURL))
	if err != nil {
		return nil, steps, err
	}

	steps = append(steps, "Extracting basic website content...")
	doc, err := fetchDocument(ctx, g.client, target, advancedUserAgent)
	if err != nil {
		return nil, steps, err
	}

	record := &models.SiteRecord{
		Title:       extractTitle(doc, target),
		Description: extractDescription(doc, target),
		Keywords:    extractKeywords(doc),
		RawLinks:    extractLinks(doc, target),
	}
	// Must come last: extractMainContent strips nav/header subtrees.
	record.ContentText = extractMainContent(doc)

	steps = append(steps, "Rendering JavaScript content...")
	if err := g.browser.Enrich(ctx, target, record); err != nil {
		slog.Warn("browser enrichment failed, continuing with static content", "url", target.URL, "error", err)
	}

	steps = append(steps, "Analyzing content with AI...")
	if err := g.ai.Enrich(ctx, target, record); err != nil {
		slog.Warn("ai enrichment failed, continuing without insights", "url", target.URL, "error", err)
	}

	steps = append(steps, "Calculating content quality score...")
	record.QualityScore = qualityScore(record)

	steps = append(steps, "Categorizing content intelligently...")
	record.CategorizedLinks = categorizeLinks(record.RawLinks)

	steps = append(steps, "Analysis complete!")
	return record, steps, nil
}

// GenerateAdvanced runs the enhanced pipeline and renders the result.
func (g *Generator) GenerateAdvanced(ctx context.Context, rawURL string) (string, *models.SiteRecord, []string, error) {
	record, steps, err := g.AnalyzeAdvanced(ctx, rawURL)
	if err != nil {
		return "", nil, steps, err
	}
	target, err := NewTarget(NormalizeURL(rawURL))
	if err != nil {
		return "", nil, steps, err
	}
	return RenderAdvanced(record, target.Domain), record, steps, nil
}
