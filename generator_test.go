package llmstxt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Docs</title>
	<meta name="description" content="Acme API documentation">
	<meta name="keywords" content="acme, api, docs">
</head>
<body>
	<nav><a href="/home">Home Page</a></nav>
	<main>
		<p>Acme provides a full platform for building, testing and shipping integrations with minimal setup.</p>
		<a href="/api/ref">API Reference</a>
		<a href="/docs/start">Getting Started</a>
		<a href="https://elsewhere.net/external">External Site</a>
	</main>
</body>
</html>`

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(fixturePage))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNew(t *testing.T) {
	g := New(DefaultConfig())

	if g == nil {
		t.Fatal("Expected generator to be non-nil")
	}
	if g.client == nil || g.basicClient == nil {
		t.Error("Expected HTTP clients to be non-nil")
	}
	if _, ok := g.browser.(NoopEnricher); !ok {
		t.Error("Expected browser enrichment to default to noop")
	}
	if _, ok := g.ai.(NoopEnricher); !ok {
		t.Error("Expected AI enrichment to default to noop")
	}
}

func TestNewEnablesEnrichers(t *testing.T) {
	config := DefaultConfig()
	config.EnableBrowserRendering = true
	config.EnableAIAnalysis = true
	g := New(config)

	if _, ok := g.browser.(*BrowserEnricher); !ok {
		t.Errorf("Expected browser enricher, got %T", g.browser)
	}
	if _, ok := g.ai.(*AIEnricher); !ok {
		t.Errorf("Expected AI enricher, got %T", g.ai)
	}
}

func TestAnalyze(t *testing.T) {
	server := fixtureServer(t)
	g := New(DefaultConfig())

	record, err := g.Analyze(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if record.Title != "Acme Docs" {
		t.Errorf("Title = %q", record.Title)
	}
	if record.Description != "Acme API documentation" {
		t.Errorf("Description = %q", record.Description)
	}
	if len(record.Links["Navigation"]) != 1 {
		t.Errorf("Navigation = %+v", record.Links["Navigation"])
	}
	if len(record.Links["Documentation"]) != 1 {
		t.Errorf("Documentation = %+v", record.Links["Documentation"])
	}
	if len(record.Links["API"]) != 1 {
		t.Errorf("API = %+v", record.Links["API"])
	}
}

func TestGenerate(t *testing.T) {
	server := fixtureServer(t)
	g := New(DefaultConfig())

	content, record, err := g.Generate(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected record alongside content")
	}

	if !strings.HasPrefix(content, "# Acme Docs\n\n> Acme API documentation\n\n") {
		t.Errorf("Bad document header:\n%s", content)
	}
	if !strings.Contains(content, "## Documentation\n\n- [Getting Started]("+server.URL+"/docs/start)") {
		t.Errorf("Missing Documentation section:\n%s", content)
	}
	if !strings.Contains(content, "## API\n\n- [API Reference]("+server.URL+"/api/ref)") {
		t.Errorf("Missing API section:\n%s", content)
	}
	if strings.Contains(content, "elsewhere.net") {
		t.Errorf("External link leaked into document:\n%s", content)
	}

	docIdx := strings.Index(content, "## Documentation")
	apiIdx := strings.Index(content, "## API")
	if docIdx > apiIdx {
		t.Errorf("Documentation must precede API:\n%s", content)
	}
}

func TestAnalyzeAdvanced(t *testing.T) {
	server := fixtureServer(t)
	g := New(DefaultConfig())

	record, steps, err := g.AnalyzeAdvanced(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("AnalyzeAdvanced failed: %v", err)
	}

	wantSteps := []string{
		"Initializing advanced analysis...",
		"Extracting basic website content...",
		"Rendering JavaScript content...",
		"Analyzing content with AI...",
		"Calculating content quality score...",
		"Categorizing content intelligently...",
		"Analysis complete!",
	}
	if len(steps) != len(wantSteps) {
		t.Fatalf("Got %d steps, want %d: %v", len(steps), len(wantSteps), steps)
	}
	for i, want := range wantSteps {
		if steps[i] != want {
			t.Errorf("steps[%d] = %q, want %q", i, steps[i], want)
		}
	}

	if record.Title != "Acme Docs" {
		t.Errorf("Title = %q", record.Title)
	}
	if record.Keywords != "acme, api, docs" {
		t.Errorf("Keywords = %q", record.Keywords)
	}
	if record.ContentText == "" {
		t.Error("Expected non-empty content text")
	}
	// Nav anchor plus the two main anchors; external excluded.
	if len(record.RawLinks) != 3 {
		t.Errorf("RawLinks = %+v", record.RawLinks)
	}
	if record.CategorizedLinks == nil {
		t.Fatal("Expected categorized links")
	}
	if record.QualityScore <= 0 || record.QualityScore > 100 {
		t.Errorf("QualityScore = %d", record.QualityScore)
	}
	if record.AIAnalysis != nil {
		t.Error("AI analysis must stay nil when enrichment is disabled")
	}
}

func TestAnalyzeAdvancedFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	g := New(DefaultConfig())
	_, steps, err := g.AnalyzeAdvanced(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got %T: %v", err, err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d", fetchErr.StatusCode)
	}

	// The step log stops before any post-fetch stage.
	want := []string{"Initializing advanced analysis...", "Extracting basic website content..."}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v", steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("steps[%d] = %q, want %q", i, steps[i], want[i])
		}
	}
}

func TestGenerateAdvanced(t *testing.T) {
	server := fixtureServer(t)
	g := New(DefaultConfig())

	content, record, steps, err := g.GenerateAdvanced(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GenerateAdvanced failed: %v", err)
	}

	if !strings.HasPrefix(content, "# Acme Docs\n") {
		t.Errorf("Bad document header:\n%s", content)
	}
	if record == nil || record.QualityScore == 0 {
		t.Errorf("Expected scored record, got %+v", record)
	}
	if steps[len(steps)-1] != "Analysis complete!" {
		t.Errorf("Last step = %q", steps[len(steps)-1])
	}
}

func TestAnalyzeInvalidURL(t *testing.T) {
	g := New(DefaultConfig())

	if _, err := g.Analyze(context.Background(), "http://%zz-invalid"); err == nil {
		t.Error("Expected error for unparseable URL")
	}
}
