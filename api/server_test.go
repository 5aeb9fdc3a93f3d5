package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zombar/llmstxt"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Docs</title>
	<meta name="description" content="Acme API documentation">
</head>
<body>
	<main>
		<p>Acme provides a full platform for building, testing and shipping integrations with minimal setup.</p>
		<a href="/api/ref">API Reference</a>
		<a href="/docs/start">Getting Started</a>
	</main>
</body>
</html>`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{
		Addr:            ":0",
		GeneratorConfig: llmstxt.DefaultConfig(),
		CORSEnabled:     false,
	})
}

func newFixtureSite(t *testing.T) *httptest.Server {
	t.Helper()
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(fixturePage))
	}))
	t.Cleanup(site.Close)
	return site
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHandleAnalyzeValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		body       interface{}
		wantStatus int
		wantErr    string
	}{
		{
			name:       "missing url",
			method:     http.MethodPost,
			body:       AnalyzeRequest{},
			wantStatus: http.StatusBadRequest,
			wantErr:    "URL is required",
		},
		{
			name:       "blank url",
			method:     http.MethodPost,
			body:       AnalyzeRequest{URL: "   "},
			wantStatus: http.StatusBadRequest,
			wantErr:    "URL is required",
		},
		{
			name:       "invalid JSON",
			method:     http.MethodPost,
			body:       "not json",
			wantStatus: http.StatusBadRequest,
			wantErr:    "URL is required",
		},
		{
			name:       "GET not allowed",
			method:     http.MethodGet,
			body:       nil,
			wantStatus: http.StatusMethodNotAllowed,
			wantErr:    "method not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, tt.method, "/analyze", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeBody(t, rec)
			if body["error"] != tt.wantErr {
				t.Errorf("error = %v, want %q", body["error"], tt.wantErr)
			}
		})
	}
}

func TestHandleAnalyze(t *testing.T) {
	srv := newTestServer(t)
	site := newFixtureSite(t)

	rec := doJSON(t, srv, http.MethodPost, "/analyze", AnalyzeRequest{URL: site.URL})
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data = %v", body["data"])
	}
	if data["title"] != "Acme Docs" {
		t.Errorf("title = %v", data["title"])
	}
	if data["description"] != "Acme API documentation" {
		t.Errorf("description = %v", data["description"])
	}
}

func TestHandleGenerate(t *testing.T) {
	srv := newTestServer(t)
	site := newFixtureSite(t)

	rec := doJSON(t, srv, http.MethodPost, "/generate", AnalyzeRequest{URL: site.URL})
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	content, _ := body["content"].(string)
	if !strings.HasPrefix(content, "# Acme Docs\n\n> Acme API documentation\n") {
		t.Errorf("content =\n%s", content)
	}
}

func TestHandleGenerateFetchFailure(t *testing.T) {
	srv := newTestServer(t)
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer site.Close()

	rec := doJSON(t, srv, http.MethodPost, "/generate", AnalyzeRequest{URL: site.URL})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); msg == "" {
		t.Error("Expected non-empty error message")
	}
}

func TestHandleAnalyzeAdvanced(t *testing.T) {
	srv := newTestServer(t)
	site := newFixtureSite(t)

	rec := doJSON(t, srv, http.MethodPost, "/analyze-advanced", AnalyzeRequest{URL: site.URL})
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}

	steps, ok := body["analysis_steps"].([]interface{})
	if !ok || len(steps) == 0 {
		t.Fatalf("analysis_steps = %v", body["analysis_steps"])
	}
	if steps[len(steps)-1] != "Analysis complete!" {
		t.Errorf("Last step = %v", steps[len(steps)-1])
	}

	score, ok := body["quality_score"].(float64)
	if !ok || score < 0 || score > 100 {
		t.Errorf("quality_score = %v", body["quality_score"])
	}
}

func TestHandleAnalyzeAdvancedFetchFailure(t *testing.T) {
	srv := newTestServer(t)
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer site.Close()

	rec := doJSON(t, srv, http.MethodPost, "/analyze-advanced", AnalyzeRequest{URL: site.URL})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); !strings.HasPrefix(msg, "Failed to analyze website") {
		t.Errorf("error = %v", body["error"])
	}

	steps, ok := body["analysis_steps"].([]interface{})
	if !ok || len(steps) != 2 {
		t.Fatalf("analysis_steps = %v", body["analysis_steps"])
	}
	if steps[len(steps)-1] == "Analysis complete!" {
		t.Error("Step log must stop before completion on failure")
	}
}

func TestHandleGenerateAdvanced(t *testing.T) {
	srv := newTestServer(t)
	site := newFixtureSite(t)

	rec := doJSON(t, srv, http.MethodPost, "/generate-advanced", AnalyzeRequest{URL: site.URL})
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	content, _ := body["content"].(string)
	if !strings.HasPrefix(content, "# Acme Docs\n") {
		t.Errorf("content =\n%s", content)
	}

	metadata, ok := body["metadata"].(map[string]interface{})
	if !ok {
		t.Fatalf("metadata = %v", body["metadata"])
	}
	if metadata["title"] != "Acme Docs" {
		t.Errorf("metadata title = %v", metadata["title"])
	}
	// AI insights are an empty object when enrichment is disabled.
	insights, ok := metadata["ai_insights"].(map[string]interface{})
	if !ok || len(insights) != 0 {
		t.Errorf("ai_insights = %v", metadata["ai_insights"])
	}
}

func TestHandleDownload(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name         string
		body         interface{}
		wantStatus   int
		wantFilename string
	}{
		{
			name:         "default filename",
			body:         DownloadRequest{Content: "# Acme\n"},
			wantStatus:   http.StatusOK,
			wantFilename: "llms.txt",
		},
		{
			name:         "custom filename sanitized",
			body:         DownloadRequest{Content: "# Acme\n", Filename: "My Site!.txt"},
			wantStatus:   http.StatusOK,
			wantFilename: "my-site.txt",
		},
		{
			name:       "missing content",
			body:       DownloadRequest{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/download", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				body := decodeBody(t, rec)
				if body["error"] != "Content is required" {
					t.Errorf("error = %v", body["error"])
				}
				return
			}

			disposition := rec.Header().Get("Content-Disposition")
			if !strings.Contains(disposition, tt.wantFilename) {
				t.Errorf("Content-Disposition = %q, want filename %q", disposition, tt.wantFilename)
			}
			if rec.Body.String() != "# Acme\n" {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestHandleProgress(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/progress/abc123", nil)
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["progress"] != float64(75) {
		t.Errorf("progress = %v", body["progress"])
	}
	if body["current_step"] != "Analyzing content with AI..." {
		t.Errorf("current_step = %v", body["current_step"])
	}
	if body["total_steps"] != float64(5) {
		t.Errorf("total_steps = %v", body["total_steps"])
	}
}

func TestHandleProgressMissingSession(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/progress/", nil)
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d", rec.Code)
	}
}

func TestHandleHistoryDisabled(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("/history status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/history/some-id", nil)
	rec = httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("/history/{id} status = %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
}
