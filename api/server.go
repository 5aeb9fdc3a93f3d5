// Package api exposes the generation pipelines over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zombar/llmstxt"
	"github.com/zombar/llmstxt/db"
	"github.com/zombar/llmstxt/metrics"
	"github.com/zombar/llmstxt/models"
	"github.com/zombar/llmstxt/slug"
)

const defaultDownloadFilename = "llms.txt"

// Archiver writes a rendered document to backing storage and returns the
// stored path or key.
type Archiver interface {
	SaveDocument(content, slug string) (string, error)
}

// Server represents the API server
type Server struct {
	generator   *llmstxt.Generator
	db          *db.DB
	archiver    Archiver
	addr        string
	server      *http.Server
	mux         *http.ServeMux
	corsEnabled bool
}

// Config contains server configuration
type Config struct {
	Addr            string
	GeneratorConfig llmstxt.Config
	CORSEnabled     bool

	// Archive wiring, optional. When Database and Archiver are both set,
	// every successfully generated document is recorded.
	Database *db.DB
	Archiver Archiver
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		GeneratorConfig: llmstxt.DefaultConfig(),
		CORSEnabled:     true,
	}
}

// NewServer creates a new API server
func NewServer(config Config) *Server {
	s := &Server{
		generator:   llmstxt.New(config.GeneratorConfig),
		db:          config.Database,
		archiver:    config.Archiver,
		addr:        config.Addr,
		mux:         http.NewServeMux(),
		corsEnabled: config.CORSEnabled,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      otelhttp.NewHandler(s.middleware(s.mux), "llmstxt-api"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Allow time for browser-rendered analyses
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
	s.mux.HandleFunc("/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/generate", s.handleGenerate)
	s.mux.HandleFunc("/download", s.handleDownload)
	s.mux.HandleFunc("/analyze-advanced", s.handleAnalyzeAdvanced)
	s.mux.HandleFunc("/generate-advanced", s.handleGenerateAdvanced)
	s.mux.HandleFunc("/progress/", s.handleProgress)
	s.mux.HandleFunc("/history", s.handleHistory)
	s.mux.HandleFunc("/history/", s.handleHistoryByID)
}

// Start starts the API server
func (s *Server) Start() error {
	slog.Info("starting API server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down API server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the archive database, nil when archiving is disabled
func (s *Server) DB() *db.DB {
	return s.db
}

// middleware applies common middleware to all routes
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		// Logging (skip health checks to reduce noise)
		start := time.Now()
		next.ServeHTTP(w, r)

		if r.URL.Path != "/health" && r.URL.Path != "/metrics" {
			slog.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start).String(),
			)
		}
	})
}

// AnalyzeRequest is the request body shared by the analysis and generation
// endpoints.
type AnalyzeRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// DownloadRequest is the request body for the download endpoint
type DownloadRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename,omitempty"`
}

// decodeURLRequest decodes the request body and enforces the url field.
// A false return means an error response has already been written.
func decodeURLRequest(w http.ResponseWriter, r *http.Request) (AnalyzeRequest, bool) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "URL is required")
		return req, false
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return req, false
	}
	return req, true
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	}
	if s.db != nil {
		count, err := s.db.Count()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to get archive count")
			return
		}
		resp["archived_documents"] = count
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleAnalyze runs the basic pipeline and returns the structured record
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	record, err := s.generator.Analyze(r.Context(), req.URL)
	metrics.AnalysisDuration.WithLabelValues("basic").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("basic", "error").Inc()
		slog.Error("basic analysis failed", "url", req.URL, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.AnalysesTotal.WithLabelValues("basic", "success").Inc()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    record,
	})
}

// handleGenerate runs the basic pipeline and returns rendered content
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	content, record, err := s.generator.Generate(r.Context(), req.URL)
	metrics.AnalysisDuration.WithLabelValues("basic").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("basic", "error").Inc()
		slog.Error("basic generation failed", "url", req.URL, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.AnalysesTotal.WithLabelValues("basic", "success").Inc()
	metrics.DocumentsGenerated.Inc()

	s.archiveDocument(req.URL, "basic", record.Title, content, 0)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"content": content,
	})
}

// handleDownload returns submitted content as a plain-text attachment
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}

	filename := slug.Filename(req.Filename, defaultDownloadFilename)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(req.Content))
}

// handleAnalyzeAdvanced runs the enhanced pipeline and returns the full
// record plus the step log
func (s *Server) handleAnalyzeAdvanced(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	record, steps, err := s.generator.AnalyzeAdvanced(r.Context(), req.URL)
	metrics.AnalysisDuration.WithLabelValues("advanced").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("advanced", "error").Inc()
		s.respondAdvancedError(w, req.URL, steps, err)
		return
	}
	metrics.AnalysesTotal.WithLabelValues("advanced", "success").Inc()
	metrics.QualityScore.Observe(float64(record.QualityScore))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"data":           record,
		"analysis_steps": steps,
		"quality_score":  record.QualityScore,
	})
}

// handleGenerateAdvanced runs the enhanced pipeline and returns rendered
// content plus metadata
func (s *Server) handleGenerateAdvanced(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	content, record, steps, err := s.generator.GenerateAdvanced(r.Context(), req.URL)
	metrics.AnalysisDuration.WithLabelValues("advanced").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("advanced", "error").Inc()
		s.respondAdvancedError(w, req.URL, steps, err)
		return
	}
	metrics.AnalysesTotal.WithLabelValues("advanced", "success").Inc()
	metrics.QualityScore.Observe(float64(record.QualityScore))
	metrics.DocumentsGenerated.Inc()

	s.archiveDocument(req.URL, "advanced", record.Title, content, record.QualityScore)

	metadata := map[string]interface{}{
		"title":       record.Title,
		"description": record.Description,
	}
	if record.AIAnalysis != nil {
		metadata["ai_insights"] = record.AIAnalysis
	} else {
		metadata["ai_insights"] = map[string]interface{}{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"content":        content,
		"analysis_steps": steps,
		"quality_score":  record.QualityScore,
		"metadata":       metadata,
	})
}

// respondAdvancedError converts an enhanced-pipeline failure into the
// error envelope, echoing the step log accumulated so far
func (s *Server) respondAdvancedError(w http.ResponseWriter, url string, steps []string, err error) {
	slog.Error("advanced analysis failed", "url", url, "error", err)

	message := err.Error()
	var fetchErr *llmstxt.FetchError
	if errors.As(err, &fetchErr) {
		message = fmt.Sprintf("Failed to analyze website: %v", err)
	}

	respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error":          message,
		"analysis_steps": steps,
	})
}

// handleProgress returns a fixed progress payload. Session tracking was
// never implemented upstream of this service; clients poll this endpoint
// and treat the response as cosmetic.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/progress/")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session id is required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"progress":     75,
		"current_step": "Analyzing content with AI...",
		"total_steps":  5,
	})
}

// handleHistory lists archived documents with pagination
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.db == nil {
		respondError(w, http.StatusNotFound, "archive is disabled")
		return
	}

	limit := 20
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		fmt.Sscanf(limitStr, "%d", &limit)
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		fmt.Sscanf(offsetStr, "%d", &offset)
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := s.db.List(limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	count, _ := s.db.Count()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":   docs,
		"total":  count,
		"limit":  limit,
		"offset": offset,
	})
}

// handleHistoryByID retrieves one archived document
func (s *Server) handleHistoryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.db == nil {
		respondError(w, http.StatusNotFound, "archive is disabled")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/history/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	doc, err := s.db.GetByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// archiveDocument records a generated document when archiving is enabled.
// Failures are logged, never surfaced: the archive is best-effort and the
// caller already has its response.
func (s *Server) archiveDocument(url, pipeline, title, content string, qualityScore int) {
	if s.db == nil || s.archiver == nil {
		return
	}

	docSlug := slug.GenerateWithFallback(title, slug.FromURL(url))
	filePath, err := s.archiver.SaveDocument(content, docSlug)
	if err != nil {
		slog.Error("failed to archive document file", "url", url, "error", err)
		return
	}

	doc := &models.GeneratedDocument{
		ID:           uuid.New().String(),
		URL:          url,
		Pipeline:     pipeline,
		Title:        title,
		Slug:         docSlug,
		Content:      content,
		QualityScore: qualityScore,
		FilePath:     filePath,
		CreatedAt:    time.Now(),
	}
	if err := s.db.SaveDocument(doc); err != nil {
		slog.Error("failed to archive document record", "url", url, "error", err)
		return
	}

	metrics.ArchivedDocuments.Inc()
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
