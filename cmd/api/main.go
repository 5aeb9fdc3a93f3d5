package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/zombar/llmstxt"
	"github.com/zombar/llmstxt/api"
	"github.com/zombar/llmstxt/db"
	"github.com/zombar/llmstxt/storage"
	"github.com/zombar/llmstxt/tracing"
)

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("llmstxt service initializing", "version", "1.0.0")

	// Initialize tracing
	tp, err := tracing.InitTracer("llmstxt-api")
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	// Default values
	defaultPort := getEnv("PORT", "8080")
	defaultOllamaURL := getEnv("OLLAMA_URL", "http://localhost:11434")
	defaultOllamaModel := getEnv("OLLAMA_MODEL", "llama3.2")
	defaultStoragePath := getEnv("STORAGE_BASE_PATH", "./storage")

	// Command-line flags (override environment variables)
	port := flag.String("port", defaultPort, "Server port")
	ollamaURL := flag.String("ollama-url", defaultOllamaURL, "Ollama base URL")
	ollamaModel := flag.String("ollama-model", defaultOllamaModel, "Ollama model for AI analysis")
	enableBrowser := flag.Bool("enable-browser-rendering", false, "Render pages with headless Chrome before extraction")
	enableAI := flag.Bool("enable-ai-analysis", false, "Enrich analyses with Ollama-generated insights")
	enableArchive := flag.Bool("enable-archive", false, "Record generated documents to PostgreSQL and storage")
	disableCORS := flag.Bool("disable-cors", false, "Disable CORS")
	flag.Parse()

	generatorConfig := llmstxt.DefaultConfig()
	generatorConfig.EnableBrowserRendering = *enableBrowser
	generatorConfig.EnableAIAnalysis = *enableAI
	generatorConfig.OllamaBaseURL = *ollamaURL
	generatorConfig.OllamaModel = *ollamaModel

	config := api.Config{
		Addr:            ":" + *port,
		GeneratorConfig: generatorConfig,
		CORSEnabled:     !*disableCORS,
	}

	// Optional archive wiring: PostgreSQL row per document plus a text file
	// in filesystem or S3 storage
	if *enableArchive {
		dbHost := getEnv("DB_HOST", "")
		if dbHost == "" {
			logger.Error("DB_HOST environment variable is required when the archive is enabled")
			os.Exit(1)
		}
		dbPort := getEnv("DB_PORT", "5432")
		dbUser := getEnv("DB_USER", "llmstxt")
		dbPassword := getEnv("DB_PASSWORD", "llmstxt_dev_pass")
		dbName := getEnv("DB_NAME", "llmstxt")

		database, err := db.New(db.Config{
			DSN: fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort, dbUser, dbPassword, dbName),
		})
		if err != nil {
			logger.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		logger.Info("using PostgreSQL archive", "host", dbHost, "port", dbPort, "database", dbName)

		var archiver api.Archiver
		if bucket := getEnv("S3_BUCKET", ""); bucket != "" {
			s3Store, err := storage.NewS3Storage(context.Background(), storage.S3Config{
				Endpoint:        getEnv("S3_ENDPOINT", ""),
				Region:          getEnv("S3_REGION", "us-east-1"),
				Bucket:          bucket,
				AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
				UsePathStyle:    getEnv("S3_USE_PATH_STYLE", "") == "true",
			})
			if err != nil {
				logger.Error("failed to initialize S3 storage", "error", err)
				os.Exit(1)
			}
			archiver = s3Store
			logger.Info("using S3 document storage", "bucket", bucket)
		} else {
			fsStore, err := storage.New(storage.Config{BasePath: defaultStoragePath})
			if err != nil {
				logger.Error("failed to initialize filesystem storage", "error", err)
				os.Exit(1)
			}
			archiver = fsStore
			logger.Info("using filesystem document storage", "path", defaultStoragePath)
		}

		config.Database = database
		config.Archiver = archiver
	}

	server := api.NewServer(config)

	// Start server in a goroutine
	go func() {
		logger.Info("llmstxt service starting",
			"port", *port,
			"browser_rendering_enabled", *enableBrowser,
			"ai_analysis_enabled", *enableAI,
			"archive_enabled", *enableArchive,
			"ollama_url", *ollamaURL,
			"ollama_model", *ollamaModel,
		)

		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
