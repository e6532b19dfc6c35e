package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"inkwell/internal/config"
	"inkwell/internal/content"
	"inkwell/internal/convert"
	"inkwell/internal/handler"
	"inkwell/internal/llm"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/notion"
	"inkwell/internal/pagecache"
	"inkwell/internal/render"
	"inkwell/internal/search"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	if cfg.NotionAPIKey == "" {
		log.Fatal("NOTION_API_KEY is required")
	}
	if cfg.NotionDatabaseID == "" {
		log.Fatal("NOTION_DATABASE_ID is required")
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Notion client and renderers
	notionClient := notion.NewClientWithConfig(cfg.NotionAPIKey, cfg.NotionBaseURL, notion.DefaultTimeout)

	styles, err := render.LoadStyles()
	if err != nil {
		log.Fatalf("Failed to load render styles: %v", err)
	}
	renderers := render.NewRegistry(styles)

	// Content service (cached, deduplicated page reads)
	contentService := content.NewService(notionClient, renderers, cfg.NotionDatabaseID, logger, collector,
		pagecache.WithMetrics[*content.PageContent](collector))

	// Content converters for submitted posts
	converters := convert.NewRegistry()

	notionHandler := handler.NewNotionHandler(contentService, converters, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Metrics scrape endpoint
	mux.Handle("GET /metrics", metrics.Handler(registry))

	// Content routes
	mux.HandleFunc("GET /api/notion", notionHandler.GetContent)
	mux.HandleFunc("POST /api/notion", notionHandler.CreatePost)

	// Widget routes share a per-client rate limit
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Stop()
	limited := rateLimiter.Middleware()

	// Chat widget (enabled only when an API key is configured)
	if cfg.AnthropicAPIKey != "" {
		provider, err := llm.NewAnthropicProvider(cfg.AnthropicAPIKey)
		if err != nil {
			log.Fatalf("Failed to create chat provider: %v", err)
		}
		chatHandler := handler.NewChatHandler(provider, cfg.ChatModel, logger)
		mux.Handle("POST /api/chat", limited(http.HandlerFunc(chatHandler.Chat)))
	} else {
		logger.Warn("chat widget disabled: ANTHROPIC_API_KEY not set")
	}

	// Search widget (enabled only when an API key is configured)
	if cfg.TavilyAPIKey != "" {
		searchHandler := handler.NewSearchHandler(search.NewTavilyClient(cfg.TavilyAPIKey), logger)
		mux.Handle("GET /api/search", limited(http.HandlerFunc(searchHandler.Search)))
	} else {
		logger.Warn("search widget disabled: TAVILY_API_KEY not set")
	}

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Logging → Recovery → Routes
	root = middleware.Recovery(logger)(root)
	root = middleware.Logging(logger, collector)(root)

	// CORS - outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
