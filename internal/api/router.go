package api

import (
	"fmt"
	"net/http"

	"github.com/floorsight/floorsight/internal/api/handler"
	custommiddleware "github.com/floorsight/floorsight/internal/api/middleware"
	"github.com/floorsight/floorsight/internal/config"
	"github.com/floorsight/floorsight/internal/llm"
	"github.com/floorsight/floorsight/internal/llm/gemini"
	"github.com/floorsight/floorsight/internal/llm/openai"
	"github.com/floorsight/floorsight/internal/repository/redis"
	"github.com/floorsight/floorsight/internal/service"
	speechopenai "github.com/floorsight/floorsight/internal/speech/openai"
	"github.com/floorsight/floorsight/internal/transport"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, redisClient *redis.Client) (http.Handler, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Shared outbound transport for the hand-rolled provider clients
	transportClient := transport.NewClient(cfg.Transport.Timeout, cfg.Transport.MaxRetries)

	// Register AI providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing AI providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(
			cfg.LLM.OpenAI.APIKey,
			cfg.LLM.OpenAI.Model,
			cfg.LLM.OpenAI.BaseURL,
			transportClient,
		))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	}

	provider, err := llmRouter.GetProvider("")
	if err != nil {
		return nil, fmt.Errorf("no usable AI provider: %w", err)
	}

	// Optional Redis-backed components
	var analysisCache service.AnalysisCache
	var rateLimiter *redis.RateLimiter
	if redisClient != nil {
		analysisCache = redis.NewAnalysisCache(redisClient)
		rateLimiter = redis.NewRateLimiter(
			redisClient,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
	}

	// Initialize services
	analysisService := service.NewAnalysisService(provider, analysisCache, cfg.Limits.MaxUploadBytes)
	chatService := service.NewChatService(provider)

	var speechService *service.SpeechService
	if cfg.Speech.Enabled() {
		synth := speechopenai.NewClient(
			cfg.Speech.APIKey,
			cfg.Speech.Model,
			cfg.Speech.Voice,
			cfg.Speech.BaseURL,
			cfg.Speech.Timeout,
		)
		speechService = service.NewSpeechService(synth)
	} else {
		log.Warn().Msg("speech credentials not set, /speak will return 503")
	}

	// Initialize handlers
	verbose := cfg.Development()
	analyzeHandler := handler.NewAnalyzeHandler(analysisService, verbose)
	chatHandler := handler.NewChatHandler(chatService, verbose)
	speakHandler := handler.NewSpeakHandler(speechService, verbose)

	rateLimitMiddleware := custommiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/providers", handler.ListProviders(llmRouter))

		// The AI endpoints carry the provider cost; only they are throttled
		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware.Limit)

			r.Post("/analyze", analyzeHandler.Analyze)
			r.Post("/chat", chatHandler.Chat)
			r.Post("/speak", speakHandler.Speak)
		})
	})

	return r, nil
}
