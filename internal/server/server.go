package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/jonathan/review-portal/internal/config"
	"github.com/jonathan/review-portal/internal/db"
	"github.com/jonathan/review-portal/internal/llm"
	"github.com/jonathan/review-portal/internal/server/middleware"
	"github.com/jonathan/review-portal/internal/server/ratelimit"
	"github.com/jonathan/review-portal/internal/types"
	"github.com/jonathan/review-portal/internal/web"
)

// ReviewAsker answers questions about reviews. *llm.ReviewChat implements it.
type ReviewAsker interface {
	Ask(ctx context.Context, question string, reviews []types.Review) (string, error)
	Close() error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	store       Store
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	chat        ReviewAsker
	metrics     *metrics
}

// Options carries the dependencies of a Server.
type Options struct {
	Store     Store
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	// Limiter defaults to one built from RATE_LIMIT_* variables.
	Limiter *ratelimit.Limiter
	// Chat is optional; /chat answers 503 without it.
	Chat ReviewAsker
}

// New connects to the database and builds a server from cfg and the environment.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var chat ReviewAsker
	if cfg.ChatEnabled() {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig().WithModel(cfg.GeminiModel), cfg.GeminiAPIKey)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create chat client: %w", err)
		}
		chat = llm.NewReviewChat(client)
	} else {
		log.Printf("[chat] GEMINI_API_KEY not set, review chat disabled")
	}

	return NewWithOptions(cfg, Options{
		Store:     database,
		JWT:       jwtConfig,
		Passwords: passwordConfig,
		Chat:      chat,
	}), nil
}

// NewWithOptions builds a server around already constructed dependencies.
func NewWithOptions(cfg *config.Config, opts Options) *Server {
	s := &Server{
		cfg:         cfg,
		store:       opts.Store,
		rateLimiter: opts.Limiter,
		chat:        opts.Chat,
		metrics:     newMetrics(),
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	s.jwtService = NewJWTService(opts.JWT)
	s.userService = NewUserService(opts.Store, opts.Passwords)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withMetrics(s.withRateLimit(s.withLogging(s.withCORS(s.routes())))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // chat answers can be slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())

	// Accounts
	mux.HandleFunc("POST /signup", s.authHandler.Signup)
	mux.HandleFunc("POST /login", s.authHandler.Login)
	mux.Handle("GET /me", protected(s.authHandler.Me))
	mux.Handle("PUT /me/password", protected(s.authHandler.UpdatePassword))

	// Reviews. Literal segments take precedence over {id}.
	mux.HandleFunc("GET /reviews", s.handleListReviews)
	mux.Handle("POST /reviews", protected(s.handleCreateReview))
	mux.HandleFunc("GET /reviews/filters", s.handleFilterOptions)
	mux.HandleFunc("GET /reviews/top", s.handleTopReviews)
	mux.HandleFunc("GET /reviews/grouped", s.handleGroupedReviews)
	mux.Handle("GET /reviews/mine", protected(s.handleMyReviews))
	mux.Handle("GET /reviews/recommendations", protected(s.handleRecommendations))
	mux.HandleFunc("GET /reviews/{id}", s.handleGetReview)
	mux.Handle("DELETE /reviews/{id}", protected(s.handleDeleteReview))
	mux.Handle("POST /reviews/{id}/upvote", protected(s.handleVote(1)))
	mux.Handle("POST /reviews/{id}/downvote", protected(s.handleVote(-1)))

	// Forum
	mux.HandleFunc("GET /forum/topics", s.handleListTopics)
	mux.Handle("POST /forum/topics", protected(s.handleCreateTopic))
	mux.HandleFunc("GET /forum/topics/{id}", s.handleGetTopic)
	mux.Handle("POST /forum/topics/{id}/comments", protected(s.handleAddComment))

	mux.Handle("POST /chat", protected(s.handleChat))

	// Dashboard
	mux.HandleFunc("GET /dashboard", s.handleDashboardPage)
	mux.HandleFunc("GET /dashboard/data", s.handleDashboardData)
	mux.HandleFunc("GET /dashboard/charts", s.handleDashboardCharts)
	mux.HandleFunc("GET /dashboard/echarts", s.handleDashboardECharts)
	mux.HandleFunc("POST /charts/preview", s.handleChartPreview)
	mux.Handle("GET /static/", web.StaticHandler())

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.close()
	log.Println("Server stopped")
	return nil
}

func (s *Server) close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.chat != nil {
		if err := s.chat.Close(); err != nil {
			log.Printf("[chat] Failed to close client: %v", err)
		}
	}
	s.store.Close()
}

// withCORS allows browser clients from any origin to call the API with a bearer token.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         600,
	}).Handler(next)
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !info.Allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log.Printf("[health] Database ping failed: %v", err)
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID uses the IP address from RemoteAddr. X-Forwarded-For is
// ignored because the server does not know its trusted proxies.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	jsonResponse(w, http.StatusTooManyRequests, response)
}
