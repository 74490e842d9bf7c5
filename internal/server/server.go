// Package server provides the HTTP REST API for the site builder dashboard.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/site-builder/internal/config"
	"github.com/jonathan/site-builder/internal/db"
	"github.com/jonathan/site-builder/internal/pipeline"
	"github.com/jonathan/site-builder/internal/server/middleware"
	"github.com/jonathan/site-builder/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	siteDomain  string
	pipeline    *pipeline.Pipeline
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	requireAuth func(http.Handler) http.Handler
}

// Config holds server configuration
type Config struct {
	Addr        string
	DatabaseURL string
	SiteDomain  string
	// Pipeline runs onboarding requests. Required for the /runs endpoints.
	Pipeline *pipeline.Pipeline
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:         database,
		siteDomain: cfg.SiteDomain,
		pipeline:   cfg.Pipeline,
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.requireAuth = middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for onboarding runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. Mutating routes require a valid token; reads and
// auth endpoints are open.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Authentication
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /users/me/password", s.authed(s.handleUpdateMyPassword))
	mux.Handle("GET /users/me", s.authed(s.handleGetMe))

	// Onboarding runs
	mux.Handle("POST /runs", s.authed(s.handleCreateRun))
	mux.Handle("POST /runs/stream", s.authed(s.handleRunStream))
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /runs/{id}/steps", s.handleListRunSteps)
	mux.HandleFunc("GET /runs/{id}/artifacts/{step}", s.handleGetRunArtifact)
	mux.Handle("POST /runs/{id}/resume", s.authed(s.handleResumeRun))

	// Sites
	mux.HandleFunc("GET /sites", s.handleListSites)
	mux.HandleFunc("GET /sites/by-subdomain", s.handleGetSiteBySubdomain)
	mux.HandleFunc("GET /sites/{id}", s.handleGetSite)
	mux.Handle("PUT /sites/{id}", s.authed(s.handleUpdateSite))
	mux.Handle("DELETE /sites/{id}", s.authed(s.handleDeleteSite))
	mux.Handle("POST /sites/{id}/publish", s.authed(s.handlePublishSite))
	mux.Handle("POST /sites/{id}/unpublish", s.authed(s.handleUnpublishSite))
	mux.HandleFunc("GET /sites/{id}/snapshot", s.handleGetSnapshot)

	// Pages
	mux.HandleFunc("GET /sites/{id}/pages", s.handleListPages)
	mux.HandleFunc("GET /sites/{id}/pages/{slug}", s.handleGetPage)
	mux.Handle("PUT /pages/{id}", s.authed(s.handleUpdatePage))
	mux.Handle("POST /pages/{id}/publish", s.authed(s.handlePublishPage))
	mux.Handle("POST /pages/{id}/unpublish", s.authed(s.handleUnpublishPage))
	mux.Handle("DELETE /pages/{id}", s.authed(s.handleDeletePage))

	// Services
	mux.HandleFunc("GET /sites/{id}/services", s.handleListServices)
	mux.Handle("POST /sites/{id}/services", s.authed(s.handleCreateService))
	mux.Handle("PUT /services/{id}", s.authed(s.handleUpdateService))
	mux.Handle("DELETE /services/{id}", s.authed(s.handleDeleteService))

	// SEO
	mux.Handle("PUT /sites/{id}/seo", s.authed(s.handleUpdateSEO))
	mux.HandleFunc("GET /sites/{id}/seo/preview", s.handleSEOPreview)

	// Templates
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/suggest", s.handleSuggestTemplate)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)

	return mux
}

// authed wraps a handler with JWT validation.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return s.requireAuth(h)
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
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

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetMe returns the authenticated account.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.db.GetUserByID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, toAPIUser(user))
}

// handleUpdateMyPassword changes the authenticated account's password.
func (s *Server) handleUpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
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
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
