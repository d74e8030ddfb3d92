package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/newspulse/newspulse/pkg/domain"
	"github.com/newspulse/newspulse/pkg/news"
)

//go:generate moq -out mocks/headlines.go -pkg mocks -skip-ensure -fmt goimports . Headlines
//go:generate moq -out mocks/responder.go -pkg mocks -skip-ensure -fmt goimports . Responder
//go:generate moq -out mocks/entity_recognizer.go -pkg mocks -skip-ensure -fmt goimports . EntityRecognizer

//go:embed templates/*.html
var templateFS embed.FS

// Server is the live news web app
type Server struct {
	Params
	headlines Headlines
	responder Responder
	sentiment SentimentLabeler
	ner       EntityRecognizer
	sanitizer *bluemonday.Policy
	templates *template.Template

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Params configures the HTTP side of the server
type Params struct {
	Listen  string
	Timeout time.Duration
	Version string
	Debug   bool
}

// Headlines fetches live articles
type Headlines interface {
	Headlines(ctx context.Context, q news.Query) ([]domain.LiveArticle, error)
}

// Responder answers chatbot questions
type Responder interface {
	Respond(ctx context.Context, query string) string
}

// SentimentLabeler labels short texts, N/A for empty text
type SentimentLabeler interface {
	Label(text string) domain.Sentiment
}

// EntityRecognizer finds named entities in text
type EntityRecognizer interface {
	Recognize(text string) ([]domain.Entity, error)
}

// Deps are the collaborators of the server
type Deps struct {
	Headlines Headlines
	Responder Responder
	Sentiment SentimentLabeler
	NER       EntityRecognizer
}

// New initializes a new server instance
func New(p Params, d Deps) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		Params:    p,
		headlines: d.Headlines,
		responder: d.Responder,
		sentiment: d.Sentiment,
		ner:       d.NER,
		sanitizer: bluemonday.StrictPolicy(),
		templates: tmpl,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] starting server on %s", s.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.Timeout,
		WriteTimeout:      s.Timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newspulse", "newspulse", s.Version))
	s.router.Use(rest.Ping)

	if s.Debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.homeHandler)
	s.router.HandleFunc("GET /category/{name}", s.categoryHandler)
	s.router.HandleFunc("POST /search", s.searchHandler)
	s.router.HandleFunc("GET /dashboard", s.dashboardHandler)
	s.router.HandleFunc("GET /dashboard-data", s.dashboardDataHandler)
	s.router.HandleFunc("POST /chatbot", s.chatbotHandler)
	s.router.Handle("GET /metrics", promhttp.Handler())

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.Version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// fetch returns annotated headlines, or an empty list if the source fails
func (s *Server) fetch(ctx context.Context, q news.Query) []domain.LiveArticle {
	articles, err := s.headlines.Headlines(ctx, q)
	if err != nil {
		log.Printf("[WARN] failed to fetch headlines: %v", err)
		return []domain.LiveArticle{}
	}
	return s.annotate(articles)
}
