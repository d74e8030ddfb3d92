package dashboard

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/newspulse/newspulse/pkg/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Params configures the dashboard server
type Params struct {
	Listen  string
	Timeout time.Duration
	BaseURL string
	Version string
	Debug   bool
}

// Server serves the dashboard pages. Views are recomputed from the loader on every request.
type Server struct {
	Params
	loader    Loader
	feeds     *FeedGenerator
	templates *template.Template

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// page is the data of the index template
type page struct {
	Keyword    string
	Category   string
	Categories []string
	Warning    string
	Summary    Summary
	Notes      []string
	Query      string
}

// New makes a dashboard server reading articles from loader
func New(loader Loader, p Params) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"date": func(s string) string {
			if len(s) > 10 {
				return s[:10]
			}
			return s
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		Params:    p,
		loader:    loader,
		feeds:     NewFeedGenerator(p.BaseURL),
		templates: tmpl,
		router:    routegroup.New(http.NewServeMux()),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Run starts the HTTP server and shuts it down when ctx is canceled
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] starting dashboard on %s", s.Listen)

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
		log.Printf("[INFO] shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] dashboard shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newspulse-dashboard", "newspulse", s.Version))
	s.router.Use(rest.Ping)
	if s.Debug {
		s.router.Use(logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler)
	}
	s.router.Use(rest.Recoverer(log.Default()))
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.indexHandler)
	s.router.HandleFunc("GET /charts", s.chartsHandler)
	s.router.HandleFunc("GET /api/summary", s.summaryHandler)
	s.router.HandleFunc("GET /rss/{category}", s.rssHandler)
	s.router.HandleFunc("GET /rss/", s.rssHandler)
}

// filtered loads the table and applies the request filter
func (s *Server) filtered(r *http.Request) (all, rows []Row, f Filter, warning string, err error) {
	articles, err := s.loader.Load(r.Context())
	if err != nil {
		return nil, nil, Filter{}, "", err
	}
	all = NewRows(articles)
	f = filterFromRequest(r)
	rows, warning = f.Apply(all)
	return all, rows, f, warning, nil
}

func filterFromRequest(r *http.Request) Filter {
	q := r.URL.Query()
	f := Filter{Keyword: q.Get("keyword"), Category: q.Get("category")}
	if c := r.PathValue("category"); c != "" {
		f.Category = c
	}
	if f.Category == "" {
		f.Category = domain.CategoryAll
	}
	return f
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	all, rows, f, warning, err := s.filtered(r)
	if err != nil {
		log.Printf("[ERROR] load articles: %v", err)
		http.Error(w, "Failed to load articles", http.StatusInternalServerError)
		return
	}

	data := page{
		Keyword:    f.Keyword,
		Category:   f.Category,
		Categories: CategoryOptions(all),
		Warning:    warning,
		Query:      url.Values{"keyword": {f.Keyword}, "category": {f.Category}}.Encode(),
	}
	if warning == "" {
		data.Summary = Summarize(rows)
		data.Notes = data.Summary.Notes()
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.Printf("[ERROR] render index: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write response: %v", err)
	}
}

func (s *Server) chartsHandler(w http.ResponseWriter, r *http.Request) {
	_, rows, _, warning, err := s.filtered(r)
	if err != nil {
		log.Printf("[ERROR] load articles: %v", err)
		http.Error(w, "Failed to load articles", http.StatusInternalServerError)
		return
	}
	if warning != "" {
		rows = nil
	}

	var buf bytes.Buffer
	if err := RenderCharts(&buf, Summarize(rows)); err != nil {
		log.Printf("[ERROR] render charts: %v", err)
		http.Error(w, "Failed to render charts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write response: %v", err)
	}
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	_, rows, _, warning, err := s.filtered(r)
	if err != nil {
		log.Printf("[ERROR] load articles: %v", err)
		renderJSON(w, http.StatusInternalServerError, rest.JSON{"error": "failed to load articles"})
		return
	}
	if warning != "" {
		renderJSON(w, http.StatusNotFound, rest.JSON{"warning": warning})
		return
	}
	renderJSON(w, http.StatusOK, Summarize(rows))
}

func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	_, rows, f, warning, err := s.filtered(r)
	if err != nil {
		log.Printf("[ERROR] load articles: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}
	if warning != "" {
		rows = nil
	}

	rss, err := s.feeds.GenerateRSS(rows, f.Category)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[WARN] failed to write RSS response: %v", err)
	}
}

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] can't encode response to JSON: %v", err)
	}
}
