package server

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/newspulse/newspulse/pkg/chat"
	"github.com/newspulse/newspulse/pkg/domain"
	"github.com/newspulse/newspulse/pkg/news"
)

// template names
const (
	templateIndex     = "index.html"
	templateDashboard = "dashboard.html"
)

// topics offered in the navigation, as understood by the headlines API
var topics = []string{"general", "world", "nation", "business", "technology", "entertainment", "sports",
	"science", "health"}

// indexPage holds data for the news list page
type indexPage struct {
	News             []domain.LiveArticle
	Topics           []string
	SelectedCategory string
	Keyword          string
}

type chatRequest struct {
	Query string `json:"query"`
	URL   string `json:"url"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, templateIndex, indexPage{News: s.fetch(r.Context(), news.Query{}), Topics: topics})
}

func (s *Server) categoryHandler(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("name")
	s.renderPage(w, templateIndex, indexPage{
		News:             s.fetch(r.Context(), news.Query{Category: category}),
		Topics:           topics,
		SelectedCategory: category,
	})
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.FormValue("keyword"))
	s.renderPage(w, templateIndex, indexPage{
		News:    s.fetch(r.Context(), news.Query{Keyword: keyword}),
		Topics:  topics,
		Keyword: keyword,
	})
}

func (s *Server) dashboardHandler(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, templateDashboard, indexPage{Topics: topics, SelectedCategory: "dashboard"})
}

// dashboardDataHandler aggregates fresh headlines for the dashboard charts
func (s *Server) dashboardDataHandler(w http.ResponseWriter, r *http.Request) {
	articles := s.fetch(r.Context(), news.Query{})
	if len(articles) == 0 {
		renderJSON(w, r, http.StatusInternalServerError, map[string]string{"error": "No news available"})
		return
	}
	renderJSON(w, r, http.StatusOK, s.aggregate(articles))
}

// chatbotHandler answers a question; the url of the page it was asked from is accepted but unused
func (s *Server) chatbotHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		renderJSON(w, r, http.StatusOK, chatResponse{Response: chat.EmptyQueryReply})
		return
	}
	renderJSON(w, r, http.StatusOK, chatResponse{Response: s.responder.Respond(r.Context(), req.Query)})
}

// renderPage renders a page template fully before writing it out
func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[ERROR] failed to render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write response: %v", err)
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
