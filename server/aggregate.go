package server

import (
	"html"
	"log"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/newspulse/newspulse/pkg/domain"
)

const (
	topWords       = 5
	topEntities    = 5
	minWordLength  = 5
	volumeDayLabel = "Jan 02"
)

// accepted publishedAt layouts, tried in order
var publishedLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// annotate strips markup from title and description and labels each article's sentiment
// from its description, or its title when the description is empty
func (s *Server) annotate(articles []domain.LiveArticle) []domain.LiveArticle {
	res := make([]domain.LiveArticle, len(articles))
	for i, a := range articles {
		a.Title = s.plainText(a.Title)
		a.Description = s.plainText(a.Description)
		text := a.Description
		if text == "" {
			text = a.Title
		}
		a.Sentiment = s.sentiment.Label(text)
		a.SentimentEmoji = a.Sentiment.Emoji()
		res[i] = a
	}
	return res
}

// plainText drops markup, keeping text with entities decoded
func (s *Server) plainText(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(v)))
}

// aggregate computes the dashboard data of annotated articles
func (s *Server) aggregate(articles []domain.LiveArticle) domain.DashboardData {
	res := domain.DashboardData{
		Sentiment: map[string]int{
			string(domain.SentimentPositive): 0,
			string(domain.SentimentNeutral):  0,
			string(domain.SentimentNegative): 0,
		},
		Sources:  map[string]int{},
		Volume:   map[string]int{},
		Entities: map[string]map[string]int{},
	}

	var words []string
	texts := make([]string, 0, len(articles))
	for _, a := range articles {
		sentiment := a.Sentiment
		if sentiment == "" {
			sentiment = domain.SentimentNeutral
		}
		res.Sentiment[string(sentiment)]++

		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		res.Sources[source]++

		text := a.Title + " " + a.Description
		texts = append(texts, text)
		words = append(words, topicWords(text)...)

		if day, ok := publishedDay(a.PublishedAt); ok {
			res.Volume[day]++
		}
	}

	res.Topics = countMap(mostCommon(words, topWords))
	res.Useful = domain.UsefulRatio{
		Useful:    res.Sentiment[string(domain.SentimentPositive)] + res.Sentiment[string(domain.SentimentNeutral)],
		NotUseful: res.Sentiment[string(domain.SentimentNegative)],
	}
	res.Entities = s.entitySummary(strings.Join(texts, " "))
	return res
}

// topicWords returns lowercased, purely alphabetic words longer than four letters
func topicWords(text string) []string {
	var res []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(w) < minWordLength || strings.IndexFunc(w, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
			continue
		}
		res = append(res, w)
	}
	return res
}

// publishedDay formats an ISO-8601 timestamp as "Jan 02"
func publishedDay(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	for _, layout := range publishedLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format(volumeDayLabel), true
		}
	}
	return "", false
}

// entitySummary gives the five most frequent entities of each type found in text.
// Types without entities are left out.
func (s *Server) entitySummary(text string) map[string]map[string]int {
	res := map[string]map[string]int{}
	entities, err := s.ner.Recognize(text)
	if err != nil {
		log.Printf("[WARN] failed to recognize entities: %v", err)
		return res
	}

	byLabel := map[string][]string{}
	for _, e := range entities {
		byLabel[e.Label] = append(byLabel[e.Label], e.Text)
	}
	for _, label := range domain.EntityLabels {
		if names := byLabel[label]; len(names) > 0 {
			res[label] = countMap(mostCommon(names, topEntities))
		}
	}
	return res
}

type count struct {
	name  string
	count int
}

// mostCommon returns the n most frequent items, ties in first-seen order
func mostCommon(items []string, n int) []count {
	idx := map[string]int{}
	var res []count
	for _, it := range items {
		if i, ok := idx[it]; ok {
			res[i].count++
			continue
		}
		idx[it] = len(res)
		res = append(res, count{name: it, count: 1})
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].count > res[j].count })
	if len(res) > n {
		res = res[:n]
	}
	return res
}

func countMap(counts []count) map[string]int {
	res := make(map[string]int, len(counts))
	for _, c := range counts {
		res[c.name] = c.count
	}
	return res
}
