// Package dashboard serves the interactive view over the classified articles table.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/newspulse/newspulse/pkg/domain"
)

// NoMatchWarning is shown instead of any view when a keyword matches nothing
const NoMatchWarning = "No news found related to this keyword or it's not finance-related."

// view limits
const (
	latestLimit   = 5
	entitiesLimit = 10
	wordsLimit    = 200
)

const (
	utcLayout = "2006-01-02T15:04:05Z"
	istLayout = "2006-01-02 15:04:05"
	istOffset = 5*time.Hour + 30*time.Minute
)

// Row is a classified article with its publication time in Indian Standard Time
type Row struct {
	domain.ClassifiedArticle
	PublishedIST string
}

// Count is a label with its number of occurrences
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ResultRow is a line of the results table
type ResultRow struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	PublishedIST string `json:"publishedAt_IST"`
	Category     string `json:"category"`
	Sentiment    string `json:"sentiment"`
	Entities     string `json:"entities"`
	Source       string `json:"source"`
}

// Summary holds every view of the filtered rows
type Summary struct {
	Total      int         `json:"total"`
	Latest     []ResultRow `json:"latest"`
	Categories []Count     `json:"categories"`
	Words      []Count     `json:"words"`
	Sentiment  []Count     `json:"sentiment"`
	Entities   []Count     `json:"entities"`
	Rows       []ResultRow `json:"rows"`
}

// Filter selects rows by keyword and category
type Filter struct {
	Keyword  string
	Category string
}

// ToIST converts a "2006-01-02T15:04:05Z" timestamp to IST, returning unparsable input unchanged
func ToIST(raw string) string {
	ts, err := time.Parse(utcLayout, raw)
	if err != nil {
		return raw
	}
	return ts.Add(istOffset).Format(istLayout)
}

// NewRows derives the IST column for each article
func NewRows(articles []domain.ClassifiedArticle) []Row {
	res := make([]Row, len(articles))
	for i, a := range articles {
		res[i] = Row{ClassifiedArticle: a, PublishedIST: ToIST(a.PublishedAt)}
	}
	return res
}

// CategoryOptions returns "All" followed by the distinct categories in first-seen order
func CategoryOptions(rows []Row) []string {
	res := []string{domain.CategoryAll}
	seen := map[domain.Category]bool{}
	for _, r := range rows {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		res = append(res, string(r.Category))
	}
	return res
}

// Apply filters rows without modifying them. The keyword is matched case-insensitively against
// clean_content; when it matches nothing the warning is returned and the category is not applied.
// Category "All" or empty keeps every row.
func (f Filter) Apply(rows []Row) (res []Row, warning string) {
	res = rows
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		res = nil
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.CleanContent), kw) {
				res = append(res, r)
			}
		}
		if len(res) == 0 {
			return nil, NoMatchWarning
		}
	}

	if f.Category == "" || f.Category == domain.CategoryAll {
		return res, ""
	}
	var byCategory []Row
	for _, r := range res {
		if string(r.Category) == f.Category {
			byCategory = append(byCategory, r)
		}
	}
	return byCategory, ""
}

// Summarize computes the views over rows
func Summarize(rows []Row) Summary {
	res := Summary{Total: len(rows), Rows: make([]ResultRow, 0, len(rows))}

	categories := make([]string, 0, len(rows))
	var words, entities []string
	sentiments := map[domain.Sentiment]int{}
	for _, r := range rows {
		res.Rows = append(res.Rows, toResult(r))
		categories = append(categories, string(r.Category))
		words = append(words, strings.Fields(r.CleanContent)...)
		entities = append(entities, r.EntityList()...)
		sentiments[domain.NormalizeSentiment(string(r.Sentiment))]++
	}

	res.Latest = latest(rows, latestLimit)
	res.Categories = mostCommon(categories, 0)
	res.Words = mostCommon(words, wordsLimit)
	res.Entities = mostCommon(entities, entitiesLimit)
	res.Sentiment = make([]Count, 0, len(domain.Sentiments))
	for _, s := range domain.Sentiments {
		res.Sentiment = append(res.Sentiment, Count{Name: string(s), Count: sentiments[s]})
	}
	return res
}

// latest returns up to n rows with the newest IST time first
func latest(rows []Row, n int) []ResultRow {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PublishedIST > sorted[j].PublishedIST })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	res := make([]ResultRow, len(sorted))
	for i, r := range sorted {
		res[i] = toResult(r)
	}
	return res
}

// mostCommon counts items, most frequent first with ties in first-seen order; n <= 0 keeps all
func mostCommon(items []string, n int) []Count {
	idx := map[string]int{}
	var res []Count
	for _, it := range items {
		if i, ok := idx[it]; ok {
			res[i].Count++
			continue
		}
		idx[it] = len(res)
		res = append(res, Count{Name: it, Count: 1})
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Count > res[j].Count })
	if n > 0 && len(res) > n {
		res = res[:n]
	}
	return res
}

func toResult(r Row) ResultRow {
	return ResultRow{
		Title:        r.Title,
		URL:          r.URL,
		PublishedIST: r.PublishedIST,
		Category:     string(r.Category),
		Sentiment:    string(r.Sentiment),
		Entities:     r.Entities,
		Source:       r.Source,
	}
}
