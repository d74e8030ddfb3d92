package domain

// LiveSource is the publisher block of a live headline
type LiveSource struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// LiveArticle is a headline fetched on demand by the live web app
type LiveArticle struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Content        string     `json:"content,omitempty"`
	URL            string     `json:"url"`
	Image          string     `json:"image,omitempty"`
	PublishedAt    string     `json:"publishedAt"`
	Source         LiveSource `json:"source"`
	Sentiment      Sentiment  `json:"sentiment"`
	SentimentEmoji string     `json:"sentiment_emoji"`
}

// UsefulRatio splits articles into useful (positive and neutral) and not useful (negative)
type UsefulRatio struct {
	Useful    int `json:"useful"`
	NotUseful int `json:"not_useful"`
}

// DashboardData is the aggregate served by the live dashboard-data endpoint.
// It is recomputed on every request.
type DashboardData struct {
	Sentiment map[string]int            `json:"sentiment"`
	Sources   map[string]int            `json:"sources"`
	Topics    map[string]int            `json:"topics"`
	Volume    map[string]int            `json:"volume"`
	Useful    UsefulRatio               `json:"useful"`
	Entities  map[string]map[string]int `json:"entities"`
}
