package dashboard

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/newspulse/newspulse/pkg/domain"
)

// messages shown in place of views with nothing to draw
const (
	msgNoLatest    = "No news available for the selected filters."
	msgNoCategory  = "No data for category chart."
	msgNoWords     = "No content for wordcloud."
	msgNoSentiment = "No sentiment data available for the current selection."
	msgNoEntities  = "No named entities detected in this selection."
	msgNoResults   = "No search results to display."
)

var sentimentColors = map[string]string{
	string(domain.SentimentPositive): "#00cc99",
	string(domain.SentimentNegative): "#ff66b3",
	string(domain.SentimentNeutral):  "gray",
}

// Notes lists the info messages for views of s that have nothing to show
func (s Summary) Notes() []string {
	var res []string
	if len(s.Latest) == 0 {
		res = append(res, msgNoLatest)
	}
	if len(s.Categories) == 0 {
		res = append(res, msgNoCategory)
	}
	if len(s.Words) == 0 {
		res = append(res, msgNoWords)
	}
	if !s.hasSentiment() {
		res = append(res, msgNoSentiment)
	}
	if len(s.Entities) == 0 {
		res = append(res, msgNoEntities)
	}
	if len(s.Rows) == 0 {
		res = append(res, msgNoResults)
	}
	return res
}

func (s Summary) hasSentiment() bool {
	for _, c := range s.Sentiment {
		if c.Count > 0 {
			return true
		}
	}
	return false
}

// RenderCharts writes a page with the category, word cloud, sentiment and entity charts.
// Charts without data are left out.
func RenderCharts(w io.Writer, s Summary) error {
	page := components.NewPage()
	page.PageTitle = "Newspulse charts"

	if len(s.Categories) > 0 {
		page.AddCharts(countBar("Articles per Category", "articles", s.Categories))
	}
	if len(s.Words) > 0 {
		page.AddCharts(wordCloud(s.Words))
	}
	if s.hasSentiment() {
		page.AddCharts(sentimentPie(s.Sentiment))
	}
	if len(s.Entities) > 0 {
		page.AddCharts(countBar("Top Named Entities", "mentions", s.Entities))
	}
	return page.Render(w)
}

func countBar(title, series string, counts []Count) *charts.Bar {
	names := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		names[i] = c.Name
		data[i] = opts.BarData{Value: c.Count}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(names).AddSeries(series, data)
	return bar
}

func wordCloud(words []Count) *charts.WordCloud {
	data := make([]opts.WordCloudData, len(words))
	for i, c := range words {
		data[i] = opts.WordCloudData{Name: c.Name, Value: c.Count}
	}
	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Word Cloud"}))
	wc.AddSeries("words", data).SetSeriesOptions(
		charts.WithWorldCloudChartOpts(opts.WordCloudChart{SizeRange: []float32{12, 72}}),
	)
	return wc
}

func sentimentPie(counts []Count) *charts.Pie {
	data := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		data = append(data, opts.PieData{Name: c.Name, Value: c.Count,
			ItemStyle: &opts.ItemStyle{Color: sentimentColors[c.Name]}})
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Sentiment Distribution"}))
	pie.AddSeries("sentiment", data)
	return pie
}
