package services

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"trendtags/models"
)

// TrendSummary holds the computed overview of one acquired snapshot.
type TrendSummary struct {
	TotalRecords     int
	HashtagTopics    int
	EnglishTopics    int
	UsableTopics     int
	TotalTweetCount  int64
	Top              []models.TrendRecord
	PolicyMode       PackingMode
	SynthesizedCount int
}

// Summarize computes a TrendSummary, keeping the topN records with the most tweets.
func Summarize(records []models.TrendRecord, p Policy, topN int) TrendSummary {
	s := TrendSummary{
		TotalRecords: len(records),
		PolicyMode:   p.Mode,
	}

	for _, r := range records {
		if r.IsHashtag() {
			s.HashtagTopics++
		}
		if englishRegexp.MatchString(r.Topic) {
			s.EnglishTopics++
		}
		if _, ok := FormatHashtag(r.Topic); ok {
			s.UsableTopics++
		}
		s.TotalTweetCount += r.TweetCountNum
	}

	ranked := RankByTweetCount(records)
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	s.Top = ranked
	s.SynthesizedCount = len(Synthesize(records, p).Tags)

	return s
}

// Render writes the summary as two tables.
func (s TrendSummary) Render(w io.Writer) {
	overview := table.NewWriter()
	overview.SetOutputMirror(w)
	overview.SetTitle("Trend Snapshot")
	overview.AppendRows([]table.Row{
		{"Trend records", s.TotalRecords},
		{"Already hashtags", s.HashtagTopics},
		{"English-safe topics", s.EnglishTopics},
		{"Usable as hashtags", s.UsableTopics},
		{"Total tweets", s.TotalTweetCount},
		{fmt.Sprintf("Hashtags emitted (%s)", s.PolicyMode), s.SynthesizedCount},
	})
	overview.SetStyle(table.StyleRounded)
	overview.Render()

	top := table.NewWriter()
	top.SetOutputMirror(w)
	top.SetTitle(fmt.Sprintf("Top %d by Tweet Count", len(s.Top)))
	top.AppendHeader(table.Row{"#", "Rank", "Topic", "Tweets", "Duration"})
	for i, r := range s.Top {
		top.AppendRow(table.Row{i + 1, r.Rank, truncate(r.Topic, 40), r.TweetCount, r.Duration})
	}
	if len(s.Top) == 0 {
		top.AppendRow(table.Row{"", "", "No trend records", "", ""})
	}
	top.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})
	top.SetStyle(table.StyleRounded)
	top.Render()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
