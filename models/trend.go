package models

import (
	"strconv"
	"strings"
)

// TrendRecord is one ranked topic row read from the trends table.
// Records are built once per acquisition and never outlive the request.
type TrendRecord struct {
	Rank          string `json:"rank"`
	Topic         string `json:"topic"`
	TopPosition   string `json:"topPosition,omitempty"`
	TweetCount    string `json:"tweetCount"`
	TweetCountNum int64  `json:"tweetCountNum"`
	Duration      string `json:"duration,omitempty"`
}

// NewTrendRecord trims the raw cell values and derives TweetCountNum.
func NewTrendRecord(rank, topic, topPosition, tweetCount, duration string) TrendRecord {
	r := TrendRecord{
		Rank:        strings.TrimSpace(rank),
		Topic:       strings.TrimSpace(topic),
		TopPosition: strings.TrimSpace(topPosition),
		TweetCount:  strings.TrimSpace(tweetCount),
		Duration:    strings.TrimSpace(duration),
	}
	r.TweetCountNum = ParseTweetCount(r.TweetCount)
	return r
}

// HasCoreFields reports whether rank, topic and tweet count are all present.
func (r TrendRecord) HasCoreFields() bool {
	return r.Rank != "" && r.Topic != "" && r.TweetCount != ""
}

// HasAllFields additionally requires the top position and duration cells.
func (r TrendRecord) HasAllFields() bool {
	return r.HasCoreFields() && r.TopPosition != "" && r.Duration != ""
}

// IsHashtag reports whether the topic was published as a hashtag on the page.
func (r TrendRecord) IsHashtag() bool {
	return strings.HasPrefix(r.Topic, "#")
}

// ParseTweetCount strips thousands separators and reads the leading digits,
// so "12,345" is 12345, "54K" is 54 and anything without a leading digit is 0.
func ParseTweetCount(raw string) int64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
