package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"trendtags/models"
)

// PackingMode selects how many of the ranked hashtags are kept.
// A deployment runs exactly one mode.
type PackingMode string

const (
	// PackBudget keeps hashtags until a character budget would be exceeded.
	PackBudget PackingMode = "budget"
	// PackFlag keeps every hashtag, or only the ones already published as hashtags.
	PackFlag PackingMode = "flag"
)

// DefaultCharBudget is the length of a single tweet.
const DefaultCharBudget = 280

var (
	// englishRegexp accepts ASCII letters, digits, '#' and whitespace only
	englishRegexp = regexp.MustCompile(`^[A-Za-z0-9#\s]+$`)
	// whitespaceRegexp matches runs of whitespace inside a topic
	whitespaceRegexp = regexp.MustCompile(`\s+`)
	// disallowedRegexp drops everything but word chars, CJK ideographs, Arabic script and '#'
	disallowedRegexp = regexp.MustCompile(`[^\w\x{4e00}-\x{9fff}\x{0600}-\x{06ff}#]`)
)

// Policy controls hashtag synthesis for one request.
type Policy struct {
	EnglishOnly bool
	Mode        PackingMode
	CharBudget  int
	HashtagOnly bool
}

// ParsePackingMode accepts "budget" or "flag", case-insensitively.
func ParsePackingMode(s string) (PackingMode, error) {
	switch PackingMode(strings.ToLower(strings.TrimSpace(s))) {
	case PackBudget:
		return PackBudget, nil
	case PackFlag:
		return PackFlag, nil
	default:
		return "", fmt.Errorf("unknown packing mode %q (want %q or %q)", s, PackBudget, PackFlag)
	}
}

// Hashtags is the synthesis result. It marshals to a space-joined string in
// budget mode and to an array in flag mode.
type Hashtags struct {
	Mode PackingMode
	Tags []string
}

// String joins the tags with single spaces.
func (h Hashtags) String() string {
	return strings.Join(h.Tags, " ")
}

func (h Hashtags) MarshalJSON() ([]byte, error) {
	if h.Mode == PackBudget {
		return json.Marshal(h.String())
	}
	if h.Tags == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.Tags)
}

// candidate is a cleaned, formatted hashtag and whether its topic was already a hashtag.
type candidate struct {
	tag       string
	wasHashed bool
}

// Synthesize turns trend records into hashtags under the given policy.
// It never mutates records and always returns the same output for the same input.
func Synthesize(records []models.TrendRecord, p Policy) Hashtags {
	filtered := records
	if p.EnglishOnly {
		filtered = FilterEnglish(records)
	}

	ranked := RankByTweetCount(filtered)

	candidates := make([]candidate, 0, len(ranked))
	for _, r := range ranked {
		tag, ok := FormatHashtag(r.Topic)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{tag: tag, wasHashed: r.IsHashtag()})
	}

	if p.Mode == PackBudget {
		return Hashtags{Mode: PackBudget, Tags: packBudget(candidates, p.CharBudget)}
	}
	return Hashtags{Mode: PackFlag, Tags: packFlag(candidates, p.HashtagOnly)}
}

// FilterEnglish keeps the records whose topic is made only of ASCII letters,
// digits, '#' and whitespace. Order is preserved.
func FilterEnglish(records []models.TrendRecord) []models.TrendRecord {
	out := make([]models.TrendRecord, 0, len(records))
	for _, r := range records {
		if englishRegexp.MatchString(r.Topic) {
			out = append(out, r)
		}
	}
	return out
}

// RankByTweetCount returns a copy sorted by TweetCountNum descending.
// Equal counts keep their original relative order.
func RankByTweetCount(records []models.TrendRecord) []models.TrendRecord {
	out := make([]models.TrendRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TweetCountNum > out[j].TweetCountNum
	})
	return out
}

// CleanTopic strips whitespace and every character a hashtag cannot carry.
func CleanTopic(topic string) string {
	s := whitespaceRegexp.ReplaceAllString(topic, "")
	return disallowedRegexp.ReplaceAllString(s, "")
}

// FormatHashtag cleans a topic and prefixes '#' unless the topic already had one.
// ok is false when nothing usable is left.
func FormatHashtag(topic string) (tag string, ok bool) {
	cleaned := CleanTopic(topic)
	if cleaned == "" || cleaned == "#" {
		return "", false
	}
	if strings.HasPrefix(topic, "#") {
		return cleaned, true
	}
	return "#" + cleaned, true
}

// HashtagLength counts characters the way a tweet does for the kept alphabet.
func HashtagLength(tag string) int {
	return utf8.RuneCountInString(tag)
}

func packBudget(candidates []candidate, budget int) []string {
	tags := make([]string, 0, len(candidates))
	total := 0
	for _, c := range candidates {
		n := HashtagLength(c.tag)
		if total+n > budget {
			break
		}
		tags = append(tags, c.tag)
		total += n + 1
	}
	return tags
}

func packFlag(candidates []candidate, hashtagOnly bool) []string {
	tags := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if hashtagOnly && !c.wasHashed {
			continue
		}
		tags = append(tags, c.tag)
	}
	return tags
}
