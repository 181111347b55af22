package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"trendtags/config"
	"trendtags/models"
	"trendtags/scraper/trends24"
	"trendtags/utils"
)

type fakeSource struct {
	records []models.TrendRecord
	err     error

	calls int
	got   config.RequestOptions
}

func (f *fakeSource) Acquire(ctx context.Context, opts config.RequestOptions) ([]models.TrendRecord, error) {
	f.calls++
	f.got = opts
	return f.records, f.err
}

func quietLogger() *utils.Logger {
	return utils.NewLoggerWithOptions(utils.LoggerOptions{Level: "disabled", Format: "json", Writer: io.Discard})
}

func sampleRecords() []models.TrendRecord {
	return []models.TrendRecord{
		models.NewTrendRecord("1", "#Alpha", "1", "100", "1 hr"),
		models.NewTrendRecord("2", "Beta Gamma", "2", "300", "2 hrs"),
		models.NewTrendRecord("3", "#Delta", "3", "200", "3 hrs"),
		models.NewTrendRecord("4", "日本", "4", "999", "4 hrs"),
	}
}

func defaults(mode string) config.RequestOptions {
	return config.RequestOptions{
		PackingMode:          mode,
		EnglishOnly:          mode == "budget",
		HashtagOnly:          true,
		TweetMaxChars:        280,
		TimeoutPageLoad:      30000,
		TimeoutCookieConsent: 3000,
		TimeoutTabClick:      1000,
	}
}

func serve(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestGenerateHashtagsFlagMode(t *testing.T) {
	src := &fakeSource{records: sampleRecords()}
	h := NewHashtagHandler(src, defaults("flag"), quietLogger())

	rec := serve(h.GenerateHashtags, "/api/generate-hashtags")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var body struct {
		Hashtags []string `json:"hashtags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"#Delta", "#Alpha"}
	if diff := cmp.Diff(want, body.Hashtags); diff != "" {
		t.Errorf("hashtags mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateHashtagsFlagModeAllTopics(t *testing.T) {
	src := &fakeSource{records: sampleRecords()}
	h := NewHashtagHandler(src, defaults("flag"), quietLogger())

	rec := serve(h.GenerateHashtags, "/api/generate-hashtags?HASHTAG_ONLY=false&ENGLISH_ONLY=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Hashtags []string `json:"hashtags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"#BetaGamma", "#Delta", "#Alpha"}
	if diff := cmp.Diff(want, body.Hashtags); diff != "" {
		t.Errorf("hashtags mismatch (-want +got):\n%s", diff)
	}
	if src.got.HashtagOnly || !src.got.EnglishOnly {
		t.Errorf("query overrides not passed to the source: %+v", src.got)
	}
}

func TestGenerateHashtagsBudgetMode(t *testing.T) {
	src := &fakeSource{records: sampleRecords()}
	h := NewHashtagHandler(src, defaults("budget"), quietLogger())

	rec := serve(h.GenerateHashtags, "/api/generate-hashtags?TWEET_MAX_CHARS=17")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Hashtags string `json:"hashtags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// "#BetaGamma" (10) + 1 + "#Delta" (6) = 17
	if body.Hashtags != "#BetaGamma #Delta" {
		t.Errorf("hashtags: got %q, want %q", body.Hashtags, "#BetaGamma #Delta")
	}
}

func TestGenerateHashtagsEmptySnapshot(t *testing.T) {
	h := NewHashtagHandler(&fakeSource{records: []models.TrendRecord{}}, defaults("flag"), quietLogger())

	rec := serve(h.GenerateHashtags, "/api/generate-hashtags")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"hashtags":[]}` {
		t.Errorf("body: got %s", got)
	}
}

func TestGenerateHashtagsAcquisitionFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"stage error", &trends24.AcquisitionError{Stage: trends24.StageNavigate, Err: context.DeadlineExceeded}},
		{"cancelled", context.Canceled},
		{"other", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHashtagHandler(&fakeSource{err: tt.err}, defaults("flag"), quietLogger())

			rec := serve(h.GenerateHashtags, "/api/generate-hashtags")
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status: got %d, want 500", rec.Code)
			}
			if got := rec.Body.String(); got != fetchErrorBody {
				t.Errorf("body: got %q, want %q", got, fetchErrorBody)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Errorf("Content-Type: got %q", ct)
			}
		})
	}
}

func TestGenerateHashtagsRejectsBadOptions(t *testing.T) {
	for _, target := range []string{
		"/api/generate-hashtags?ENGLISH_ONLY=maybe",
		"/api/generate-hashtags?TIMEOUT_PAGE_LOAD=fast",
		"/api/generate-hashtags?TIMEOUT_TAB_CLICK=0",
	} {
		src := &fakeSource{records: sampleRecords()}
		h := NewHashtagHandler(src, defaults("flag"), quietLogger())

		rec := serve(h.GenerateHashtags, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", target, rec.Code)
		}
		if src.calls != 0 {
			t.Errorf("%s: source must not be called for invalid options", target)
		}
	}
}

func TestGetTrends(t *testing.T) {
	h := NewHashtagHandler(&fakeSource{records: sampleRecords()}, defaults("flag"), quietLogger())

	rec := serve(h.GetTrends, "/api/trends")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var body struct {
		Trends []models.TrendRecord `json:"trends"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(sampleRecords(), body.Trends); diff != "" {
		t.Errorf("trends mismatch (-want +got):\n%s", diff)
	}
}

func TestGetTrendsCSV(t *testing.T) {
	h := NewHashtagHandler(&fakeSource{records: sampleRecords()}, defaults("flag"), quietLogger())

	rec := serve(h.GetTrendsCSV, "/api/trends.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type: got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines: got %d, want header + 4", len(lines))
	}
	if lines[0] != "rank,topic,top_position,tweet_count,tweet_count_num,duration" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[2] != "2,Beta Gamma,2,300,300,2 hrs" {
		t.Errorf("row: got %q", lines[2])
	}
}
