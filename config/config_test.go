package config

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"trendtags/services"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HASHTAG_PACKING", "")
	t.Setenv("PORT", "")

	cfg := Load()

	if cfg.Port != 3000 {
		t.Errorf("Port: got %d, want 3000", cfg.Port)
	}
	if cfg.PackingMode != "flag" || cfg.Defaults.PackingMode != "flag" {
		t.Errorf("PackingMode: got %q/%q, want flag", cfg.PackingMode, cfg.Defaults.PackingMode)
	}
	if cfg.Defaults.EnglishOnly {
		t.Error("flag deployments default to EnglishOnly=false")
	}
	if !cfg.Defaults.HashtagOnly {
		t.Error("flag deployments default to HashtagOnly=true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadBudgetDeployment(t *testing.T) {
	t.Setenv("HASHTAG_PACKING", "BUDGET")
	t.Setenv("CONSENT_STRATEGY", "selector")
	t.Setenv("EXTRACT_FIELDS", "core")
	t.Setenv("DEFAULT_TWEET_MAX_CHARS", "140")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	if cfg.PackingMode != "budget" {
		t.Errorf("PackingMode: got %q, want budget", cfg.PackingMode)
	}
	if !cfg.Defaults.EnglishOnly {
		t.Error("budget deployments default to EnglishOnly=true")
	}
	if cfg.Defaults.TweetMaxChars != 140 {
		t.Errorf("TweetMaxChars: got %d, want 140", cfg.Defaults.TweetMaxChars)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.CorsOrigins); diff != "" {
		t.Errorf("CorsOrigins mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("budget config should validate: %v", err)
	}
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	t.Setenv("CONSENT_STRATEGY", "guess")
	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown consent strategy")
	}
}

func flagDefaults() RequestOptions {
	return RequestOptions{
		PackingMode:          "flag",
		HashtagOnly:          true,
		TweetMaxChars:        280,
		TimeoutPageLoad:      30000,
		TimeoutCookieConsent: 3000,
		TimeoutTabClick:      1000,
	}
}

func TestFromQueryOverrides(t *testing.T) {
	q := url.Values{}
	q.Set(ParamEnglishOnly, "true")
	q.Set(ParamHashtagOnly, "false")
	q.Set(ParamTimeoutPageLoad, "5000")
	q.Set(ParamTimeoutCookieConsent, "250")
	q.Set(ParamTimeoutTabClick, "750")

	got, err := FromQuery(flagDefaults(), q)
	if err != nil {
		t.Fatalf("FromQuery: %v", err)
	}

	want := RequestOptions{
		PackingMode:          "flag",
		EnglishOnly:          true,
		HashtagOnly:          false,
		TweetMaxChars:        280,
		TimeoutPageLoad:      5000,
		TimeoutCookieConsent: 250,
		TimeoutTabClick:      750,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromQuery mismatch (-want +got):\n%s", diff)
	}
	if got.PageLoadTimeout() != 5*time.Second {
		t.Errorf("PageLoadTimeout: got %v", got.PageLoadTimeout())
	}
}

func TestFromQueryIgnoresOtherModeParam(t *testing.T) {
	q := url.Values{}
	q.Set(ParamTweetMaxChars, "10")

	got, err := FromQuery(flagDefaults(), q)
	if err != nil {
		t.Fatalf("FromQuery: %v", err)
	}
	if got.TweetMaxChars != 280 {
		t.Errorf("flag mode must ignore %s, got %d", ParamTweetMaxChars, got.TweetMaxChars)
	}

	budget := flagDefaults()
	budget.PackingMode = "budget"
	q = url.Values{}
	q.Set(ParamHashtagOnly, "false")
	q.Set(ParamTweetMaxChars, "10")

	got, err = FromQuery(budget, q)
	if err != nil {
		t.Fatalf("FromQuery: %v", err)
	}
	if !got.HashtagOnly || got.TweetMaxChars != 10 {
		t.Errorf("budget mode: got HashtagOnly=%v TweetMaxChars=%d", got.HashtagOnly, got.TweetMaxChars)
	}

	p := got.Policy()
	if p.Mode != services.PackBudget || p.CharBudget != 10 {
		t.Errorf("Policy: got %+v", p)
	}
}

func TestFromQueryRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{ParamEnglishOnly, "yes please"},
		{ParamHashtagOnly, "maybe"},
		{ParamTimeoutPageLoad, "soon"},
		{ParamTimeoutCookieConsent, "0"},
		{ParamTimeoutTabClick, "-5"},
	}

	for _, tt := range tests {
		q := url.Values{}
		q.Set(tt.key, tt.value)
		_, err := FromQuery(flagDefaults(), q)
		if !errors.Is(err, ErrInvalidOption) {
			t.Errorf("%s=%q: got %v, want ErrInvalidOption", tt.key, tt.value, err)
		}
	}
}
