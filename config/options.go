package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trendtags/services"
)

// Query parameter names accepted by the hashtag endpoints.
const (
	ParamEnglishOnly          = "ENGLISH_ONLY"
	ParamHashtagOnly          = "HASHTAG_ONLY"
	ParamTweetMaxChars        = "TWEET_MAX_CHARS"
	ParamTimeoutPageLoad      = "TIMEOUT_PAGE_LOAD"
	ParamTimeoutCookieConsent = "TIMEOUT_COOKIE_CONSENT"
	ParamTimeoutTabClick      = "TIMEOUT_TAB_CLICK"
)

// ErrInvalidOption is wrapped by every query parsing or validation failure.
var ErrInvalidOption = errors.New("invalid option")

// RequestOptions is the per-request configuration: process defaults with
// query overrides applied. It is built once per request and passed by value.
type RequestOptions struct {
	PackingMode string `validate:"oneof=flag budget"`
	EnglishOnly bool
	HashtagOnly bool
	// TweetMaxChars is the character budget; read only in budget mode.
	TweetMaxChars int `validate:"min=1"`

	// Stage timeouts in milliseconds.
	TimeoutPageLoad      int `validate:"min=1"`
	TimeoutCookieConsent int `validate:"min=1"`
	TimeoutTabClick      int `validate:"min=1"`
}

// FromQuery overlays query parameters on the defaults. Only the parameter of
// the deployment's packing mode is read; the other one is ignored.
func FromQuery(defaults RequestOptions, q url.Values) (RequestOptions, error) {
	opts := defaults
	var err error

	if opts.EnglishOnly, err = boolParam(q, ParamEnglishOnly, opts.EnglishOnly); err != nil {
		return opts, err
	}

	switch opts.PackingMode {
	case string(services.PackFlag):
		if opts.HashtagOnly, err = boolParam(q, ParamHashtagOnly, opts.HashtagOnly); err != nil {
			return opts, err
		}
	case string(services.PackBudget):
		if opts.TweetMaxChars, err = intParam(q, ParamTweetMaxChars, opts.TweetMaxChars); err != nil {
			return opts, err
		}
	}

	if opts.TimeoutPageLoad, err = intParam(q, ParamTimeoutPageLoad, opts.TimeoutPageLoad); err != nil {
		return opts, err
	}
	if opts.TimeoutCookieConsent, err = intParam(q, ParamTimeoutCookieConsent, opts.TimeoutCookieConsent); err != nil {
		return opts, err
	}
	if opts.TimeoutTabClick, err = intParam(q, ParamTimeoutTabClick, opts.TimeoutTabClick); err != nil {
		return opts, err
	}

	return opts, opts.Validate()
}

// Validate checks the option values.
func (o RequestOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, describe(err))
	}
	return nil
}

// Policy returns the synthesis policy for these options.
func (o RequestOptions) Policy() services.Policy {
	return services.Policy{
		EnglishOnly: o.EnglishOnly,
		Mode:        services.PackingMode(o.PackingMode),
		CharBudget:  o.TweetMaxChars,
		HashtagOnly: o.HashtagOnly,
	}
}

// PageLoadTimeout bounds navigation until the network is idle.
func (o RequestOptions) PageLoadTimeout() time.Duration {
	return time.Duration(o.TimeoutPageLoad) * time.Millisecond
}

// ConsentTimeout bounds the wait for a consent control.
func (o RequestOptions) ConsentTimeout() time.Duration {
	return time.Duration(o.TimeoutCookieConsent) * time.Millisecond
}

// TabClickTimeout bounds the tab wait and, separately, the data-row wait after the click.
func (o RequestOptions) TabClickTimeout() time.Duration {
	return time.Duration(o.TimeoutTabClick) * time.Millisecond
}

func boolParam(q url.Values, key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s must be true or false, got %q", ErrInvalidOption, key, raw)
	}
	return b, nil
}

func intParam(q url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidOption, key, raw)
	}
	return n, nil
}
