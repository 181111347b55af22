package trends24

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"trendtags/config"
)

// textScanSelector matches every element that may carry the consent label.
const textScanSelector = "button span, button"

// ConsentStrategy dismisses the cookie consent dialog if one is shown.
// clicked is false when no matching control was found.
type ConsentStrategy interface {
	Name() string
	Dismiss(ctx context.Context, page Page) (clicked bool, err error)
}

// SelectorConsent clicks a known consent control.
type SelectorConsent struct {
	Selector string
}

func (s SelectorConsent) Name() string { return "selector" }

func (s SelectorConsent) Dismiss(ctx context.Context, page Page) (bool, error) {
	if err := page.WaitReady(ctx, s.Selector); err != nil {
		return false, err
	}
	if err := page.Click(ctx, s.Selector); err != nil {
		return false, err
	}
	return true, nil
}

// TextScanConsent reads every button and clicks the first whose label
// matches Label, ignoring surrounding whitespace and case.
type TextScanConsent struct {
	Selector string
	Label    string
}

func (s TextScanConsent) Name() string { return "text-scan" }

func (s TextScanConsent) Dismiss(ctx context.Context, page Page) (bool, error) {
	selector := s.Selector
	if selector == "" {
		selector = textScanSelector
	}

	if err := page.WaitReady(ctx, selector); err != nil {
		return false, err
	}

	texts, err := page.Texts(ctx, selector)
	if err != nil {
		return false, err
	}

	idx := matchLabel(texts, s.Label)
	if idx < 0 {
		return false, nil
	}
	if err := page.ClickNth(ctx, selector, idx); err != nil {
		return false, err
	}
	return true, nil
}

// matchLabel returns the index of the first text equal to label after
// trimming and case folding, or -1.
func matchLabel(texts []string, label string) int {
	want := cases.Fold().String(strings.TrimSpace(label))
	for i, t := range texts {
		if cases.Fold().String(strings.TrimSpace(t)) == want {
			return i
		}
	}
	return -1
}

// ConsentFromConfig picks the strategy the deployment is configured for.
func ConsentFromConfig(cfg *config.Config) ConsentStrategy {
	if cfg.ConsentStrategy == config.ConsentSelector {
		return SelectorConsent{Selector: cfg.ConsentSelector}
	}
	return TextScanConsent{Selector: textScanSelector, Label: cfg.ConsentLabel}
}
