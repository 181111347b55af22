package trends24

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trendtags/config"
	"trendtags/metrics"
	"trendtags/models"
	"trendtags/utils"
)

const (
	// DefaultURL is the page the trends table is read from.
	DefaultURL = "https://trends24.in/"

	tabSelector = "#tab-link-table"

	extractTimeout = 10 * time.Second
)

// Acquirer drives one Page per call through navigation, consent dismissal,
// tab activation and the data wait, then extracts the trend rows.
type Acquirer struct {
	targetURL string
	launcher  Launcher
	consent   ConsentStrategy
	fields    FieldSet
	limiter   *utils.SessionLimiter
	logger    *utils.Logger
}

// New creates an Acquirer for the deployment described by cfg.
func New(cfg *config.Config, launcher Launcher, limiter *utils.SessionLimiter, logger *utils.Logger) *Acquirer {
	target := cfg.TargetURL
	if target == "" {
		target = DefaultURL
	}
	return &Acquirer{
		targetURL: target,
		launcher:  launcher,
		consent:   ConsentFromConfig(cfg),
		fields:    FieldSetFromConfig(cfg),
		limiter:   limiter,
		logger:    logger,
	}
}

// Acquire returns the trend rows currently on the page. Stages run strictly
// in order; the first fatal failure aborts with an *AcquisitionError. The
// browser session is closed on every return path.
func (a *Acquirer) Acquire(ctx context.Context, opts config.RequestOptions) ([]models.TrendRecord, error) {
	log := a.logger.With("session", uuid.NewString())
	started := time.Now()

	if a.limiter != nil {
		release, err := a.limiter.Acquire(ctx)
		if err != nil {
			return nil, a.fail(log, &AcquisitionError{Stage: StageLaunch, Err: err})
		}
		defer release()
	}

	page, err := a.launcher.Launch(ctx)
	if err != nil {
		return nil, a.fail(log, &AcquisitionError{Stage: StageLaunch, Err: err})
	}
	metrics.ActiveSessions.Inc()
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("[acquire] Closing browser session failed: %v", err)
		}
		metrics.ActiveSessions.Dec()
	}()

	err = a.runStage(ctx, log, StageNavigate, opts.PageLoadTimeout(), func(ctx context.Context) error {
		return page.Navigate(ctx, a.targetURL)
	})
	if err != nil {
		return nil, a.fail(log, err)
	}
	log.Info("[acquire] Page loaded: %s", a.targetURL)

	a.dismissConsent(ctx, log, page, opts.ConsentTimeout())

	err = a.runStage(ctx, log, StageActivateTab, opts.TabClickTimeout(), func(ctx context.Context) error {
		if err := page.WaitReady(ctx, tabSelector); err != nil {
			return err
		}
		return page.Click(ctx, tabSelector)
	})
	if err != nil {
		return nil, a.fail(log, err)
	}
	log.Info("[acquire] Table tab clicked")

	err = a.runStage(ctx, log, StageAwaitData, opts.TabClickTimeout(), func(ctx context.Context) error {
		return page.WaitReady(ctx, rowSelector)
	})
	if err != nil {
		return nil, a.fail(log, err)
	}
	log.Info("[acquire] Table data loaded")

	var records []models.TrendRecord
	err = a.runStage(ctx, log, StageExtract, extractTimeout, func(ctx context.Context) error {
		html, err := page.OuterHTML(ctx, tableSelector)
		if err != nil {
			return err
		}
		var dropped int
		records, dropped, err = ParseTable(html, a.fields)
		if dropped > 0 {
			log.Debug("[acquire] Dropped %d incomplete rows", dropped)
		}
		return err
	})
	if err != nil {
		return nil, a.fail(log, err)
	}

	if len(records) == 0 {
		log.Warn("[acquire] Table had no complete rows")
	}
	metrics.RecordAcquisition("success", len(records))
	log.Info("[acquire] Extracted %d trend records in %v", len(records), time.Since(started).Round(time.Millisecond))
	return records, nil
}

// runStage runs fn under the stage timeout and wraps any failure with the stage.
func (a *Acquirer) runStage(ctx context.Context, log *utils.Logger, stage Stage, timeout time.Duration, fn func(context.Context) error) error {
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := fn(stageCtx)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordStage(string(stage), "error", elapsed)
		return &AcquisitionError{Stage: stage, Err: err}
	}
	metrics.RecordStage(string(stage), "ok", elapsed)
	log.Debug("[acquire] Stage %s done in %.3fs", stage, elapsed)
	return nil
}

// dismissConsent is best effort: any failure is logged and ignored.
func (a *Acquirer) dismissConsent(ctx context.Context, log *utils.Logger, page Page, timeout time.Duration) {
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	clicked, err := a.consent.Dismiss(stageCtx, page)
	elapsed := time.Since(start).Seconds()

	switch {
	case err != nil:
		metrics.RecordStage(string(StageConsent), "skipped", elapsed)
		log.Info("[acquire] No cookie consent control found or timeout (%s), continuing", a.consent.Name())
	case !clicked:
		metrics.RecordStage(string(StageConsent), "skipped", elapsed)
		log.Info("[acquire] No matching consent button found (%s), continuing", a.consent.Name())
	default:
		metrics.RecordStage(string(StageConsent), "ok", elapsed)
		log.Info("[acquire] Cookie consent dismissed (%s)", a.consent.Name())
	}
}

func (a *Acquirer) fail(log *utils.Logger, err error) error {
	if ae, ok := err.(*AcquisitionError); ok {
		metrics.RecordAcquisition(ae.Kind(), 0)
		log.With("stage", string(ae.Stage)).Error("[acquire] %s: %v", ae.Kind(), ae.Err)
	}
	return err
}
