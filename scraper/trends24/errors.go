package trends24

import (
	"context"
	"errors"
	"fmt"
)

// Stage names one step of the acquisition.
type Stage string

const (
	StageLaunch      Stage = "launch"
	StageNavigate    Stage = "navigate"
	StageConsent     Stage = "dismiss-consent"
	StageActivateTab Stage = "activate-tab"
	StageAwaitData   Stage = "await-data"
	StageExtract     Stage = "extract"
)

// AcquisitionError is returned when a fatal stage fails. Consent dismissal
// never produces one.
type AcquisitionError struct {
	Stage Stage
	Err   error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition failed at %s: %v", e.Stage, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the stage ran out of time.
func (e *AcquisitionError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Kind classifies the failure for logs and metrics.
func (e *AcquisitionError) Kind() string {
	switch e.Stage {
	case StageNavigate:
		if e.Timeout() {
			return "NavigationTimeout"
		}
		return "NavigationError"
	case StageActivateTab:
		if e.Timeout() {
			return "TabActivationTimeout"
		}
		return "TabActivationError"
	case StageAwaitData:
		if e.Timeout() {
			return "DataNotReadyTimeout"
		}
		return "DataNotReadyError"
	case StageExtract:
		return "ExtractionError"
	case StageLaunch:
		return "LaunchError"
	default:
		return "AcquisitionError"
	}
}

// StageOf returns the failed stage of err, if it is an acquisition error.
func StageOf(err error) (Stage, bool) {
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return ae.Stage, true
	}
	return "", false
}
