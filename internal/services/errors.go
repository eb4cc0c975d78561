package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrBusy          = errors.New("already running")
	ErrCancelled     = errors.New("stopped")
	ErrTransient     = errors.New("transient failure")
)

// Batch outcome labels recorded in run history and printed by the CLI.
const (
	StatusCompleted = "completed"
	StatusStopped   = "stopped"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a batch error to the status label persisted in history.
func FailureStatus(err error) string {
	switch {
	case err == nil:
		return StatusCompleted
	case errors.Is(err, ErrCancelled):
		return StatusStopped
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBusy):
		return StatusRejected
	default:
		return StatusFailed
	}
}

// IsPrecondition reports whether err was raised before any background work
// started (missing input, empty key pool, a batch already in flight).
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrBusy) || errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
