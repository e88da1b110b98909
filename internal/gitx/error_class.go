// SPDX-License-Identifier: MIT
package gitx

import (
	"context"
	"errors"
	"strings"
)

// ErrorClass categorizes a failed git invocation into one of the
// error kinds, so callers can decide whether it is fatal (configuration,
// snapshot) or degrades safely (oracle) without parsing messages twice.
type ErrorClass string

const (
	ClassConfiguration ErrorClass = "configuration"
	ClassSnapshot      ErrorClass = "snapshot"
	ClassOracle        ErrorClass = "oracle"
	ClassExecution     ErrorClass = "execution"
	ClassUnknown       ErrorClass = "unknown"
)

// ClassifyError maps a git/process error into a broad, actionable category.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ClassOracle
	}
	if errors.Is(err, ErrNotFound) {
		return ClassOracle
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "not a git repository", "bad object", "corrupt", "unknown revision"):
		return ClassSnapshot
	case containsAny(msg, "permission denied", "authentication failed", "could not read username"):
		return ClassExecution
	case containsAny(msg, "remote rejected", "failed to push", "deletion of"):
		return ClassExecution
	default:
		return ClassUnknown
	}
}

func containsAny(msg string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
