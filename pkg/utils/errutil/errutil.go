package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/utils/logging"
)

// report forwards the error to Sentry. No-op until sentry.Init has run
// with a DSN.
func report(err error, extras map[string]any) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		hub.CaptureException(err)
	})
}

// Handle logs the error with a message, reports it to Sentry, and returns
// it unchanged. This function ensures that all errors are logged with
// their goerr context.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
		report(err, ge.Values())
	} else {
		logger.Error(msg, "error", err.Error())
		report(err, nil)
	}

	return err
}

// HandleHTTP logs the error and writes an appropriate HTTP error response.
// Server-side errors (5xx) are also reported to Sentry; client errors are
// logged only.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	if statusCode >= http.StatusInternalServerError {
		extras := map[string]any{"status": statusCode}
		if ge != nil {
			for key, value := range ge.Values() {
				extras[key] = value
			}
		}
		report(err, extras)
	}

	http.Error(w, err.Error(), statusCode)
}
