// Package logging provides the shared zap logger and log sanitization helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New constructs the application logger. Production builds use JSON output;
// any other environment gets the human-readable development encoder.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
