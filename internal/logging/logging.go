// Package logging builds the zap logger for the selected environment.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON logger in production and a console logger otherwise.
func New(environment string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	switch environment {
	case "production":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return logger, nil
}
