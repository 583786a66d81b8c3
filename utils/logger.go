package utils

import (
	"os"

	"go.uber.org/zap"
)

var Logger *zap.SugaredLogger

// InitializeLogger sets up the process-wide zap logger. Development mode
// (human-readable output) unless APP_ENV=production.
func InitializeLogger() *zap.SugaredLogger {
	var base *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		base = zap.NewNop()
	}
	Logger = base.Sugar()
	return Logger
}
