// Package logger builds the application's structured zap logger.
// Services receive a component-scoped *zap.SugaredLogger via their
// constructors, the same explicit dependency injection used for stores.
package logger

import (
	"go.uber.org/zap"
)

// New constructs the root logger for the given environment.
// "production" selects JSON output with sampling; anything else gets the
// human-readable development preset.
func New(env string) (*zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

// Named returns a child logger tagged with a component name, e.g.
// Named(log, "articles") so every line from the articles service carries
// component=articles.
func Named(log *zap.SugaredLogger, component string) *zap.SugaredLogger {
	return log.With("component", component)
}
