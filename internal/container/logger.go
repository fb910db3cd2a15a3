package container

import (
	"github.com/samber/do"
	"go.uber.org/zap"
)

// LoggerPackage provides the application logger.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat)
	})
}

// NewLogger builds a JSON production logger for "json" and a console
// development logger otherwise.
func NewLogger(format string) (*zap.Logger, error) {
	if format == "json" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
