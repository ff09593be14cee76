// Package logging builds the process logger.
package logging

import (
	"go.uber.org/zap"

	"github.com/mummysfood/backend/config"
)

// New returns a JSON logger in production and a console logger elsewhere
func New() (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if config.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
