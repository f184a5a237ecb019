package logging

import "go.uber.org/zap"

// New returns a production logger in production and a development logger
// everywhere else.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
