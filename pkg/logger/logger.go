// Package logger provides the *zap.SugaredLogger convention the engine
// logs lifecycle transitions and recoverable capacity violations through.
// DiffCore is an embeddable compute core, not a service: logging is
// best-effort and never gates correctness, so a nil or unconfigured
// logger falls back to a no-op sugared logger rather than panicking.
package logger

import "go.uber.org/zap"

// New returns a production-configured *zap.SugaredLogger named after the
// calling component ("engine", "tokenizer", ...).
func New(name string) *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		return Nop()
	}
	return l.Sugar().Named(name)
}

// Nop returns a *zap.SugaredLogger that discards everything, the default
// for a freshly-created Engine that wasn't given one explicitly.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
