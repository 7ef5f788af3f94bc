// Package errors defines DiffCore's typed error taxonomy: a baseError
// embedded by EngineError, TokenizeError and ConfigError, each carrying
// the exact StatusCode byte the engine's external interface promises,
// plus fluent builders and errors.As-based extraction helpers.
package errors

import "errors"

// IsEngineError reports whether err is, or wraps, an *EngineError.
func IsEngineError(err error) bool {
	var e *EngineError
	return errors.As(err, &e)
}

// IsTokenizeError reports whether err is, or wraps, a *TokenizeError.
func IsTokenizeError(err error) bool {
	var e *TokenizeError
	return errors.As(err, &e)
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// AsEngineError extracts an *EngineError from err, if any wraps one.
func AsEngineError(err error) (*EngineError, bool) {
	var e *EngineError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsTokenizeError extracts a *TokenizeError from err, if any wraps one.
func AsTokenizeError(err error) (*TokenizeError, bool) {
	var e *TokenizeError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsConfigError extracts a *ConfigError from err, if any wraps one.
func AsConfigError(err error) (*ConfigError, bool) {
	var e *ConfigError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetStatusCode extracts the StatusCode carried by err, defaulting to
// CodeParseFailure (255, "generic/unclassified") for any error that
// doesn't carry one of DiffCore's typed error shapes.
func GetStatusCode(err error) StatusCode {
	if err == nil {
		return CodeOk
	}
	if e, ok := AsEngineError(err); ok {
		return e.Code()
	}
	if e, ok := AsTokenizeError(err); ok {
		return e.Code()
	}
	if e, ok := AsConfigError(err); ok {
		return e.Code()
	}
	return CodeParseFailure
}

// GetDetails extracts the detail bag carried by err, or nil if err is not
// one of DiffCore's typed error shapes.
func GetDetails(err error) map[string]any {
	if e, ok := AsEngineError(err); ok {
		return e.Details()
	}
	if e, ok := AsTokenizeError(err); ok {
		return e.Details()
	}
	if e, ok := AsConfigError(err); ok {
		return e.Details()
	}
	return nil
}
