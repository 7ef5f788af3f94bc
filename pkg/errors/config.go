package errors

// ConfigError reports a malformed configuration record: wrong length on
// decode, or a field whose value is structurally invalid.
type ConfigError struct {
	*baseError
	field string
}

// NewConfigError builds a ConfigError with the given status code and
// message.
func NewConfigError(code StatusCode, message string) *ConfigError {
	return &ConfigError{baseError: newBaseError(code, message)}
}

func (e *ConfigError) WithCause(cause error) *ConfigError {
	e.baseError = e.baseError.withCause(cause)
	return e
}

// WithField records which config field was implicated.
func (e *ConfigError) WithField(field string) *ConfigError {
	e.field = field
	e.baseError = e.baseError.withDetail("field", field)
	return e
}

// Field returns the config field recorded on this error.
func (e *ConfigError) Field() string {
	return e.field
}
