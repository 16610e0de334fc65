package config

import "fmt"

const (
	configurationErrorTemplateConstant          = "configuration error: %s"
	configurationErrorWithCauseTemplateConstant = "configuration error: %s: %v"
)

// ConfigurationError reports a configuration document that cannot be located, parsed, or validated.
type ConfigurationError struct {
	Message string
	Cause   error
}

// Error describes the configuration failure.
func (configurationError ConfigurationError) Error() string {
	if configurationError.Cause == nil {
		return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Message)
	}
	return fmt.Sprintf(configurationErrorWithCauseTemplateConstant, configurationError.Message, configurationError.Cause)
}

// Unwrap exposes the underlying cause.
func (configurationError ConfigurationError) Unwrap() error {
	return configurationError.Cause
}
