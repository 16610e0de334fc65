package utils

import "context"

const (
	configurationSourceContextKeyConstant = commandContextKey("configurationSource")
)

type commandContextKey string

// CommandContextAccessor stores command-scoped values in execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationSource records where the active configuration was loaded from.
func (accessor CommandContextAccessor) WithConfigurationSource(parentContext context.Context, configurationSource string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationSourceContextKeyConstant, configurationSource)
}

// ConfigurationSource returns the recorded configuration source, if any.
func (accessor CommandContextAccessor) ConfigurationSource(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationSource, sourceAvailable := executionContext.Value(configurationSourceContextKeyConstant).(string)
	return configurationSource, sourceAvailable
}
