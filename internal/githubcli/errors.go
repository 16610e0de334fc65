package githubcli

import (
	"errors"
	"fmt"
)

const (
	toolNotInstalledTemplateConstant  = "%s CLI not found. Install from https://cli.github.com"
	externalToolErrorTemplateConstant = "gh CLI error: %s"
	malformedOutputTemplateConstant   = "gh returned malformed JSON: %v (output starts with %q)"
	invocationErrorTemplateConstant   = "gh invocation failed: %v"
	executorNotConfiguredMessage      = "github cli executor not configured"
	resolverNotConfiguredMessage      = "credential resolver not configured"
)

var (
	// ErrExecutorNotConfigured indicates the gateway was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)
	// ErrResolverNotConfigured indicates the gateway was constructed without a credential resolver.
	ErrResolverNotConfigured = errors.New(resolverNotConfiguredMessage)
)

// ToolNotInstalledError reports that the gh executable is absent from the search path.
type ToolNotInstalledError struct {
	ToolName string
	Cause    error
}

// Error describes the missing tool.
func (toolError ToolNotInstalledError) Error() string {
	return fmt.Sprintf(toolNotInstalledTemplateConstant, toolError.ToolName)
}

// Unwrap exposes the lookup failure.
func (toolError ToolNotInstalledError) Unwrap() error {
	return toolError.Cause
}

// ExternalToolError reports a gh invocation that exited with a non-zero status.
// Message is the trimmed standard error, or the trimmed standard output when standard error is empty.
type ExternalToolError struct {
	Message  string
	ExitCode int
}

// Error returns the diagnostic text reported by gh.
func (toolError ExternalToolError) Error() string {
	return fmt.Sprintf(externalToolErrorTemplateConstant, toolError.Message)
}

// MalformedOutputError reports structured output that is not valid JSON.
type MalformedOutputError struct {
	OutputPrefix string
	Cause        error
}

// Error describes the decoding failure and the beginning of the offending output.
func (outputError MalformedOutputError) Error() string {
	return fmt.Sprintf(malformedOutputTemplateConstant, outputError.Cause, outputError.OutputPrefix)
}

// Unwrap exposes the decoding failure.
func (outputError MalformedOutputError) Unwrap() error {
	return outputError.Cause
}

// InvocationError reports a gh process that could not be started or was interrupted.
type InvocationError struct {
	Cause error
}

// Error describes the invocation failure.
func (invocationError InvocationError) Error() string {
	return fmt.Sprintf(invocationErrorTemplateConstant, invocationError.Cause)
}

// Unwrap exposes the underlying cause.
func (invocationError InvocationError) Unwrap() error {
	return invocationError.Cause
}
