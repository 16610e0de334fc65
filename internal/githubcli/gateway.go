package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/temirov/multigh/internal/credentials"
	"github.com/temirov/multigh/internal/execshell"
)

const (
	githubTokenEnvironmentVariableConstant    = "GH_TOKEN"
	noColorEnvironmentVariableConstant        = "NO_COLOR"
	promptDisabledEnvironmentVariableConstant = "GH_PROMPT_DISABLED"
	updateNotifierEnvironmentVariableConstant = "GH_NO_UPDATE_NOTIFIER"
	enabledEnvironmentValueConstant           = "1"
	versionFlagConstant                       = "--version"
	malformedOutputPrefixLengthConstant       = 200
	newlineConstant                           = "\n"
)

// NullStructuredResult is returned for structured invocations that print nothing.
var NullStructuredResult = json.RawMessage("null")

// OutputMode selects how successful output is interpreted.
type OutputMode int

// Output modes.
const (
	// OutputModeStructured parses standard output as JSON.
	OutputModeStructured OutputMode = iota
	// OutputModeRawText returns standard output verbatim.
	OutputModeRawText
)

// CommandSpec describes a single gh invocation on behalf of an account.
// An empty Account selects the configured default account.
type CommandSpec struct {
	Arguments     []string
	Account       string
	OutputMode    OutputMode
	StandardInput []byte
}

// CommandOutcome is the classified result of a successful invocation.
type CommandOutcome struct {
	Mode       OutputMode
	Structured json.RawMessage
	Text       string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CredentialResolver resolves the token of an account.
type CredentialResolver interface {
	Resolve(resolutionContext context.Context, accountName string) (credentials.Credential, error)
}

// GatewayOptions tunes gateway construction.
type GatewayOptions struct {
	// ExecutableLocator defaults to a search path lookup.
	ExecutableLocator execshell.ExecutableLocator
	// CommandTimeout bounds each invocation when positive.
	CommandTimeout time.Duration
}

// Gateway executes gh with per-call credentials.
type Gateway struct {
	executor       GitHubCommandExecutor
	resolver       CredentialResolver
	commandTimeout time.Duration
}

// NewGateway verifies gh is installed and constructs a Gateway.
func NewGateway(executor GitHubCommandExecutor, resolver CredentialResolver, options GatewayOptions) (*Gateway, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if resolver == nil {
		return nil, ErrResolverNotConfigured
	}

	executableLocator := options.ExecutableLocator
	if executableLocator == nil {
		executableLocator = func(executableName string) (string, error) {
			return execshell.LocateExecutable(execshell.CommandName(executableName))
		}
	}
	if _, lookupError := executableLocator(string(execshell.CommandGitHub)); lookupError != nil {
		return nil, ToolNotInstalledError{ToolName: string(execshell.CommandGitHub), Cause: lookupError}
	}

	return &Gateway{
		executor:       executor,
		resolver:       resolver,
		commandTimeout: options.CommandTimeout,
	}, nil
}

// Execute resolves the credential, runs gh, and classifies the output.
// Credential failures are returned unchanged and no process is started.
func (gateway *Gateway) Execute(executionContext context.Context, spec CommandSpec) (CommandOutcome, error) {
	credential, resolveError := gateway.resolver.Resolve(executionContext, spec.Account)
	if resolveError != nil {
		return CommandOutcome{}, resolveError
	}

	environmentOverlay := baseEnvironmentOverlay()
	environmentOverlay[githubTokenEnvironmentVariableConstant] = credential.Value()

	executionResult, executionError := gateway.run(executionContext, execshell.CommandDetails{
		Arguments:            append([]string{}, spec.Arguments...),
		EnvironmentVariables: environmentOverlay,
		StandardInput:        spec.StandardInput,
	})
	if executionError != nil {
		return CommandOutcome{}, executionError
	}

	if spec.OutputMode == OutputModeRawText {
		return CommandOutcome{Mode: OutputModeRawText, Text: executionResult.StandardOutput}, nil
	}

	structuredPayload, decodeError := decodeStructuredOutput(executionResult.StandardOutput)
	if decodeError != nil {
		return CommandOutcome{}, decodeError
	}
	return CommandOutcome{Mode: OutputModeStructured, Structured: structuredPayload}, nil
}

// Run executes a structured gh command.
func (gateway *Gateway) Run(executionContext context.Context, account string, arguments ...string) (json.RawMessage, error) {
	outcome, executionError := gateway.Execute(executionContext, CommandSpec{Arguments: arguments, Account: account, OutputMode: OutputModeStructured})
	if executionError != nil {
		return nil, executionError
	}
	return outcome.Structured, nil
}

// RunRaw executes a gh command and returns its standard output verbatim.
func (gateway *Gateway) RunRaw(executionContext context.Context, account string, arguments ...string) (string, error) {
	outcome, executionError := gateway.Execute(executionContext, CommandSpec{Arguments: arguments, Account: account, OutputMode: OutputModeRawText})
	if executionError != nil {
		return "", executionError
	}
	return outcome.Text, nil
}

// API performs a generic "gh api" request.
func (gateway *Gateway) API(executionContext context.Context, account string, request APIRequest) (json.RawMessage, error) {
	outcome, executionError := gateway.Execute(executionContext, NewAPICommandSpec(account, request))
	if executionError != nil {
		return nil, executionError
	}
	return outcome.Structured, nil
}

// Version reports the first line of "gh --version". It needs no credential.
func (gateway *Gateway) Version(executionContext context.Context) (string, error) {
	executionResult, executionError := gateway.run(executionContext, execshell.CommandDetails{
		Arguments:            []string{versionFlagConstant},
		EnvironmentVariables: baseEnvironmentOverlay(),
	})
	if executionError != nil {
		return "", executionError
	}
	firstLine, _, _ := strings.Cut(strings.TrimSpace(executionResult.StandardOutput), newlineConstant)
	return strings.TrimSpace(firstLine), nil
}

func (gateway *Gateway) run(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if gateway.commandTimeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, gateway.commandTimeout)
		defer cancel()
	}

	executionResult, executionError := gateway.executor.ExecuteGitHubCLI(executionContext, details)
	if executionError == nil {
		return executionResult, nil
	}

	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		return execshell.ExecutionResult{}, ExternalToolError{
			Message:  failureDiagnostic(failedError.Result),
			ExitCode: failedError.Result.ExitCode,
		}
	}

	var commandExecutionError execshell.CommandExecutionError
	if errors.As(executionError, &commandExecutionError) {
		return execshell.ExecutionResult{}, InvocationError{Cause: commandExecutionError.Cause}
	}
	return execshell.ExecutionResult{}, InvocationError{Cause: executionError}
}

func baseEnvironmentOverlay() map[string]string {
	return map[string]string{
		noColorEnvironmentVariableConstant:        enabledEnvironmentValueConstant,
		promptDisabledEnvironmentVariableConstant: enabledEnvironmentValueConstant,
		updateNotifierEnvironmentVariableConstant: enabledEnvironmentValueConstant,
	}
}

func failureDiagnostic(result execshell.ExecutionResult) string {
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) > 0 {
		return trimmedStandardError
	}
	return strings.TrimSpace(result.StandardOutput)
}

func decodeStructuredOutput(standardOutput string) (json.RawMessage, error) {
	trimmedOutput := strings.TrimSpace(standardOutput)
	if len(trimmedOutput) == 0 {
		return NullStructuredResult, nil
	}

	var structuredPayload json.RawMessage
	if decodeError := json.Unmarshal([]byte(trimmedOutput), &structuredPayload); decodeError != nil {
		return nil, MalformedOutputError{OutputPrefix: outputPrefix(trimmedOutput), Cause: decodeError}
	}
	return structuredPayload, nil
}

func outputPrefix(output string) string {
	if len(output) <= malformedOutputPrefixLengthConstant {
		return output
	}
	return strings.ToValidUTF8(output[:malformedOutputPrefixLengthConstant], "")
}
