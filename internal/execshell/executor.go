package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	commandFailedErrorTemplateConstant    = "%s exited with code %d"
	commandExecutionErrorTemplateConstant = "%s could not be executed: %v"
	commandFieldNameConstant              = "command"
	exitCodeFieldNameConstant             = "exit_code"
	elapsedFieldNameConstant              = "elapsed"
	argumentSeparatorConstant             = " "
)

// CommandName identifies an executable.
type CommandName string

// CommandGitHub is the GitHub CLI executable.
const CommandGitHub CommandName = "gh"

// CommandDetails describes a single invocation.
type CommandDetails struct {
	Arguments        []string
	WorkingDirectory string
	// EnvironmentVariables overlay the parent environment for this invocation only.
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand couples an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the buffered output of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner starts a process and waits for it to finish.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

var (
	// ErrLoggerNotConfigured indicates a missing logger dependency.
	ErrLoggerNotConfigured = errors.New("shell executor logger not configured")
	// ErrCommandRunnerNotConfigured indicates a missing command runner dependency.
	ErrCommandRunnerNotConfigured = errors.New("shell executor command runner not configured")
)

// CommandFailedError reports a process that exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command without its environment.
func (commandError CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(commandError.Command), commandError.Result.ExitCode)
}

// CommandExecutionError reports a process that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutorOption customizes a ShellExecutor.
type ShellExecutorOption func(*ShellExecutor)

// WithCommandEventObserver registers an observer notified about every invocation.
func WithCommandEventObserver(observer CommandEventObserver) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if observer != nil {
			executor.observer = observer
		}
	}
}

// ShellExecutor runs commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger           *zap.Logger
	runner           CommandRunner
	observer         CommandEventObserver
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, options ...ShellExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	executor := &ShellExecutor{
		logger:   logger,
		runner:   runner,
		observer: noopCommandEventObserver{},
	}
	for _, option := range options {
		option(executor)
	}
	return executor, nil
}

// Execute runs the command. A non-zero exit yields CommandFailedError carrying the captured output.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandLabel := describeCommand(command)
	executor.observer.CommandStarted(command)
	executor.logger.Debug(executor.messageFormatter.BuildStartedMessage(command), zap.String(commandFieldNameConstant, commandLabel))

	startTime := time.Now()
	executionResult, runError := executor.runner.Run(executionContext, command)
	elapsed := time.Since(startTime)

	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Warn(
			executor.messageFormatter.BuildExecutionFailureMessage(command, runError),
			zap.String(commandFieldNameConstant, commandLabel),
			zap.Duration(elapsedFieldNameConstant, elapsed),
			zap.Error(runError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			executor.messageFormatter.BuildFailureMessage(command, executionResult),
			zap.String(commandFieldNameConstant, commandLabel),
			zap.Int(exitCodeFieldNameConstant, executionResult.ExitCode),
			zap.Duration(elapsedFieldNameConstant, elapsed),
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Info(
		executor.messageFormatter.BuildSuccessMessage(command),
		zap.String(commandFieldNameConstant, commandLabel),
		zap.Duration(elapsedFieldNameConstant, elapsed),
	)
	return executionResult, nil
}

// ExecuteGitHubCLI runs gh with the provided details.
func (executor *ShellExecutor) ExecuteGitHubCLI(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGitHub, Details: details})
}

func describeCommand(command ShellCommand) string {
	if len(command.Details.Arguments) == 0 {
		return string(command.Name)
	}
	return string(command.Name) + argumentSeparatorConstant + strings.Join(command.Details.Arguments, argumentSeparatorConstant)
}
