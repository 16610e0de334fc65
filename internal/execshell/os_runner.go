package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	processWaitDelayConstant               = 2 * time.Second
)

// ExecutableLocator finds an executable on the search path.
type ExecutableLocator func(executableName string) (string, error)

// LocateExecutable resolves name on the search path.
func LocateExecutable(name CommandName) (string, error) {
	return exec.LookPath(string(name))
}

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the supplied command using os/exec and buffers both output streams.
// A cancelled context kills the child and is reported as the context error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)
	executable.WaitDelay = processWaitDelayConstant

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		executable.Env = mergeEnvironment(os.Environ(), command.Details.EnvironmentVariables)
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if command.Details.StandardInput != nil {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

// mergeEnvironment appends overlay assignments after the base environment.
// os/exec keeps the last value of a duplicated key, so the overlay wins.
func mergeEnvironment(baseEnvironment []string, overlay map[string]string) []string {
	overlayKeys := make([]string, 0, len(overlay))
	for overlayKey := range overlay {
		overlayKeys = append(overlayKeys, overlayKey)
	}
	sort.Strings(overlayKeys)

	mergedEnvironment := append(make([]string, 0, len(baseEnvironment)+len(overlayKeys)), baseEnvironment...)
	for _, overlayKey := range overlayKeys {
		mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, overlayKey, environmentAssignmentSeparatorConstant, overlay[overlayKey]))
	}
	return mergedEnvironment
}
