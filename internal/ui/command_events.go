package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/multigh/internal/execshell"
)

const (
	startedMarkerConstant   = "›"
	succeededMarkerConstant = "✓"
	failedMarkerConstant    = "✗"
	eventLineTemplate       = "%s %s\n"
	mutedColorConstant      = "245"
)

// ConsoleCommandEventLogger prints one styled line per gh lifecycle event.
// Lines are built by execshell.CommandMessageFormatter, which never renders the environment overlay.
type ConsoleCommandEventLogger struct {
	output       io.Writer
	formatter    execshell.CommandMessageFormatter
	startedStyle lipgloss.Style
	successStyle lipgloss.Style
	failureStyle lipgloss.Style
	mutex        sync.Mutex
}

// NewConsoleCommandEventLogger constructs an event logger writing to output. A nil output discards events.
func NewConsoleCommandEventLogger(output io.Writer) *ConsoleCommandEventLogger {
	if output == nil {
		output = io.Discard
	}
	return &ConsoleCommandEventLogger{
		output:       output,
		startedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColorConstant)),
		successStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		failureStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(failureColorConstant)),
	}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.print(eventLogger.startedStyle, startedMarkerConstant, eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.print(eventLogger.successStyle, succeededMarkerConstant, eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.print(eventLogger.failureStyle, failedMarkerConstant, eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.print(eventLogger.failureStyle, failedMarkerConstant, eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) print(markerStyle lipgloss.Style, marker string, message string) {
	eventLogger.mutex.Lock()
	defer eventLogger.mutex.Unlock()
	fmt.Fprintf(eventLogger.output, eventLineTemplate, markerStyle.Render(marker), message)
}
