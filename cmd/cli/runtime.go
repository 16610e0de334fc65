package cli

import (
	"context"
	"errors"
	"io"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/temirov/multigh/internal/config"
	"github.com/temirov/multigh/internal/credentials"
	"github.com/temirov/multigh/internal/execshell"
	"github.com/temirov/multigh/internal/githubcli"
	"github.com/temirov/multigh/internal/ui"
	"github.com/temirov/multigh/internal/utils"
)

const (
	developmentVersionConstant = "dev"
	unknownBuildVersionValue   = "(devel)"
)

// ErrRuntimeNotConfigured indicates a command builder was constructed without a runtime provider.
var ErrRuntimeNotConfigured = errors.New("command runtime provider not configured")

// commandRuntime carries the state a subcommand needs once configuration has been initialized.
type commandRuntime struct {
	logger                 *zap.Logger
	commandLogger          *zap.Logger
	configuration          config.Configuration
	humanReadableLogging   bool
	commandRunner          execshell.CommandRunner
	executableLocator      execshell.ExecutableLocator
	commandContextAccessor utils.CommandContextAccessor
	version                func(context.Context) string
	serverInput            io.Reader
	serverOutput           io.Writer
	eventOutput            io.Writer
}

// commandRuntimeProvider returns the runtime of the current invocation.
type commandRuntimeProvider func() commandRuntime

func (runtime commandRuntime) credentialStore() *credentials.Store {
	return credentials.NewStore(runtime.configuration, credentials.StoreDependencies{})
}

// gateway assembles the gh gateway. Console logging prints lifecycle events to the error stream
// and keeps executor records for the log file only, keeping standard output for the protocol.
func (runtime commandRuntime) gateway() (*githubcli.Gateway, error) {
	executorLogger := runtime.logger
	var executorOptions []execshell.ShellExecutorOption
	if runtime.humanReadableLogging {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(runtime.eventOutput)))
		executorLogger = runtime.commandLogger
	}
	if executorLogger == nil {
		executorLogger = zap.NewNop()
	}

	executor, executorError := execshell.NewShellExecutor(executorLogger, runtime.commandRunner, executorOptions...)
	if executorError != nil {
		return nil, executorError
	}

	return githubcli.NewGateway(executor, runtime.credentialStore(), githubcli.GatewayOptions{
		ExecutableLocator: runtime.executableLocator,
		CommandTimeout:    runtime.configuration.CommandTimeout,
	})
}

func (runtime commandRuntime) configurationSource(executionContext context.Context) string {
	if source, sourceAvailable := runtime.commandContextAccessor.ConfigurationSource(executionContext); sourceAvailable {
		return source
	}
	return runtime.configuration.Source()
}

func resolveBuildVersion(context.Context) string {
	buildInformation, buildInformationAvailable := debug.ReadBuildInfo()
	if !buildInformationAvailable {
		return developmentVersionConstant
	}
	moduleVersion := buildInformation.Main.Version
	if len(moduleVersion) == 0 || moduleVersion == unknownBuildVersionValue {
		return developmentVersionConstant
	}
	return moduleVersion
}
