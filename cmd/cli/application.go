package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/multigh/internal/config"
	"github.com/temirov/multigh/internal/execshell"
	"github.com/temirov/multigh/internal/utils"
	flagutils "github.com/temirov/multigh/internal/utils/flags"
)

const (
	applicationNameConstant                 = "multigh"
	applicationShortDescriptionConstant     = "Multi-account GitHub MCP server backed by the gh CLI"
	applicationLongDescriptionConstant      = "multigh exposes GitHub operations as Model Context Protocol tools and runs every call through gh with the token of the selected account."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	versionFlagNameConstant                 = "version"
	versionFlagUsageConstant                = "Print the multigh version and exit."
	versionOutputTemplateConstant           = "%s version: %s\n"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationAccountsFieldConstant      = "accounts"
	configurationDefaultFieldConstant       = "default_account"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	loggerNotInitializedMessageConstant     = "logger not initialized"
)

var (
	logLevelChoices = []string{
		string(utils.LogLevelDebug),
		string(utils.LogLevelInfo),
		string(utils.LogLevelWarn),
		string(utils.LogLevelError),
	}
	logFormatChoices = []string{
		string(utils.LogFormatStructured),
		string(utils.LogFormatConsole),
	}
)

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *config.Loader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	commandLogger          *zap.Logger
	configuration          config.Configuration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	versionFlagValue       bool
	commandContextAccessor utils.CommandContextAccessor
	versionResolver        func(context.Context) string
	exitFunction           func(int)
	commandRunner          execshell.CommandRunner
	executableLocator      execshell.ExecutableLocator
	serverInput            io.Reader
	serverOutput           io.Writer
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		configurationLoader:    config.NewLoader(config.DefaultSearchPaths()),
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		versionResolver:        resolveBuildVersion,
		exitFunction:           os.Exit,
		commandRunner:          execshell.NewOSCommandRunner(),
		serverInput:            os.Stdin,
		serverOutput:           os.Stdout,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if application.versionFlagValue {
				application.printVersion(command)
				return nil
			}
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flagutils.AddChoiceFlag(cobraCommand.PersistentFlags(), &application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelChoices, logLevelFlagUsageConstant)
	flagutils.AddChoiceFlag(cobraCommand.PersistentFlags(), &application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatChoices, logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVar(&application.versionFlagValue, versionFlagNameConstant, false, versionFlagUsageConstant)

	runtimeProvider := func() commandRuntime {
		return application.runtime()
	}

	serveBuilder := ServeCommandBuilder{RuntimeProvider: runtimeProvider}
	if serveCommand, serveBuildError := serveBuilder.Build(); serveBuildError == nil {
		cobraCommand.AddCommand(serveCommand)
	}

	accountsBuilder := AccountsCommandBuilder{RuntimeProvider: runtimeProvider}
	if accountsCommand, accountsBuildError := accountsBuilder.Build(); accountsBuildError == nil {
		cobraCommand.AddCommand(accountsCommand)
	}

	checkBuilder := CheckCommandBuilder{RuntimeProvider: runtimeProvider}
	if checkCommand, checkBuildError := checkBuilder.Build(); checkBuildError == nil {
		cobraCommand.AddCommand(checkCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
// Interrupt and terminate signals cancel the command context.
func (application *Application) Execute() error {
	signalContext, stopSignals := signal.NotifyContext(application.rootCommand.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	executionError := application.rootCommand.ExecuteContext(signalContext)
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) printVersion(command *cobra.Command) {
	fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, application.versionResolver(command.Context()))
	application.exitFunction(0)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.Load(application.configurationFilePath)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		loadedConfiguration.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		loadedConfiguration.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(loadedConfiguration.LogLevel),
		utils.LogFormat(loadedConfiguration.LogFormat),
		loadedConfiguration.LogFile,
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	commandLogger := logger
	if strings.EqualFold(strings.TrimSpace(loadedConfiguration.LogFormat), string(utils.LogFormatConsole)) {
		commandLogger, loggerCreationError = application.loggerFactory.CreateFileLogger(
			utils.LogLevel(loadedConfiguration.LogLevel),
			utils.LogFormat(loadedConfiguration.LogFormat),
			loadedConfiguration.LogFile,
		)
		if loggerCreationError != nil {
			return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
		}
	}

	application.configuration = loadedConfiguration
	application.logger = logger
	application.commandLogger = commandLogger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, loadedConfiguration.LogLevel),
		zap.String(configurationLogFormatFieldConstant, loadedConfiguration.LogFormat),
		zap.String(configurationFileFieldConstant, loadedConfiguration.Source()),
		zap.String(configurationDefaultFieldConstant, loadedConfiguration.DefaultAccount),
		zap.Strings(configurationAccountsFieldConstant, loadedConfiguration.AccountNames()),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationSource(command.Context(), loadedConfiguration.Source())
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) runtime() commandRuntime {
	return commandRuntime{
		logger:                 application.logger,
		commandLogger:          application.commandLogger,
		configuration:          application.configuration,
		humanReadableLogging:   application.humanReadableLoggingEnabled(),
		commandRunner:          application.commandRunner,
		executableLocator:      application.executableLocator,
		commandContextAccessor: application.commandContextAccessor,
		version:                application.versionResolver,
		serverInput:            application.serverInput,
		serverOutput:           application.serverOutput,
		eventOutput:            application.rootCommand.ErrOrStderr(),
	}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	syncError := application.logger.Sync()
	if application.commandLogger != nil && application.commandLogger != application.logger {
		syncError = errors.Join(syncError, application.commandLogger.Sync())
	}
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
