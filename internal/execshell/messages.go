package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
	flagValueSeparatorConstant              = "="
)

const (
	githubAPICommandNameConstant        = "api"
	githubVersionFlagConstant           = "--version"
	githubMethodFlagConstant            = "-X"
	githubRepositoryFlagConstant        = "--repo"
	githubDefaultMethodConstant         = "GET"
	githubRepositoryTargetTemplate      = " in %s"
	githubNumberedTargetTemplate        = " #%s"
	githubNamedTargetTemplate           = " %s"
	githubPullRequestSubcommandConstant = "pr"
	githubReleaseSubcommandConstant     = "release"
	githubRunSubcommandConstant         = "run"
	githubRepoSubcommandConstant        = "repo"
	githubSearchSubcommandConstant      = "search"
)

const (
	githubAPIStartTemplateConstant                 = "Calling GitHub API %s %s"
	githubAPISuccessTemplateConstant               = "GitHub API %s %s succeeded"
	githubAPIFailureTemplateConstant               = "GitHub API %s %s failed (exit code %d%s)"
	githubAPIExecutionFailureTemplateConstant      = "Unable to call GitHub API %s %s: %s"
	githubResourceStartTemplateConstant            = "Running %s %s%s%s"
	githubResourceSuccessTemplateConstant          = "Finished %s %s%s%s"
	githubResourceFailureTemplateConstant          = "%s %s%s%s failed (exit code %d%s)"
	githubResourceExecutionFailureTemplateConstant = "Unable to run %s %s%s%s: %s"
	githubVersionStartMessageConstant              = "Checking gh version"
	githubVersionSuccessMessageConstant            = "Read gh version"
	githubVersionFailureTemplateConstant           = "Reading gh version failed (exit code %d%s)"
	githubVersionExecutionFailureTemplateConstant  = "Unable to read gh version: %s"
)

var githubValueFlags = []string{
	githubMethodFlagConstant,
	githubRepositoryFlagConstant,
	"--json",
	"--jq",
	"--limit",
	"--title",
	"--head",
	"--body",
	"--input",
	"-f",
	"-F",
	"-H",
}

var githubResourceLabels = map[string]string{
	githubPullRequestSubcommandConstant: "pull request",
	githubReleaseSubcommandConstant:     "release",
	githubRunSubcommandConstant:         "workflow run",
	githubRepoSubcommandConstant:        "repository",
	githubSearchSubcommandConstant:      "search",
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
// Messages are derived from the argument vector only; environment overlays are never rendered.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGitHub || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	primary := strings.TrimSpace(command.Details.Arguments[0])
	switch {
	case primary == githubVersionFlagConstant:
		return formatter.describeGitHubVersion(result, failure, stage)
	case primary == githubAPICommandNameConstant:
		return formatter.describeGitHubAPICommand(command, result, failure, stage)
	default:
		if _, isResource := githubResourceLabels[primary]; isResource {
			return formatter.describeGitHubResourceCommand(command, result, failure, stage)
		}
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubVersion(result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return githubVersionStartMessageConstant
	case messageStageSuccess:
		return githubVersionSuccessMessageConstant
	case messageStageFailure:
		return fmt.Sprintf(githubVersionFailureTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubVersionExecutionFailureTemplateConstant, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitHubAPICommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	method := strings.ToUpper(findFlagValue(arguments, githubMethodFlagConstant))
	if len(method) == 0 {
		method = githubDefaultMethodConstant
	}
	endpoint := formatter.ensureValue(formatter.extractFirstPositional(arguments[1:], githubValueFlags...))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubAPIStartTemplateConstant, method, endpoint)
	case messageStageSuccess:
		return fmt.Sprintf(githubAPISuccessTemplateConstant, method, endpoint)
	case messageStageFailure:
		return fmt.Sprintf(githubAPIFailureTemplateConstant, method, endpoint, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubAPIExecutionFailureTemplateConstant, method, endpoint, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitHubResourceCommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	resourceLabel := githubResourceLabels[strings.TrimSpace(arguments[0])]
	action := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
	targetSuffix := formatter.formatTargetSuffix(formatter.extractFirstPositional(arguments[min(2, len(arguments)):], githubValueFlags...))
	repositorySuffix := emptyStringConstant
	if repository := findFlagValue(arguments, githubRepositoryFlagConstant); len(repository) > 0 {
		repositorySuffix = fmt.Sprintf(githubRepositoryTargetTemplate, repository)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubResourceStartTemplateConstant, resourceLabel, action, targetSuffix, repositorySuffix)
	case messageStageSuccess:
		return fmt.Sprintf(githubResourceSuccessTemplateConstant, resourceLabel, action, targetSuffix, repositorySuffix)
	case messageStageFailure:
		return fmt.Sprintf(githubResourceFailureTemplateConstant, resourceLabel, action, targetSuffix, repositorySuffix, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubResourceExecutionFailureTemplateConstant, resourceLabel, action, targetSuffix, repositorySuffix, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := describeCommand(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatTargetSuffix(target string) string {
	if len(target) == 0 {
		return emptyStringConstant
	}
	if strings.Trim(target, "0123456789") == emptyStringConstant {
		return fmt.Sprintf(githubNumberedTargetTemplate, target)
	}
	return fmt.Sprintf(githubNamedTargetTemplate, target)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return strings.TrimSpace(arguments[index])
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

// extractFirstPositional skips flags and the value following any flag listed in valueFlags.
func (formatter CommandMessageFormatter) extractFirstPositional(arguments []string, valueFlags ...string) string {
	for index := 0; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, flagPrefixConstant) {
			if containsArgument(valueFlags, trimmed) {
				index++
			}
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

// findFlagValue supports both "--flag value" and "--flag=value" spellings.
func findFlagValue(arguments []string, flag string) string {
	flagAssignmentPrefix := flag + flagValueSeparatorConstant
	for index := 0; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if trimmed == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
		if strings.HasPrefix(trimmed, flagAssignmentPrefix) {
			return strings.TrimPrefix(trimmed, flagAssignmentPrefix)
		}
	}
	return emptyStringConstant
}
