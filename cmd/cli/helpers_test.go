package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/multigh/internal/execshell"
)

const (
	testWorkTokenConstant          = "ghp_worktoken"
	testConfigurationFileName      = "multigh.yml"
	testConfigurationTemplate      = "default_account: work\nlog_level: error\nlog_format: %s\naccounts:\n  work:\n    token_path: %s\n  Home:\n    token_path: env:MULTIGH_TEST_UNSET_HOME_TOKEN\n"
	testGitHubVersionOutput        = "gh version 2.63.0 (2024-11-27)\nhttps://github.com/cli/cli/releases/tag/v2.63.0\n"
	testResolvedExecutablePathText = "/usr/local/bin/gh"
)

type recordingCommandRunner struct {
	mutex     sync.Mutex
	responses map[string]execshell.ExecutionResult
	commands  []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	runner.commands = append(runner.commands, command)
	return runner.responses[strings.Join(command.Details.Arguments, " ")], nil
}

func (runner *recordingCommandRunner) recorded() []execshell.ShellCommand {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	return append([]execshell.ShellCommand(nil), runner.commands...)
}

func writeTestConfiguration(testInstance *testing.T, logFormat string) string {
	testInstance.Helper()
	temporaryDirectory := testInstance.TempDir()
	tokenPath := filepath.Join(temporaryDirectory, "work.token")
	require.NoError(testInstance, os.WriteFile(tokenPath, []byte(testWorkTokenConstant+"\n"), 0o600))

	configurationPath := filepath.Join(temporaryDirectory, testConfigurationFileName)
	configurationContent := fmt.Sprintf(testConfigurationTemplate, logFormat, tokenPath)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))
	return configurationPath
}

func newTestApplication(runner *recordingCommandRunner, input string) (*Application, *bytes.Buffer) {
	application := NewApplication()
	application.commandRunner = runner
	application.executableLocator = func(string) (string, error) {
		return testResolvedExecutablePathText, nil
	}
	application.versionResolver = func(context.Context) string {
		return "v1.2.3"
	}
	application.serverInput = strings.NewReader(input)

	var output bytes.Buffer
	application.serverOutput = &output
	application.rootCommand.SetOut(&output)
	application.rootCommand.SetErr(&bytes.Buffer{})
	return application, &output
}
