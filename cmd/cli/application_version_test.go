package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const versionExitSentinel = "version-exit"

func TestVersionFlagPrintsVersionBeforeLoadingConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "root", arguments: []string{"--version"}},
		{name: "with_missing_configuration", arguments: []string{"--version", "--config", "/nonexistent/multigh.yml"}},
		{name: "subcommand", arguments: []string{"serve", "--version"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			application := NewApplication()
			application.versionResolver = func(context.Context) string {
				return "v2.0.0"
			}

			exitCode := -1
			application.exitFunction = func(code int) {
				exitCode = code
				panic(versionExitSentinel)
			}

			var output bytes.Buffer
			application.rootCommand.SetOut(&output)
			application.rootCommand.SetArgs(testCase.arguments)

			require.PanicsWithValue(testInstance, versionExitSentinel, func() {
				_ = application.Execute()
			})
			require.Equal(testInstance, "multigh version: v2.0.0\n", output.String())
			require.Equal(testInstance, 0, exitCode)
		})
	}
}

func TestResolveBuildVersionFallsBackToDevelopment(testInstance *testing.T) {
	require.NotEmpty(testInstance, resolveBuildVersion(context.Background()))
}
