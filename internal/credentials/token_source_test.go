package credentials_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/multigh/internal/credentials"
)

func TestParseTokenSource(testInstance *testing.T) {
	testCases := []struct {
		name             string
		sourceValue      string
		expectedSource   credentials.TokenSource
		expectedLocation string
		expectError      bool
	}{
		{
			name:             "bare_path",
			sourceValue:      " ~/.config/github/tokens/work \n",
			expectedSource:   credentials.TokenSource{Type: credentials.TokenSourceTypeFile, Reference: "~/.config/github/tokens/work"},
			expectedLocation: "~/.config/github/tokens/work",
		},
		{
			name:             "file_prefix",
			sourceValue:      "file:/etc/multigh/token",
			expectedSource:   credentials.TokenSource{Type: credentials.TokenSourceTypeFile, Reference: "/etc/multigh/token"},
			expectedLocation: "/etc/multigh/token",
		},
		{
			name:             "drive_letter_path",
			sourceValue:      `C:\tokens\work`,
			expectedSource:   credentials.TokenSource{Type: credentials.TokenSourceTypeFile, Reference: `C:\tokens\work`},
			expectedLocation: `C:\tokens\work`,
		},
		{
			name:             "environment",
			sourceValue:      "env:GITHUB_WORK_TOKEN",
			expectedSource:   credentials.TokenSource{Type: credentials.TokenSourceTypeEnvironment, Reference: "GITHUB_WORK_TOKEN"},
			expectedLocation: "env:GITHUB_WORK_TOKEN",
		},
		{
			name:             "keyring",
			sourceValue:      "keyring:multigh/work",
			expectedSource:   credentials.TokenSource{Type: credentials.TokenSourceTypeKeyring, Reference: "multigh/work"},
			expectedLocation: "keyring:multigh/work",
		},
		{name: "empty", sourceValue: "   ", expectError: true},
		{name: "empty_environment", sourceValue: "env:", expectError: true},
		{name: "keyring_without_user", sourceValue: "keyring:multigh", expectError: true},
		{name: "keyring_empty_user", sourceValue: "keyring:multigh/", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			source, parseError := credentials.ParseTokenSource(testCase.sourceValue)
			if testCase.expectError {
				require.ErrorIs(testInstance, parseError, credentials.ErrInvalidTokenSource)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedSource, source)
			require.Equal(testInstance, testCase.expectedLocation, source.Location())
		})
	}
}

func TestTokenSourceKeyringEntry(testInstance *testing.T) {
	source, parseError := credentials.ParseTokenSource("keyring:multigh/team/ops")
	require.NoError(testInstance, parseError)

	service, user := source.KeyringEntry()
	require.Equal(testInstance, "multigh", service)
	require.Equal(testInstance, "team/ops", user)
}
