package ui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/temirov/multigh/internal/ui"
)

func TestAccountStatusRendererWritesAlignedRows(testInstance *testing.T) {
	statuses := []ui.AccountStatus{
		{Name: "home", IsDefault: true, TokenSource: "/home/user/.config/github/tokens/home"},
		{Name: "work", TokenSource: "keyring:multigh/work", ResolveError: errors.New("token not found in keyring:multigh/work")},
	}

	var output bytes.Buffer
	require.NoError(testInstance, ui.NewAccountStatusRenderer().Render(&output, "/etc/multigh.yml", statuses))

	lines := strings.Split(strings.TrimRight(ansi.Strip(output.String()), "\n"), "\n")
	require.Equal(testInstance, []string{
		"Configuration: /etc/multigh.yml",
		"   ACCOUNT  TOKEN SOURCE                           STATUS",
		"*  home     /home/user/.config/github/tokens/home  ready",
		"   work     keyring:multigh/work                   token not found in keyring:multigh/work",
	}, lines)
}

func TestAccountStatusRendererReportsEmptyConfiguration(testInstance *testing.T) {
	var output bytes.Buffer
	require.NoError(testInstance, ui.NewAccountStatusRenderer().Render(&output, "embedded defaults", nil))
	require.Equal(testInstance, "Configuration: embedded defaults\nNo accounts configured\n", ansi.Strip(output.String()))
}
