package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultMarkerConstant         = "*"
	nonDefaultMarkerConstant      = " "
	readyStatusConstant           = "ready"
	columnSeparatorConstant       = "  "
	lineTerminatorConstant        = "\n"
	headerAccountLabelConstant    = "ACCOUNT"
	headerSourceLabelConstant     = "TOKEN SOURCE"
	headerStatusLabelConstant     = "STATUS"
	configurationSourceTemplate   = "Configuration: %s\n"
	accentColorConstant           = "205"
	successColorConstant          = "10"
	failureColorConstant          = "9"
	markerColumnWidthConstant     = 1
	emptyAccountTableMessageValue = "No accounts configured"
)

// AccountStatus summarizes one configured account for display.
type AccountStatus struct {
	Name        string
	IsDefault   bool
	TokenSource string
	// ResolveError is nil when the token locator currently yields a usable token.
	ResolveError error
}

// AccountStatusRenderer writes account tables styled with lipgloss.
type AccountStatusRenderer struct {
	headerStyle  lipgloss.Style
	defaultStyle lipgloss.Style
	readyStyle   lipgloss.Style
	failureStyle lipgloss.Style
}

// NewAccountStatusRenderer constructs a renderer with the standard palette.
func NewAccountStatusRenderer() AccountStatusRenderer {
	return AccountStatusRenderer{
		headerStyle:  lipgloss.NewStyle().Bold(true),
		defaultStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentColorConstant)),
		readyStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		failureStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(failureColorConstant)),
	}
}

// Render writes the configuration source followed by one row per account.
func (renderer AccountStatusRenderer) Render(output io.Writer, configurationSource string, statuses []AccountStatus) error {
	if _, writeError := fmt.Fprintf(output, configurationSourceTemplate, configurationSource); writeError != nil {
		return writeError
	}
	if len(statuses) == 0 {
		_, writeError := io.WriteString(output, emptyAccountTableMessageValue+lineTerminatorConstant)
		return writeError
	}

	nameWidth := lipgloss.Width(headerAccountLabelConstant)
	sourceWidth := lipgloss.Width(headerSourceLabelConstant)
	for _, status := range statuses {
		nameWidth = max(nameWidth, lipgloss.Width(status.Name))
		sourceWidth = max(sourceWidth, lipgloss.Width(status.TokenSource))
	}

	var builder strings.Builder
	builder.WriteString(renderer.headerStyle.Render(strings.Join([]string{
		pad(nonDefaultMarkerConstant, markerColumnWidthConstant),
		pad(headerAccountLabelConstant, nameWidth),
		pad(headerSourceLabelConstant, sourceWidth),
		headerStatusLabelConstant,
	}, columnSeparatorConstant)))
	builder.WriteString(lineTerminatorConstant)

	for _, status := range statuses {
		marker := nonDefaultMarkerConstant
		nameCell := pad(status.Name, nameWidth)
		if status.IsDefault {
			marker = defaultMarkerConstant
			nameCell = renderer.defaultStyle.Render(nameCell)
		}

		statusCell := renderer.readyStyle.Render(readyStatusConstant)
		if status.ResolveError != nil {
			statusCell = renderer.failureStyle.Render(status.ResolveError.Error())
		}

		builder.WriteString(strings.Join([]string{
			marker,
			nameCell,
			pad(status.TokenSource, sourceWidth),
			statusCell,
		}, columnSeparatorConstant))
		builder.WriteString(lineTerminatorConstant)
	}

	_, writeError := io.WriteString(output, builder.String())
	return writeError
}

func pad(value string, width int) string {
	padding := width - lipgloss.Width(value)
	if padding <= 0 {
		return value
	}
	return value + strings.Repeat(" ", padding)
}
