package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/multigh/internal/ui"
)

const (
	accountsCommandUseConstant   = "accounts"
	accountsCommandShortConstant = "List configured accounts and whether their tokens resolve"
)

// AccountsCommandBuilder assembles the accounts command.
type AccountsCommandBuilder struct {
	RuntimeProvider commandRuntimeProvider
}

// Build constructs the accounts command.
func (builder AccountsCommandBuilder) Build() (*cobra.Command, error) {
	if builder.RuntimeProvider == nil {
		return nil, ErrRuntimeNotConfigured
	}
	return &cobra.Command{
		Use:   accountsCommandUseConstant,
		Short: accountsCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder AccountsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	runtime := builder.RuntimeProvider()
	store := runtime.credentialStore()
	defaultAccountName := store.DefaultAccountName()

	accountNames := store.AccountNames()
	statuses := make([]ui.AccountStatus, 0, len(accountNames))
	for _, accountName := range accountNames {
		status := ui.AccountStatus{Name: accountName, IsDefault: accountName == defaultAccountName}
		source, sourceError := store.TokenSource(accountName)
		if sourceError != nil {
			status.ResolveError = sourceError
			statuses = append(statuses, status)
			continue
		}
		status.TokenSource = source.Location()
		if _, resolveError := store.Resolve(command.Context(), accountName); resolveError != nil {
			status.ResolveError = resolveError
		}
		statuses = append(statuses, status)
	}

	return ui.NewAccountStatusRenderer().Render(command.OutOrStdout(), runtime.configurationSource(command.Context()), statuses)
}
