package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	checkCommandUseConstant       = "check [account]"
	checkCommandShortConstant     = "Verify gh is installed and the account token authenticates"
	checkVersionTemplateConstant  = "gh: %s\n"
	checkAccountTemplateConstant  = "account: %s\n"
	checkLoginTemplateConstant    = "login: %s\n"
	checkCompletedMessageConstant = "account check completed"
	checkAccountFieldConstant     = "account"
	checkLoginFieldConstant       = "login"
	apiCommandConstant            = "api"
	userEndpointConstant          = "user"
	jqFlagConstant                = "--jq"
	loginExpressionConstant       = ".login"
)

// CheckCommandBuilder assembles the check command.
type CheckCommandBuilder struct {
	RuntimeProvider commandRuntimeProvider
}

// Build constructs the check command.
func (builder CheckCommandBuilder) Build() (*cobra.Command, error) {
	if builder.RuntimeProvider == nil {
		return nil, ErrRuntimeNotConfigured
	}
	return &cobra.Command{
		Use:   checkCommandUseConstant,
		Short: checkCommandShortConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}, nil
}

func (builder CheckCommandBuilder) run(command *cobra.Command, arguments []string) error {
	runtime := builder.RuntimeProvider()

	accountName := runtime.configuration.DefaultAccount
	if len(arguments) == 1 {
		accountName = strings.TrimSpace(arguments[0])
	}

	gateway, gatewayError := runtime.gateway()
	if gatewayError != nil {
		return gatewayError
	}

	version, versionError := gateway.Version(command.Context())
	if versionError != nil {
		return versionError
	}

	login, loginError := gateway.RunRaw(command.Context(), accountName, apiCommandConstant, userEndpointConstant, jqFlagConstant, loginExpressionConstant)
	if loginError != nil {
		return loginError
	}
	login = strings.TrimSpace(login)

	runtime.logger.Info(checkCompletedMessageConstant, zap.String(checkAccountFieldConstant, accountName), zap.String(checkLoginFieldConstant, login))

	output := command.OutOrStdout()
	fmt.Fprintf(output, checkVersionTemplateConstant, version)
	fmt.Fprintf(output, checkAccountTemplateConstant, accountName)
	fmt.Fprintf(output, checkLoginTemplateConstant, login)
	return nil
}
