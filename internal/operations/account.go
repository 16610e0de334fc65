package operations

import "context"

const (
	getMeOperationName        = "get_me"
	getMeOperationDescription = "Get the authenticated GitHub user's information. Use the 'account' parameter to specify which account to use (e.g., 'home', 'work'). If not specified, the default account will be used."
	currentUserEndpoint       = "user"
	apiCommandConstant        = "api"
)

func (commands githubCommands) accountOperations() []Operation {
	return []Operation{
		newOperation(newAccountTool(getMeOperationName, getMeOperationDescription), commands.getMe),
	}
}

func (commands githubCommands) getMe(executionContext context.Context, parameters AccountParameters) (Result, error) {
	return commands.runStructured(executionContext, parameters.Account, apiCommandConstant, currentUserEndpoint)
}
