package operations

// NewCatalog registers every GitHub operation backed by gateway.
func NewCatalog(gateway CommandGateway) (*Registry, error) {
	if gateway == nil {
		return nil, ErrGatewayNotConfigured
	}

	commands := githubCommands{gateway: gateway}
	operationGroups := [][]Operation{
		commands.accountOperations(),
		commands.repositoryOperations(),
		commands.branchOperations(),
		commands.protectionOperations(),
		commands.pullRequestOperations(),
		commands.codeOperations(),
		commands.releaseOperations(),
		commands.tagOperations(),
		commands.workflowOperations(),
		commands.collaboratorOperations(),
	}

	registry := NewRegistry()
	for _, operationGroup := range operationGroups {
		for _, operation := range operationGroup {
			if registrationError := registry.Register(operation); registrationError != nil {
				return nil, registrationError
			}
		}
	}
	return registry, nil
}
