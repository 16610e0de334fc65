package operations

import (
	"context"
	"fmt"

	"github.com/temirov/multigh/internal/githubcli"
)

const (
	createRepositoryOperationName   = "create_repo"
	listRepositoriesOperationName   = "list_repos"
	getRepositoryOperationName      = "get_repo"
	archiveRepositoryOperationName  = "archive_repo"
	repositoryCommandConstant       = "repo"
	repositoryListFieldsConstant    = "name,description,visibility,updatedAt,url"
	repositoryViewFieldsConstant    = "name,description,visibility,defaultBranchRef,url,createdAt,updatedAt,owner,stargazerCount,forkCount,issues,pullRequests"
	repositoryEndpointTemplate      = "repos/%s/%s"
	repositoryCreatedTemplate       = "Repository '%s' created"
	privateVisibilityFlagConstant   = "--private"
	publicVisibilityFlagConstant    = "--public"
	descriptionFlagConstant         = "--description"
	archivedFieldConstant           = "archived"
	typedTrueValueConstant          = "true"
	commandCreateConstant           = "create"
	commandListConstant             = "list"
	commandViewConstant             = "view"
	createRepositoryDescription     = "Create a new GitHub repository. Can create personal or organization repos."
	listRepositoriesDescription     = "List repositories for a user or organization. Defaults to authenticated user's repos."
	getRepositoryDescription        = "Get detailed information about a specific repository."
	archiveRepositoryDescription    = "Archive a repository. This is a safer alternative to deletion - the repo becomes read-only but can be unarchived."
	repositoryNameParameterName     = "name"
	descriptionParameterName        = "description"
	privateParameterName            = "private"
	organizationParameterName       = "org"
	repositoryOwnerFilterParameter  = "owner"
	repositoryNameDescription       = "Name of the repository to create"
	repositoryDescriptionText       = "Description of the repository"
	privateParameterDescription     = "Whether the repository should be private (default: false)"
	organizationParameterText       = "Organization to create the repo in (omit for personal repo)"
	repositoryOwnerFilterText       = "Owner (user or org) to list repos for. Defaults to authenticated user."
	repositoryLimitDescription      = "Maximum number of repos to return (default: 30)"
	repositoryTargetWithOrgTemplate = "%s/%s"
)

type createRepositoryParameters struct {
	AccountParameters `mapstructure:",squash"`
	Name              string  `mapstructure:"name"`
	Description       *string `mapstructure:"description"`
	Private           *bool   `mapstructure:"private"`
	Organization      *string `mapstructure:"org"`
}

func (parameters createRepositoryParameters) validate() error {
	if validationError := validatePositional(repositoryNameParameterName, parameters.Name); validationError != nil {
		return validationError
	}
	if isProvided(parameters.Organization) {
		return validatePositional(organizationParameterName, *parameters.Organization)
	}
	return nil
}

type listRepositoriesParameters struct {
	AccountParameters `mapstructure:",squash"`
	Owner             *string `mapstructure:"owner"`
	Limit             *int    `mapstructure:"limit"`
}

func (parameters listRepositoriesParameters) validate() error {
	if isProvided(parameters.Owner) {
		if validationError := validatePositional(repositoryOwnerFilterParameter, *parameters.Owner); validationError != nil {
			return validationError
		}
	}
	return validateOptionalPositive(limitParameterName, parameters.Limit)
}

func (commands githubCommands) repositoryOperations() []Operation {
	return []Operation{
		newOperation(newAccountTool(createRepositoryOperationName, createRepositoryDescription,
			requiredString(repositoryNameParameterName, repositoryNameDescription),
			optionalString(descriptionParameterName, repositoryDescriptionText),
			optionalBoolean(privateParameterName, privateParameterDescription),
			optionalString(organizationParameterName, organizationParameterText),
		), commands.createRepository),
		newOperation(newAccountTool(listRepositoriesOperationName, listRepositoriesDescription,
			optionalString(repositoryOwnerFilterParameter, repositoryOwnerFilterText),
			optionalNumber(limitParameterName, repositoryLimitDescription),
		), commands.listRepositories),
		newOperation(newRepositoryTool(getRepositoryOperationName, getRepositoryDescription), commands.getRepository),
		newOperation(newRepositoryTool(archiveRepositoryOperationName, archiveRepositoryDescription), commands.archiveRepository),
	}
}

func (commands githubCommands) createRepository(executionContext context.Context, parameters createRepositoryParameters) (Result, error) {
	repositoryTarget := parameters.Name
	if isProvided(parameters.Organization) {
		repositoryTarget = fmt.Sprintf(repositoryTargetWithOrgTemplate, *parameters.Organization, parameters.Name)
	}

	arguments := []string{repositoryCommandConstant, commandCreateConstant, repositoryTarget}
	arguments = appendAssignedFlag(arguments, descriptionFlagConstant, parameters.Description)
	if isEnabled(parameters.Private) {
		arguments = append(arguments, privateVisibilityFlagConstant)
	} else {
		arguments = append(arguments, publicVisibilityFlagConstant)
	}

	return commands.runText(executionContext, parameters.Account, fmt.Sprintf(repositoryCreatedTemplate, repositoryTarget), arguments...)
}

func (commands githubCommands) listRepositories(executionContext context.Context, parameters listRepositoriesParameters) (Result, error) {
	arguments := []string{repositoryCommandConstant, commandListConstant}
	if isProvided(parameters.Owner) {
		arguments = append(arguments, *parameters.Owner)
	}
	arguments = appendLimit(arguments, parameters.Limit)
	arguments = append(arguments, jsonFieldsFlagConstant, repositoryListFieldsConstant)
	return commands.runStructured(executionContext, parameters.Account, arguments...)
}

func (commands githubCommands) getRepository(executionContext context.Context, parameters RepositoryParameters) (Result, error) {
	return commands.runStructured(executionContext, parameters.Account,
		repositoryCommandConstant, commandViewConstant, parameters.slug(), jsonFieldsFlagConstant, repositoryViewFieldsConstant)
}

func (commands githubCommands) archiveRepository(executionContext context.Context, parameters RepositoryParameters) (Result, error) {
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(repositoryEndpointTemplate, parameters.Owner, parameters.Repository),
		Method:   httpMethodPatch,
		Fields:   []githubcli.APIField{{Key: archivedFieldConstant, Value: typedTrueValueConstant, Typed: true}},
	})
}
