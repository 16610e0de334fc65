package operations

import (
	"context"
	"fmt"

	"github.com/temirov/multigh/internal/githubcli"
)

const (
	listBranchesOperationName     = "list_branches"
	createBranchOperationName     = "create_branch"
	deleteBranchOperationName     = "delete_branch"
	listBranchesDescription       = "List all branches in a repository."
	createBranchDescription       = "Create a new branch in a repository. Optionally specify a source branch/commit to branch from."
	deleteBranchDescription       = "Delete a branch from a repository. Cannot delete the default branch."
	branchParameterName           = "branch"
	fromParameterName             = "from"
	newBranchParameterDescription = "Name of the new branch to create"
	fromParameterDescription      = "Source branch or commit SHA to branch from (default: default branch)"
	deletedBranchParameterText    = "Name of the branch to delete"
	branchesEndpointTemplate      = "repos/%s/%s/branches"
	branchReferenceDeleteTemplate = "repos/%s/%s/git/refs/heads/%s"
	branchReferenceNameTemplate   = "refs/heads/%s"
	branchDeletedTemplate         = "Branch '%s' deleted successfully"
	headReferenceConstant         = "HEAD"
)

// BranchParameters identifies a single branch of a repository.
type BranchParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Branch               string `mapstructure:"branch"`
}

type createBranchParameters struct {
	BranchParameters `mapstructure:",squash"`
	From             *string `mapstructure:"from"`
}

func (commands githubCommands) branchOperations() []Operation {
	return []Operation{
		newOperation(newRepositoryTool(listBranchesOperationName, listBranchesDescription), commands.listBranches),
		newOperation(newRepositoryTool(createBranchOperationName, createBranchDescription,
			requiredString(branchParameterName, newBranchParameterDescription),
			optionalString(fromParameterName, fromParameterDescription),
		), commands.createBranch),
		newOperation(newRepositoryTool(deleteBranchOperationName, deleteBranchDescription,
			requiredString(branchParameterName, deletedBranchParameterText),
		), commands.deleteBranch),
	}
}

func (commands githubCommands) listBranches(executionContext context.Context, parameters RepositoryParameters) (Result, error) {
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(branchesEndpointTemplate, parameters.Owner, parameters.Repository),
	})
}

// createBranch resolves the source to a commit before creating the reference; an unresolvable source is used verbatim.
func (commands githubCommands) createBranch(executionContext context.Context, parameters createBranchParameters) (Result, error) {
	source := headReferenceConstant
	if isProvided(parameters.From) {
		source = *parameters.From
	}

	sha, resolveError := commands.resolveBranchCommit(executionContext, parameters.Account, parameters.Owner, parameters.Repository, source)
	if resolveError != nil {
		return Result{}, resolveError
	}
	return commands.createReference(executionContext, parameters.Account, parameters.Owner, parameters.Repository,
		fmt.Sprintf(branchReferenceNameTemplate, parameters.Branch), sha)
}

func (commands githubCommands) deleteBranch(executionContext context.Context, parameters BranchParameters) (Result, error) {
	return commands.callAPIConfirmed(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(branchReferenceDeleteTemplate, parameters.Owner, parameters.Repository, escapePathSegments(parameters.Branch)),
		Method:   httpMethodDelete,
	}, fmt.Sprintf(branchDeletedTemplate, parameters.Branch))
}
