package operations

import (
	"context"
	"fmt"
	"strconv"
)

const (
	getPullRequestOperationName      = "get_pr"
	getPullRequestDiffOperationName  = "get_pr_diff"
	getPullRequestFilesOperationName = "get_pr_files"
	listPullRequestsOperationName    = "list_prs"
	searchPullRequestsOperationName  = "search_prs"
	createPullRequestOperationName   = "create_pr"
	editPullRequestOperationName     = "edit_pr"
	mergePullRequestOperationName    = "merge_pr"
	closePullRequestOperationName    = "close_pr"
	commentPullRequestOperationName  = "comment_pr"

	pullRequestCommandConstant    = "pr"
	searchCommandConstant         = "search"
	searchPullRequestsSubcommand  = "prs"
	commandDiffConstant           = "diff"
	commandEditConstant           = "edit"
	commandMergeConstant          = "merge"
	commandCloseConstant          = "close"
	commandCommentConstant        = "comment"
	pullRequestViewFieldsConstant = "number,title,state,body,author,createdAt,updatedAt,url,headRefName,baseRefName,mergeable,additions,deletions,changedFiles"
	pullRequestFilesFieldConstant = "files"
	pullRequestListFieldsConstant = "number,title,state,author,createdAt,updatedAt,url,headRefName,baseRefName"
	pullRequestSearchFields       = "number,title,state,author,repository,createdAt,updatedAt,url"

	titleFlagConstant        = "--title"
	bodyFlagConstant         = "--body"
	headFlagConstant         = "--head"
	baseFlagConstant         = "--base"
	stateFlagConstant        = "--state"
	draftFlagConstant        = "--draft"
	deleteBranchFlagConstant = "--delete-branch"
	mergeMethodFlagTemplate  = "--%s"

	numberParameterName        = "number"
	stateParameterName         = "state"
	queryParameterName         = "query"
	titleParameterName         = "title"
	bodyParameterName          = "body"
	headParameterName          = "head"
	baseParameterName          = "base"
	draftParameterName         = "draft"
	methodParameterName        = "method"
	deleteBranchParameterName  = "delete_branch"
	commitMessageParameterName = "commit_message"
	defaultMergeMethodConstant = "merge"

	pullRequestCreatedConfirmation = "Pull request created"
	pullRequestUpdatedTemplate     = "Pull request #%d updated"
	pullRequestMergedTemplate      = "Pull request #%d merged"
	pullRequestClosedTemplate      = "Pull request #%d closed"
	pullRequestCommentedTemplate   = "Comment added to pull request #%d"
	pullRequestNumberDescription   = "Pull request number"
)

var (
	pullRequestStates  = []string{"open", "closed", "merged", "all"}
	mergeMethods       = []string{"merge", "squash", "rebase"}
	searchLimitSummary = "Maximum number of results (default: 30)"
)

// PullRequestParameters identifies a single pull request.
type PullRequestParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Number               int64 `mapstructure:"number"`
}

func (parameters PullRequestParameters) validate() error {
	return validatePositive(numberParameterName, parameters.Number)
}

func (parameters PullRequestParameters) numberArgument() string {
	return strconv.FormatInt(parameters.Number, 10)
}

type listPullRequestsParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	State                *string `mapstructure:"state"`
	Limit                *int    `mapstructure:"limit"`
	Base                 *string `mapstructure:"base"`
	Head                 *string `mapstructure:"head"`
}

func (parameters listPullRequestsParameters) validate() error {
	if validationError := validateOptionalChoice(stateParameterName, parameters.State, pullRequestStates); validationError != nil {
		return validationError
	}
	return validateOptionalPositive(limitParameterName, parameters.Limit)
}

type searchParameters struct {
	AccountParameters `mapstructure:",squash"`
	Query             string `mapstructure:"query"`
	Limit             *int   `mapstructure:"limit"`
}

func (parameters searchParameters) validate() error {
	return validateOptionalPositive(limitParameterName, parameters.Limit)
}

type createPullRequestParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Title                string  `mapstructure:"title"`
	Body                 *string `mapstructure:"body"`
	Head                 string  `mapstructure:"head"`
	Base                 *string `mapstructure:"base"`
	Draft                *bool   `mapstructure:"draft"`
}

type editPullRequestParameters struct {
	PullRequestParameters `mapstructure:",squash"`
	Title                 *string `mapstructure:"title"`
	Body                  *string `mapstructure:"body"`
	Base                  *string `mapstructure:"base"`
}

type mergePullRequestParameters struct {
	PullRequestParameters `mapstructure:",squash"`
	Method                *string `mapstructure:"method"`
	DeleteBranch          *bool   `mapstructure:"delete_branch"`
	CommitMessage         *string `mapstructure:"commit_message"`
}

func (parameters mergePullRequestParameters) validate() error {
	if validationError := parameters.PullRequestParameters.validate(); validationError != nil {
		return validationError
	}
	return validateOptionalChoice(methodParameterName, parameters.Method, mergeMethods)
}

type commentPullRequestParameters struct {
	PullRequestParameters `mapstructure:",squash"`
	Body                  string `mapstructure:"body"`
}

func (commands githubCommands) pullRequestOperations() []Operation {
	numberOption := requiredNumber(numberParameterName, pullRequestNumberDescription)
	return []Operation{
		newOperation(newRepositoryTool(getPullRequestOperationName, "Get detailed information about a specific pull request.", numberOption), commands.getPullRequest),
		newOperation(newRepositoryTool(getPullRequestDiffOperationName, "Get the diff/patch of a pull request.", numberOption), commands.getPullRequestDiff),
		newOperation(newRepositoryTool(getPullRequestFilesOperationName, "Get the list of files changed in a pull request.", numberOption), commands.getPullRequestFiles),
		newOperation(newRepositoryTool(listPullRequestsOperationName, "List pull requests in a repository with optional filters.",
			optionalChoice(stateParameterName, "Filter by state: open, closed, merged, all (default: open)", pullRequestStates),
			optionalNumber(limitParameterName, "Maximum number of PRs to return (default: 30)"),
			optionalString(baseParameterName, "Filter by base branch"),
			optionalString(headParameterName, "Filter by head branch"),
		), commands.listPullRequests),
		newOperation(newAccountTool(searchPullRequestsOperationName, "Search pull requests using GitHub search syntax.",
			requiredString(queryParameterName, "Search query using GitHub search syntax"),
			optionalNumber(limitParameterName, searchLimitSummary),
		), commands.searchPullRequests),
		newOperation(newRepositoryTool(createPullRequestOperationName, "Create a new pull request.",
			requiredString(titleParameterName, "Pull request title"),
			optionalString(bodyParameterName, "Pull request body/description"),
			requiredString(headParameterName, "Head branch containing the changes"),
			optionalString(baseParameterName, "Base branch to merge into (default: default branch)"),
			optionalBoolean(draftParameterName, "Create as draft PR"),
		), commands.createPullRequest),
		newOperation(newRepositoryTool(editPullRequestOperationName, "Edit an existing pull request's title, body, or base branch.",
			numberOption,
			optionalString(titleParameterName, "New title for the PR"),
			optionalString(bodyParameterName, "New body/description for the PR"),
			optionalString(baseParameterName, "New base branch"),
		), commands.editPullRequest),
		newOperation(newRepositoryTool(mergePullRequestOperationName, "Merge a pull request. Supports merge, squash, and rebase methods.",
			numberOption,
			optionalChoice(methodParameterName, "Merge method: merge, squash, rebase (default: merge)", mergeMethods),
			optionalBoolean(deleteBranchParameterName, "Delete the head branch after merging"),
			optionalString(commitMessageParameterName, "Custom commit message"),
		), commands.mergePullRequest),
		newOperation(newRepositoryTool(closePullRequestOperationName, "Close a pull request without merging.", numberOption), commands.closePullRequest),
		newOperation(newRepositoryTool(commentPullRequestOperationName, "Add a comment to a pull request.",
			numberOption,
			requiredString(bodyParameterName, "Comment body (Markdown supported)"),
		), commands.commentPullRequest),
	}
}

func (commands githubCommands) getPullRequest(executionContext context.Context, parameters PullRequestParameters) (Result, error) {
	return commands.runStructured(executionContext, parameters.Account,
		pullRequestCommandConstant, commandViewConstant, parameters.numberArgument(), repositoryFlagConstant, parameters.slug(),
		jsonFieldsFlagConstant, pullRequestViewFieldsConstant)
}

// getPullRequestDiff returns the patch byte for byte.
func (commands githubCommands) getPullRequestDiff(executionContext context.Context, parameters PullRequestParameters) (Result, error) {
	diffText, executionError := commands.runVerbatim(executionContext, parameters.Account,
		pullRequestCommandConstant, commandDiffConstant, parameters.numberArgument(), repositoryFlagConstant, parameters.slug())
	if executionError != nil {
		return Result{}, executionError
	}
	return TextResult(diffText), nil
}

func (commands githubCommands) getPullRequestFiles(executionContext context.Context, parameters PullRequestParameters) (Result, error) {
	return commands.runStructured(executionContext, parameters.Account,
		pullRequestCommandConstant, commandViewConstant, parameters.numberArgument(), repositoryFlagConstant, parameters.slug(),
		jsonFieldsFlagConstant, pullRequestFilesFieldConstant)
}

func (commands githubCommands) listPullRequests(executionContext context.Context, parameters listPullRequestsParameters) (Result, error) {
	arguments := []string{pullRequestCommandConstant, commandListConstant, repositoryFlagConstant, parameters.slug()}
	arguments = appendAssignedFlag(arguments, stateFlagConstant, parameters.State)
	arguments = appendLimit(arguments, parameters.Limit)
	arguments = appendAssignedFlag(arguments, baseFlagConstant, parameters.Base)
	arguments = appendAssignedFlag(arguments, headFlagConstant, parameters.Head)
	arguments = append(arguments, jsonFieldsFlagConstant, pullRequestListFieldsConstant)
	return commands.runStructured(executionContext, parameters.Account, arguments...)
}

func (commands githubCommands) searchPullRequests(executionContext context.Context, parameters searchParameters) (Result, error) {
	return commands.runStructured(executionContext, parameters.Account,
		buildSearchArguments(searchPullRequestsSubcommand, pullRequestSearchFields, parameters)...)
}

func (commands githubCommands) createPullRequest(executionContext context.Context, parameters createPullRequestParameters) (Result, error) {
	arguments := []string{
		pullRequestCommandConstant, commandCreateConstant, repositoryFlagConstant, parameters.slug(),
		titleFlagConstant, parameters.Title, headFlagConstant, parameters.Head,
	}
	arguments = appendAssignedFlag(arguments, bodyFlagConstant, parameters.Body)
	arguments = appendAssignedFlag(arguments, baseFlagConstant, parameters.Base)
	arguments = appendSwitch(arguments, draftFlagConstant, parameters.Draft)
	return commands.runText(executionContext, parameters.Account, pullRequestCreatedConfirmation, arguments...)
}

func (commands githubCommands) editPullRequest(executionContext context.Context, parameters editPullRequestParameters) (Result, error) {
	arguments := []string{pullRequestCommandConstant, commandEditConstant, parameters.numberArgument(), repositoryFlagConstant, parameters.slug()}
	arguments = appendAssignedFlag(arguments, titleFlagConstant, parameters.Title)
	arguments = appendAssignedFlag(arguments, bodyFlagConstant, parameters.Body)
	arguments = appendAssignedFlag(arguments, baseFlagConstant, parameters.Base)
	return commands.runText(executionContext, parameters.Account, fmt.Sprintf(pullRequestUpdatedTemplate, parameters.Number), arguments...)
}

func (commands githubCommands) mergePullRequest(executionContext context.Context, parameters mergePullRequestParameters) (Result, error) {
	mergeMethod := defaultMergeMethodConstant
	if isProvided(parameters.Method) {
		mergeMethod = *parameters.Method
	}

	arguments := []string{
		pullRequestCommandConstant, commandMergeConstant, parameters.numberArgument(), repositoryFlagConstant, parameters.slug(),
		fmt.Sprintf(mergeMethodFlagTemplate, mergeMethod),
	}
	arguments = appendSwitch(arguments, deleteBranchFlagConstant, parameters.DeleteBranch)
	arguments = appendAssignedFlag(arguments, bodyFlagConstant, parameters.CommitMessage)
	return commands.runText(executionContext, parameters.Account, fmt.Sprintf(pullRequestMergedTemplate, parameters.Number), arguments...)
}

func (commands githubCommands) closePullRequest(executionContext context.Context, parameters PullRequestParameters) (Result, error) {
	return commands.runText(executionContext, parameters.Account, fmt.Sprintf(pullRequestClosedTemplate, parameters.Number),
		pullRequestCommandConstant, commandCloseConstant, parameters.numberArgument(), repositoryFlagConstant, parameters.slug())
}

func (commands githubCommands) commentPullRequest(executionContext context.Context, parameters commentPullRequestParameters) (Result, error) {
	return commands.runText(executionContext, parameters.Account, fmt.Sprintf(pullRequestCommentedTemplate, parameters.Number),
		pullRequestCommandConstant, commandCommentConstant, parameters.numberArgument(), repositoryFlagConstant, parameters.slug(),
		bodyFlagConstant, parameters.Body)
}

// buildSearchArguments places the query after "--" so exclusion qualifiers such as "-label:bug" are not read as flags.
func buildSearchArguments(subcommand string, fields string, parameters searchParameters) []string {
	arguments := []string{searchCommandConstant, subcommand}
	arguments = appendLimit(arguments, parameters.Limit)
	arguments = append(arguments, jsonFieldsFlagConstant, fields, endOfFlagsConstant, parameters.Query)
	return arguments
}
