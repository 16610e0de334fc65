package operations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/temirov/multigh/internal/githubcli"
)

const (
	listTagsOperationName       = "list_tags"
	createTagOperationName      = "create_tag"
	deleteTagOperationName      = "delete_tag"
	tagsEndpointTemplate        = "repos/%s/%s/tags"
	tagObjectsEndpointTemplate  = "repos/%s/%s/git/tags"
	tagReferenceNameTemplate    = "refs/tags/%s"
	tagReferenceDeleteTemplate  = "repos/%s/%s/git/refs/tags/%s"
	tagDeletedTemplate          = "Tag '%s' deleted successfully"
	messageParameterName        = "message"
	tagObjectFieldConstant      = "object"
	tagTypeFieldConstant        = "type"
	tagObjectTypeCommitConstant = "commit"
)

type listTagsParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Limit                *int `mapstructure:"limit"`
}

func (parameters listTagsParameters) validate() error {
	return validateOptionalPositive(limitParameterName, parameters.Limit)
}

// TagParameters identifies a git tag of a repository.
type TagParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Tag                  string `mapstructure:"tag"`
}

type createTagParameters struct {
	TagParameters `mapstructure:",squash"`
	SHA           *string `mapstructure:"sha"`
	Message       *string `mapstructure:"message"`
}

func (commands githubCommands) tagOperations() []Operation {
	return []Operation{
		newOperation(newRepositoryTool(listTagsOperationName, "List git tags in a repository.",
			optionalNumber(limitParameterName, "Maximum number of tags to return (default: 30)"),
		), commands.listTags),
		newOperation(newRepositoryTool(createTagOperationName, "Create a new git tag pointing to a specific commit.",
			requiredString(tagParameterName, "Tag name (e.g., 'v1.0.0')"),
			optionalString(shaParameterName, "Commit SHA or branch to tag (default: HEAD of default branch)"),
			optionalString(messageParameterName, "Tag message (creates annotated tag if provided)"),
		), commands.createTag),
		newOperation(newRepositoryTool(deleteTagOperationName, "Delete a git tag from a repository.",
			requiredString(tagParameterName, "Tag name to delete"),
		), commands.deleteTag),
	}
}

func (commands githubCommands) listTags(executionContext context.Context, parameters listTagsParameters) (Result, error) {
	queryValues := url.Values{}
	if parameters.Limit != nil {
		queryValues.Set(perPageQueryParameter, strconv.Itoa(*parameters.Limit))
	}
	endpoint := withQuery(fmt.Sprintf(tagsEndpointTemplate, parameters.Owner, parameters.Repository), queryValues)
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{Endpoint: endpoint})
}

// createTag points the tag at sha, or at the tip of the default branch when sha is absent.
// A message turns the tag into an annotated tag object before the reference is created.
func (commands githubCommands) createTag(executionContext context.Context, parameters createTagParameters) (Result, error) {
	var source string
	if isProvided(parameters.SHA) {
		source = *parameters.SHA
	} else {
		defaultBranch, lookupError := commands.lookupDefaultBranch(executionContext, parameters.RepositoryParameters)
		if lookupError != nil {
			return Result{}, lookupError
		}
		source = defaultBranch
	}

	targetSHA, resolveError := commands.resolveBranchCommit(executionContext, parameters.Account, parameters.Owner, parameters.Repository, source)
	if resolveError != nil {
		return Result{}, resolveError
	}

	if isProvided(parameters.Message) {
		tagObjectSHA, annotateError := commands.createAnnotatedTag(executionContext, parameters, targetSHA)
		if annotateError != nil {
			return Result{}, annotateError
		}
		targetSHA = tagObjectSHA
	}

	return commands.createReference(executionContext, parameters.Account, parameters.Owner, parameters.Repository,
		fmt.Sprintf(tagReferenceNameTemplate, parameters.Tag), targetSHA)
}

func (commands githubCommands) deleteTag(executionContext context.Context, parameters TagParameters) (Result, error) {
	return commands.callAPIConfirmed(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(tagReferenceDeleteTemplate, parameters.Owner, parameters.Repository, escapePathSegments(parameters.Tag)),
		Method:   httpMethodDelete,
	}, fmt.Sprintf(tagDeletedTemplate, parameters.Tag))
}

// lookupDefaultBranch falls back to HEAD when gh cannot describe the repository.
func (commands githubCommands) lookupDefaultBranch(executionContext context.Context, parameters RepositoryParameters) (string, error) {
	payload, lookupError := commands.callAPI(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(repositoryEndpointTemplate, parameters.Owner, parameters.Repository),
	})
	if lookupError != nil {
		if isLookupFailure(lookupError) {
			return headReferenceConstant, nil
		}
		return "", lookupError
	}

	var repositoryPayload struct {
		DefaultBranch string `json:"default_branch"`
	}
	if json.Unmarshal(payload, &repositoryPayload) != nil || len(strings.TrimSpace(repositoryPayload.DefaultBranch)) == 0 {
		return headReferenceConstant, nil
	}
	return repositoryPayload.DefaultBranch, nil
}

func (commands githubCommands) createAnnotatedTag(executionContext context.Context, parameters createTagParameters, commitSHA string) (string, error) {
	payload, creationError := commands.callAPI(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(tagObjectsEndpointTemplate, parameters.Owner, parameters.Repository),
		Method:   httpMethodPost,
		Fields: []githubcli.APIField{
			{Key: tagParameterName, Value: parameters.Tag},
			{Key: messageParameterName, Value: *parameters.Message},
			{Key: tagObjectFieldConstant, Value: commitSHA},
			{Key: tagTypeFieldConstant, Value: tagObjectTypeCommitConstant},
		},
	})
	if creationError != nil {
		return "", creationError
	}

	var tagPayload struct {
		SHA string `json:"sha"`
	}
	if json.Unmarshal(payload, &tagPayload) != nil || len(strings.TrimSpace(tagPayload.SHA)) == 0 {
		return "", ErrMissingTagObject
	}
	return tagPayload.SHA, nil
}
