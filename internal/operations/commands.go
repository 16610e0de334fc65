package operations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/temirov/multigh/internal/githubcli"
)

const (
	repositorySlugTemplateConstant  = "%s/%s"
	flagAssignmentTemplateConstant  = "%s=%s"
	repositoryFlagConstant          = "--repo"
	jsonFieldsFlagConstant          = "--json"
	limitFlagConstant               = "--limit"
	endOfFlagsConstant              = "--"
	pathSeparatorConstant           = "/"
	branchReferenceEndpointTemplate = "repos/%s/%s/git/ref/heads/%s"
	gitReferencesEndpointTemplate   = "repos/%s/%s/git/refs"
	referenceFieldConstant          = "ref"
	shaFieldConstant                = "sha"
	httpMethodPost                  = "POST"
	httpMethodPut                   = "PUT"
	httpMethodPatch                 = "PATCH"
	httpMethodDelete                = "DELETE"
)

// CommandGateway runs gh invocations on behalf of an account.
type CommandGateway interface {
	Execute(executionContext context.Context, spec githubcli.CommandSpec) (githubcli.CommandOutcome, error)
}

type githubCommands struct {
	gateway CommandGateway
}

func (commands githubCommands) runStructured(executionContext context.Context, account *string, arguments ...string) (Result, error) {
	outcome, executionError := commands.gateway.Execute(executionContext, githubcli.CommandSpec{
		Arguments:  arguments,
		Account:    accountName(account),
		OutputMode: githubcli.OutputModeStructured,
	})
	if executionError != nil {
		return Result{}, executionError
	}
	return StructuredResult(outcome.Structured), nil
}

// runText returns the trimmed output of a text-producing command, or confirmation when it printed nothing.
func (commands githubCommands) runText(executionContext context.Context, account *string, confirmation string, arguments ...string) (Result, error) {
	text, executionError := commands.runVerbatim(executionContext, account, arguments...)
	if executionError != nil {
		return Result{}, executionError
	}
	trimmedText := strings.TrimSpace(text)
	if len(trimmedText) == 0 {
		return TextResult(confirmation), nil
	}
	return TextResult(trimmedText), nil
}

func (commands githubCommands) runVerbatim(executionContext context.Context, account *string, arguments ...string) (string, error) {
	outcome, executionError := commands.gateway.Execute(executionContext, githubcli.CommandSpec{
		Arguments:  arguments,
		Account:    accountName(account),
		OutputMode: githubcli.OutputModeRawText,
	})
	if executionError != nil {
		return "", executionError
	}
	return outcome.Text, nil
}

func (commands githubCommands) callAPI(executionContext context.Context, account *string, request githubcli.APIRequest) (json.RawMessage, error) {
	outcome, executionError := commands.gateway.Execute(executionContext, githubcli.NewAPICommandSpec(accountName(account), request))
	if executionError != nil {
		return nil, executionError
	}
	return outcome.Structured, nil
}

func (commands githubCommands) callAPIStructured(executionContext context.Context, account *string, request githubcli.APIRequest) (Result, error) {
	payload, executionError := commands.callAPI(executionContext, account, request)
	if executionError != nil {
		return Result{}, executionError
	}
	return StructuredResult(payload), nil
}

func (commands githubCommands) callAPIConfirmed(executionContext context.Context, account *string, request githubcli.APIRequest, confirmation string) (Result, error) {
	if _, executionError := commands.callAPI(executionContext, account, request); executionError != nil {
		return Result{}, executionError
	}
	return TextResult(confirmation), nil
}

// resolveBranchCommit returns the commit a branch points at. Lookup failures reported by gh
// fall back to the literal reference so callers may pass a branch name or a commit sha.
func (commands githubCommands) resolveBranchCommit(executionContext context.Context, account *string, owner string, repository string, reference string) (string, error) {
	payload, lookupError := commands.callAPI(executionContext, account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(branchReferenceEndpointTemplate, owner, repository, escapePathSegments(reference)),
	})
	if lookupError != nil {
		if isLookupFailure(lookupError) {
			return reference, nil
		}
		return "", lookupError
	}

	var referencePayload struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if decodeError := json.Unmarshal(payload, &referencePayload); decodeError != nil {
		return reference, nil
	}
	resolvedSHA := strings.TrimSpace(referencePayload.Object.SHA)
	if len(resolvedSHA) == 0 {
		return reference, nil
	}
	return resolvedSHA, nil
}

func (commands githubCommands) createReference(executionContext context.Context, account *string, owner string, repository string, referenceName string, sha string) (Result, error) {
	return commands.callAPIStructured(executionContext, account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(gitReferencesEndpointTemplate, owner, repository),
		Method:   httpMethodPost,
		Fields: []githubcli.APIField{
			{Key: referenceFieldConstant, Value: referenceName},
			{Key: shaFieldConstant, Value: sha},
		},
	})
}

// isLookupFailure reports errors produced by gh itself, as opposed to credential or invocation failures.
func isLookupFailure(err error) bool {
	var toolError githubcli.ExternalToolError
	if errors.As(err, &toolError) {
		return true
	}
	var malformedError githubcli.MalformedOutputError
	return errors.As(err, &malformedError)
}

func accountName(account *string) string {
	if !isProvided(account) {
		return ""
	}
	return strings.TrimSpace(*account)
}

func repositorySlug(owner string, repository string) string {
	return fmt.Sprintf(repositorySlugTemplateConstant, owner, repository)
}

// appendAssignedFlag appends --flag=value when value is provided.
func appendAssignedFlag(arguments []string, flag string, value *string) []string {
	if !isProvided(value) {
		return arguments
	}
	return append(arguments, fmt.Sprintf(flagAssignmentTemplateConstant, flag, *value))
}

func appendSwitch(arguments []string, flag string, enabled *bool) []string {
	if !isEnabled(enabled) {
		return arguments
	}
	return append(arguments, flag)
}

// escapePathSegments escapes each "/"-separated segment so "#", "?", "%" and spaces stay part of the path.
func escapePathSegments(value string) string {
	segments := strings.Split(value, pathSeparatorConstant)
	for segmentIndex, segment := range segments {
		segments[segmentIndex] = url.PathEscape(segment)
	}
	return strings.Join(segments, pathSeparatorConstant)
}

func withQuery(endpoint string, queryValues url.Values) string {
	if len(queryValues) == 0 {
		return endpoint
	}
	return endpoint + queryStringSeparator + queryValues.Encode()
}

func appendLimit(arguments []string, limit *int) []string {
	if limit == nil {
		return arguments
	}
	return append(arguments, limitFlagConstant, strconv.Itoa(*limit))
}
