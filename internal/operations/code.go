package operations

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/temirov/multigh/internal/githubcli"
)

const (
	getFileOperationName     = "get_file"
	searchCodeOperationName  = "search_code"
	listCommitsOperationName = "list_commits"
	searchCodeSubcommand     = "code"
	searchCodeFields         = "path,repository,textMatches"
	contentsEndpointTemplate = "repos/%s/%s/contents/%s"
	commitsEndpointTemplate  = "repos/%s/%s/commits"
	queryStringSeparator     = "?"
	pathParameterName        = "path"
	referenceParameterName   = "ref"
	shaParameterName         = "sha"
	authorParameterName      = "author"
	perPageQueryParameter    = "per_page"
	lineFeedConstant         = "\n"
	carriageReturnConstant   = "\r"
)

type getFileParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Path                 string  `mapstructure:"path"`
	Reference            *string `mapstructure:"ref"`
}

type listCommitsParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	SHA                  *string `mapstructure:"sha"`
	Path                 *string `mapstructure:"path"`
	Author               *string `mapstructure:"author"`
	Limit                *int    `mapstructure:"limit"`
}

func (parameters listCommitsParameters) validate() error {
	return validateOptionalPositive(limitParameterName, parameters.Limit)
}

func (commands githubCommands) codeOperations() []Operation {
	return []Operation{
		newOperation(newRepositoryTool(getFileOperationName, "Get the contents of a file from a repository.",
			requiredString(pathParameterName, "File path within the repository"),
			optionalString(referenceParameterName, "Git ref (branch, tag, or commit SHA). Defaults to default branch."),
		), commands.getFile),
		newOperation(newAccountTool(searchCodeOperationName, "Search code using GitHub code search syntax.",
			requiredString(queryParameterName, "Search query using GitHub code search syntax"),
			optionalNumber(limitParameterName, searchLimitSummary),
		), commands.searchCode),
		newOperation(newRepositoryTool(listCommitsOperationName, "List commits in a repository with optional filters.",
			optionalString(shaParameterName, "Branch or commit SHA to list commits from"),
			optionalString(pathParameterName, "File path to filter commits by"),
			optionalString(authorParameterName, "Author username or email to filter commits by"),
			optionalNumber(limitParameterName, "Maximum number of commits to return (default: 30)"),
		), commands.listCommits),
	}
}

// getFile returns decoded text for base64 file content and the original envelope for anything else.
func (commands githubCommands) getFile(executionContext context.Context, parameters getFileParameters) (Result, error) {
	queryValues := url.Values{}
	if isProvided(parameters.Reference) {
		queryValues.Set(referenceParameterName, *parameters.Reference)
	}
	endpoint := withQuery(fmt.Sprintf(contentsEndpointTemplate, parameters.Owner, parameters.Repository, escapePathSegments(strings.TrimPrefix(parameters.Path, pathSeparatorConstant))), queryValues)

	payload, executionError := commands.callAPI(executionContext, parameters.Account, githubcli.APIRequest{Endpoint: endpoint})
	if executionError != nil {
		return Result{}, executionError
	}

	if decodedText, decoded := decodeFileContent(payload); decoded {
		return TextResult(decodedText), nil
	}
	return StructuredResult(payload), nil
}

func (commands githubCommands) searchCode(executionContext context.Context, parameters searchParameters) (Result, error) {
	return commands.runStructured(executionContext, parameters.Account,
		buildSearchArguments(searchCodeSubcommand, searchCodeFields, parameters)...)
}

func (commands githubCommands) listCommits(executionContext context.Context, parameters listCommitsParameters) (Result, error) {
	queryValues := url.Values{}
	if isProvided(parameters.SHA) {
		queryValues.Set(shaParameterName, *parameters.SHA)
	}
	if isProvided(parameters.Path) {
		queryValues.Set(pathParameterName, *parameters.Path)
	}
	if isProvided(parameters.Author) {
		queryValues.Set(authorParameterName, *parameters.Author)
	}
	if parameters.Limit != nil {
		queryValues.Set(perPageQueryParameter, strconv.Itoa(*parameters.Limit))
	}

	endpoint := withQuery(fmt.Sprintf(commitsEndpointTemplate, parameters.Owner, parameters.Repository), queryValues)
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{Endpoint: endpoint})
}

func decodeFileContent(payload json.RawMessage) (string, bool) {
	var envelope struct {
		Content *string `json:"content"`
	}
	if json.Unmarshal(payload, &envelope) != nil || envelope.Content == nil {
		return "", false
	}

	encodedContent := strings.NewReplacer(lineFeedConstant, "", carriageReturnConstant, "").Replace(*envelope.Content)
	decodedBytes, decodeError := base64.StdEncoding.DecodeString(encodedContent)
	if decodeError != nil || !utf8.Valid(decodedBytes) {
		return "", false
	}
	return string(decodedBytes), true
}
