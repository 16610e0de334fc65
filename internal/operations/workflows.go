package operations

import (
	"context"
	"fmt"
	"strconv"

	"github.com/temirov/multigh/internal/githubcli"
)

const (
	listWorkflowRunsOperationName    = "list_workflow_runs"
	listRunArtifactsOperationName    = "list_run_artifacts"
	downloadRunArtifactOperationName = "download_run_artifact"
	runCommandConstant               = "run"
	workflowRunFieldsConstant        = "databaseId,workflowName,status,conclusion,headBranch,event,createdAt,url"
	runArtifactsEndpointTemplate     = "repos/%s/%s/actions/runs/%d/artifacts"
	workflowFlagConstant             = "--workflow"
	branchFlagConstant               = "--branch"
	statusFlagConstant               = "--status"
	nameFlagConstant                 = "--name"
	workflowParameterName            = "workflow"
	statusParameterName              = "status"
	runIdentifierParameterName       = "run_id"
	artifactNameParameterName        = "name"
	runArtifactsDownloadedTemplate   = "Artifacts of run %d downloaded"
	runIdentifierDescription         = "Workflow run ID"
)

type listWorkflowRunsParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Workflow             *string `mapstructure:"workflow"`
	Branch               *string `mapstructure:"branch"`
	Status               *string `mapstructure:"status"`
	Limit                *int    `mapstructure:"limit"`
}

func (parameters listWorkflowRunsParameters) validate() error {
	return validateOptionalPositive(limitParameterName, parameters.Limit)
}

// WorkflowRunParameters identifies a workflow run.
type WorkflowRunParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	RunIdentifier        int64 `mapstructure:"run_id"`
}

func (parameters WorkflowRunParameters) validate() error {
	return validatePositive(runIdentifierParameterName, parameters.RunIdentifier)
}

type downloadRunArtifactParameters struct {
	WorkflowRunParameters `mapstructure:",squash"`
	Name                  *string `mapstructure:"name"`
	Directory             *string `mapstructure:"dir"`
}

func (commands githubCommands) workflowOperations() []Operation {
	runIdentifierOption := requiredNumber(runIdentifierParameterName, runIdentifierDescription)
	return []Operation{
		newOperation(newRepositoryTool(listWorkflowRunsOperationName, "List GitHub Actions workflow runs in a repository.",
			optionalString(workflowParameterName, "Filter by workflow name or file (e.g., 'ci.yml')"),
			optionalString(branchParameterName, "Filter by branch name"),
			optionalString(statusParameterName, "Filter by status: queued, in_progress, completed"),
			optionalNumber(limitParameterName, "Maximum number of runs to return (default: 20)"),
		), commands.listWorkflowRuns),
		newOperation(newRepositoryTool(listRunArtifactsOperationName, "List artifacts from a specific workflow run.", runIdentifierOption), commands.listRunArtifacts),
		newOperation(newRepositoryTool(downloadRunArtifactOperationName, "Download artifacts from a workflow run.",
			runIdentifierOption,
			optionalString(artifactNameParameterName, "Artifact name pattern to download (e.g., 'build-*')"),
			optionalString(directoryParameterName, "Directory to download artifacts to (default: current directory)"),
		), commands.downloadRunArtifact),
	}
}

func (commands githubCommands) listWorkflowRuns(executionContext context.Context, parameters listWorkflowRunsParameters) (Result, error) {
	arguments := []string{runCommandConstant, commandListConstant, repositoryFlagConstant, parameters.slug()}
	arguments = appendAssignedFlag(arguments, workflowFlagConstant, parameters.Workflow)
	arguments = appendAssignedFlag(arguments, branchFlagConstant, parameters.Branch)
	arguments = appendAssignedFlag(arguments, statusFlagConstant, parameters.Status)
	arguments = appendLimit(arguments, parameters.Limit)
	arguments = append(arguments, jsonFieldsFlagConstant, workflowRunFieldsConstant)
	return commands.runStructured(executionContext, parameters.Account, arguments...)
}

func (commands githubCommands) listRunArtifacts(executionContext context.Context, parameters WorkflowRunParameters) (Result, error) {
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(runArtifactsEndpointTemplate, parameters.Owner, parameters.Repository, parameters.RunIdentifier),
	})
}

func (commands githubCommands) downloadRunArtifact(executionContext context.Context, parameters downloadRunArtifactParameters) (Result, error) {
	arguments := []string{runCommandConstant, commandDownloadConstant, strconv.FormatInt(parameters.RunIdentifier, 10), repositoryFlagConstant, parameters.slug()}
	arguments = appendAssignedFlag(arguments, nameFlagConstant, parameters.Name)
	arguments = appendAssignedFlag(arguments, directoryFlagConstant, parameters.Directory)
	return commands.runText(executionContext, parameters.Account, fmt.Sprintf(runArtifactsDownloadedTemplate, parameters.RunIdentifier), arguments...)
}
