package operations

import (
	"context"
	"fmt"
)

const (
	listReleasesOperationName         = "list_releases"
	getReleaseOperationName           = "get_release"
	createReleaseOperationName        = "create_release"
	deleteReleaseOperationName        = "delete_release"
	listReleaseAssetsOperationName    = "list_release_assets"
	downloadReleaseAssetOperationName = "download_release_asset"

	releaseCommandConstant     = "release"
	commandDeleteConstant      = "delete"
	commandDownloadConstant    = "download"
	releaseListFieldsConstant  = "tagName,name,isDraft,isPrerelease,isLatest,publishedAt,createdAt"
	releaseViewFieldsConstant  = "tagName,name,body,author,createdAt,publishedAt,isDraft,isPrerelease,assets,url"
	releaseAssetsFieldConstant = "assets"
	notesFlagConstant          = "--notes"
	targetFlagConstant         = "--target"
	prereleaseFlagConstant     = "--prerelease"
	generateNotesFlagConstant  = "--generate-notes"
	confirmFlagConstant        = "--yes"
	cleanupTagFlagConstant     = "--cleanup-tag"
	patternFlagConstant        = "--pattern"
	directoryFlagConstant      = "--dir"

	tagParameterName           = "tag"
	notesParameterName         = "notes"
	targetParameterName        = "target"
	prereleaseParameterName    = "prerelease"
	generateNotesParameterName = "generate_notes"
	deleteTagParameterName     = "delete_tag"
	patternParameterName       = "pattern"
	directoryParameterName     = "dir"
	releaseTagDescription      = "Release tag (e.g., 'v1.0.0')"

	releaseCreatedTemplate          = "Release '%s' created"
	releaseDeletedTemplate          = "Release '%s' deleted successfully"
	releaseAssetsDownloadedTemplate = "Assets of release '%s' downloaded"
)

// ReleaseParameters identifies a release by tag.
type ReleaseParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Tag                  string `mapstructure:"tag"`
}

func (parameters ReleaseParameters) validate() error {
	return validatePositional(tagParameterName, parameters.Tag)
}

type listReleasesParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Limit                *int `mapstructure:"limit"`
}

func (parameters listReleasesParameters) validate() error {
	return validateOptionalPositive(limitParameterName, parameters.Limit)
}

type createReleaseParameters struct {
	ReleaseParameters `mapstructure:",squash"`
	Title             *string `mapstructure:"title"`
	Notes             *string `mapstructure:"notes"`
	Target            *string `mapstructure:"target"`
	Draft             *bool   `mapstructure:"draft"`
	Prerelease        *bool   `mapstructure:"prerelease"`
	GenerateNotes     *bool   `mapstructure:"generate_notes"`
}

type deleteReleaseParameters struct {
	ReleaseParameters `mapstructure:",squash"`
	DeleteTag         *bool `mapstructure:"delete_tag"`
}

type downloadReleaseAssetParameters struct {
	ReleaseParameters `mapstructure:",squash"`
	Pattern           *string `mapstructure:"pattern"`
	Directory         *string `mapstructure:"dir"`
}

func (commands githubCommands) releaseOperations() []Operation {
	tagOption := requiredString(tagParameterName, releaseTagDescription)
	return []Operation{
		newOperation(newRepositoryTool(listReleasesOperationName, "List releases in a repository.",
			optionalNumber(limitParameterName, "Maximum number of releases to return (default: 30)"),
		), commands.listReleases),
		newOperation(newRepositoryTool(getReleaseOperationName, "Get detailed information about a specific release by tag.", tagOption), commands.getRelease),
		newOperation(newRepositoryTool(createReleaseOperationName, "Create a new release with optional release notes.",
			requiredString(tagParameterName, "Tag name for the release (e.g., 'v1.0.0')"),
			optionalString(titleParameterName, "Release title"),
			optionalString(notesParameterName, "Release notes/body (Markdown supported)"),
			optionalString(targetParameterName, "Target commit SHA or branch (default: default branch)"),
			optionalBoolean(draftParameterName, "Create as draft release"),
			optionalBoolean(prereleaseParameterName, "Mark as prerelease"),
			optionalBoolean(generateNotesParameterName, "Auto-generate release notes from commits"),
		), commands.createRelease),
		newOperation(newRepositoryTool(deleteReleaseOperationName, "Delete a release by tag. Optionally delete the associated git tag.",
			requiredString(tagParameterName, "Release tag to delete"),
			optionalBoolean(deleteTagParameterName, "Also delete the associated git tag"),
		), commands.deleteRelease),
		newOperation(newRepositoryTool(listReleaseAssetsOperationName, "List assets (files) attached to a release.", tagOption), commands.listReleaseAssets),
		newOperation(newRepositoryTool(downloadReleaseAssetOperationName, "Download assets from a release.",
			tagOption,
			optionalString(patternParameterName, "Asset pattern to download (glob pattern, e.g., '*.tar.gz')"),
			optionalString(directoryParameterName, "Directory to download assets to (default: current directory)"),
		), commands.downloadReleaseAsset),
	}
}

func (commands githubCommands) listReleases(executionContext context.Context, parameters listReleasesParameters) (Result, error) {
	arguments := []string{releaseCommandConstant, commandListConstant, repositoryFlagConstant, parameters.slug()}
	arguments = appendLimit(arguments, parameters.Limit)
	arguments = append(arguments, jsonFieldsFlagConstant, releaseListFieldsConstant)
	return commands.runStructured(executionContext, parameters.Account, arguments...)
}

func (commands githubCommands) getRelease(executionContext context.Context, parameters ReleaseParameters) (Result, error) {
	return commands.runStructured(executionContext, parameters.Account,
		releaseCommandConstant, commandViewConstant, parameters.Tag, repositoryFlagConstant, parameters.slug(),
		jsonFieldsFlagConstant, releaseViewFieldsConstant)
}

func (commands githubCommands) createRelease(executionContext context.Context, parameters createReleaseParameters) (Result, error) {
	arguments := []string{releaseCommandConstant, commandCreateConstant, parameters.Tag, repositoryFlagConstant, parameters.slug()}
	arguments = appendAssignedFlag(arguments, titleFlagConstant, parameters.Title)
	arguments = appendAssignedFlag(arguments, notesFlagConstant, parameters.Notes)
	arguments = appendAssignedFlag(arguments, targetFlagConstant, parameters.Target)
	arguments = appendSwitch(arguments, draftFlagConstant, parameters.Draft)
	arguments = appendSwitch(arguments, prereleaseFlagConstant, parameters.Prerelease)
	arguments = appendSwitch(arguments, generateNotesFlagConstant, parameters.GenerateNotes)
	return commands.runText(executionContext, parameters.Account, fmt.Sprintf(releaseCreatedTemplate, parameters.Tag), arguments...)
}

func (commands githubCommands) deleteRelease(executionContext context.Context, parameters deleteReleaseParameters) (Result, error) {
	arguments := []string{releaseCommandConstant, commandDeleteConstant, parameters.Tag, repositoryFlagConstant, parameters.slug(), confirmFlagConstant}
	arguments = appendSwitch(arguments, cleanupTagFlagConstant, parameters.DeleteTag)
	if _, executionError := commands.runVerbatim(executionContext, parameters.Account, arguments...); executionError != nil {
		return Result{}, executionError
	}
	return TextResult(fmt.Sprintf(releaseDeletedTemplate, parameters.Tag)), nil
}

func (commands githubCommands) listReleaseAssets(executionContext context.Context, parameters ReleaseParameters) (Result, error) {
	return commands.runStructured(executionContext, parameters.Account,
		releaseCommandConstant, commandViewConstant, parameters.Tag, repositoryFlagConstant, parameters.slug(),
		jsonFieldsFlagConstant, releaseAssetsFieldConstant)
}

func (commands githubCommands) downloadReleaseAsset(executionContext context.Context, parameters downloadReleaseAssetParameters) (Result, error) {
	arguments := []string{releaseCommandConstant, commandDownloadConstant, parameters.Tag, repositoryFlagConstant, parameters.slug()}
	arguments = appendAssignedFlag(arguments, patternFlagConstant, parameters.Pattern)
	arguments = appendAssignedFlag(arguments, directoryFlagConstant, parameters.Directory)
	return commands.runText(executionContext, parameters.Account, fmt.Sprintf(releaseAssetsDownloadedTemplate, parameters.Tag), arguments...)
}
