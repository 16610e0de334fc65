package operations

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/temirov/multigh/internal/githubcli"
)

const (
	listCollaboratorsOperationName  = "list_collaborators"
	addCollaboratorOperationName    = "add_collaborator"
	removeCollaboratorOperationName = "remove_collaborator"
	listTeamsOperationName          = "list_teams"
	getTeamMembersOperationName     = "get_team_members"
	collaboratorsEndpointTemplate   = "repos/%s/%s/collaborators"
	collaboratorEndpointTemplate    = "repos/%s/%s/collaborators/%s"
	teamsEndpointTemplate           = "orgs/%s/teams"
	teamMembersEndpointTemplate     = "orgs/%s/teams/%s/members"
	collaboratorAddedTemplate       = "Collaborator '%s' added to %s"
	collaboratorRemovedTemplate     = "Collaborator '%s' removed from %s"
	affiliationParameterName        = "affiliation"
	usernameParameterName           = "username"
	permissionParameterName         = "permission"
	teamParameterName               = "team"
	roleParameterName               = "role"
)

var (
	collaboratorAffiliations = []string{"outside", "direct", "all"}
	collaboratorPermissions  = []string{"pull", "push", "admin", "maintain", "triage"}
	teamMemberRoles          = []string{"member", "maintainer", "all"}
)

type listCollaboratorsParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Affiliation          *string `mapstructure:"affiliation"`
}

func (parameters listCollaboratorsParameters) validate() error {
	return validateOptionalChoice(affiliationParameterName, parameters.Affiliation, collaboratorAffiliations)
}

// CollaboratorParameters identifies a collaborator of a repository.
type CollaboratorParameters struct {
	RepositoryParameters `mapstructure:",squash"`
	Username             string `mapstructure:"username"`
}

type addCollaboratorParameters struct {
	CollaboratorParameters `mapstructure:",squash"`
	Permission             *string `mapstructure:"permission"`
}

func (parameters addCollaboratorParameters) validate() error {
	return validateOptionalChoice(permissionParameterName, parameters.Permission, collaboratorPermissions)
}

type listTeamsParameters struct {
	AccountParameters `mapstructure:",squash"`
	Organization      string `mapstructure:"org"`
	Limit             *int   `mapstructure:"limit"`
}

func (parameters listTeamsParameters) validate() error {
	return validateOptionalPositive(limitParameterName, parameters.Limit)
}

type getTeamMembersParameters struct {
	AccountParameters `mapstructure:",squash"`
	Organization      string  `mapstructure:"org"`
	Team              string  `mapstructure:"team"`
	Role              *string `mapstructure:"role"`
}

func (parameters getTeamMembersParameters) validate() error {
	return validateOptionalChoice(roleParameterName, parameters.Role, teamMemberRoles)
}

func (commands githubCommands) collaboratorOperations() []Operation {
	return []Operation{
		newOperation(newRepositoryTool(listCollaboratorsOperationName, "List collaborators of a repository.",
			optionalChoice(affiliationParameterName, "Filter by affiliation: outside, direct, all (default: all)", collaboratorAffiliations),
		), commands.listCollaborators),
		newOperation(newRepositoryTool(addCollaboratorOperationName, "Add a collaborator to a repository or update their permission.",
			requiredString(usernameParameterName, "GitHub username to add as collaborator"),
			optionalChoice(permissionParameterName, "Permission level: pull, push, admin, maintain, triage (default: push)", collaboratorPermissions),
		), commands.addCollaborator),
		newOperation(newRepositoryTool(removeCollaboratorOperationName, "Remove a collaborator from a repository.",
			requiredString(usernameParameterName, "GitHub username to remove from collaborators"),
		), commands.removeCollaborator),
		newOperation(newAccountTool(listTeamsOperationName, "List teams of an organization.",
			requiredString(organizationParameterName, "Organization name"),
			optionalNumber(limitParameterName, "Maximum number of teams to return (default: 30)"),
		), commands.listTeams),
		newOperation(newAccountTool(getTeamMembersOperationName, "List members of an organization team.",
			requiredString(organizationParameterName, "Organization name"),
			requiredString(teamParameterName, "Team slug (the URL-friendly name of the team)"),
			optionalChoice(roleParameterName, "Filter by role: member, maintainer, all (default: all)", teamMemberRoles),
		), commands.getTeamMembers),
	}
}

func (commands githubCommands) listCollaborators(executionContext context.Context, parameters listCollaboratorsParameters) (Result, error) {
	queryValues := url.Values{}
	if isProvided(parameters.Affiliation) {
		queryValues.Set(affiliationParameterName, *parameters.Affiliation)
	}
	endpoint := withQuery(fmt.Sprintf(collaboratorsEndpointTemplate, parameters.Owner, parameters.Repository), queryValues)
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{Endpoint: endpoint})
}

// addCollaborator reports a confirmation when GitHub answers without a body, as it does for existing collaborators.
func (commands githubCommands) addCollaborator(executionContext context.Context, parameters addCollaboratorParameters) (Result, error) {
	request := githubcli.APIRequest{
		Endpoint: fmt.Sprintf(collaboratorEndpointTemplate, parameters.Owner, parameters.Repository, url.PathEscape(parameters.Username)),
		Method:   httpMethodPut,
	}
	if isProvided(parameters.Permission) {
		request.Fields = []githubcli.APIField{{Key: permissionParameterName, Value: *parameters.Permission}}
	}

	payload, executionError := commands.callAPI(executionContext, parameters.Account, request)
	if executionError != nil {
		return Result{}, executionError
	}
	if bytes.Equal(payload, githubcli.NullStructuredResult) {
		return TextResult(fmt.Sprintf(collaboratorAddedTemplate, parameters.Username, parameters.slug())), nil
	}
	return StructuredResult(payload), nil
}

func (commands githubCommands) removeCollaborator(executionContext context.Context, parameters CollaboratorParameters) (Result, error) {
	return commands.callAPIConfirmed(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: fmt.Sprintf(collaboratorEndpointTemplate, parameters.Owner, parameters.Repository, url.PathEscape(parameters.Username)),
		Method:   httpMethodDelete,
	}, fmt.Sprintf(collaboratorRemovedTemplate, parameters.Username, parameters.slug()))
}

func (commands githubCommands) listTeams(executionContext context.Context, parameters listTeamsParameters) (Result, error) {
	queryValues := url.Values{}
	if parameters.Limit != nil {
		queryValues.Set(perPageQueryParameter, strconv.Itoa(*parameters.Limit))
	}
	endpoint := withQuery(fmt.Sprintf(teamsEndpointTemplate, parameters.Organization), queryValues)
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{Endpoint: endpoint})
}

func (commands githubCommands) getTeamMembers(executionContext context.Context, parameters getTeamMembersParameters) (Result, error) {
	queryValues := url.Values{}
	if isProvided(parameters.Role) {
		queryValues.Set(roleParameterName, *parameters.Role)
	}
	endpoint := withQuery(fmt.Sprintf(teamMembersEndpointTemplate, parameters.Organization, url.PathEscape(parameters.Team)), queryValues)
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{Endpoint: endpoint})
}
