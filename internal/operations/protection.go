package operations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/temirov/multigh/internal/githubcli"
)

const (
	getBranchProtectionOperationName    = "get_branch_protection"
	setBranchProtectionOperationName    = "set_branch_protection"
	deleteBranchProtectionOperationName = "delete_branch_protection"
	getBranchProtectionDescription      = "Get the branch protection rules for a specific branch."
	setBranchProtectionDescription      = "Set branch protection rules for a branch. Includes options for required reviews, status checks, admin enforcement, etc."
	deleteBranchProtectionDescription   = "Remove all branch protection rules from a branch."
	protectionEndpointTemplate          = "repos/%s/%s/branches/%s/protection"
	protectionRemovedTemplate           = "Branch protection removed from '%s'"
	protectionDegradedTemplate          = "Branch protection update attempted. Note: Full protection settings may require direct API access. Error details: %s"
	protectionAcceptHeaderConstant      = "Accept: application/vnd.github+json"
	defaultApprovingReviewCount         = 1
	protectedBranchGetText              = "Branch name to get protection rules for"
	protectedBranchSetText              = "Branch name to set protection rules for"
	protectedBranchDeleteText           = "Branch name to remove protection from"
	statusChecksParameterName           = "required_status_checks"
	enforceAdminsParameterName          = "enforce_admins"
	reviewsParameterName                = "required_pull_request_reviews"
	linearHistoryParameterName          = "required_linear_history"
	forcePushesParameterName            = "allow_force_pushes"
	deletionsParameterName              = "allow_deletions"
	approvingReviewCountParameterName   = "required_approving_review_count"
)

type statusCheckParameters struct {
	Strict   *bool    `mapstructure:"strict"`
	Contexts []string `mapstructure:"contexts"`
}

type reviewRequirementParameters struct {
	RequiredApprovingReviewCount *int  `mapstructure:"required_approving_review_count"`
	DismissStaleReviews          *bool `mapstructure:"dismiss_stale_reviews"`
	RequireCodeOwnerReviews      *bool `mapstructure:"require_code_owner_reviews"`
}

type setBranchProtectionParameters struct {
	BranchParameters           `mapstructure:",squash"`
	RequiredStatusChecks       *statusCheckParameters       `mapstructure:"required_status_checks"`
	EnforceAdmins              *bool                        `mapstructure:"enforce_admins"`
	RequiredPullRequestReviews *reviewRequirementParameters `mapstructure:"required_pull_request_reviews"`
	RequiredLinearHistory      *bool                        `mapstructure:"required_linear_history"`
	AllowForcePushes           *bool                        `mapstructure:"allow_force_pushes"`
	AllowDeletions             *bool                        `mapstructure:"allow_deletions"`
}

func (parameters setBranchProtectionParameters) validate() error {
	if parameters.RequiredPullRequestReviews == nil || parameters.RequiredPullRequestReviews.RequiredApprovingReviewCount == nil {
		return nil
	}
	if *parameters.RequiredPullRequestReviews.RequiredApprovingReviewCount < 0 {
		return ValidationError{FieldName: approvingReviewCountParameterName, Message: "must not be negative"}
	}
	return nil
}

type statusChecksBody struct {
	Strict   bool     `json:"strict"`
	Contexts []string `json:"contexts"`
}

type reviewRequirementsBody struct {
	RequiredApprovingReviewCount int  `json:"required_approving_review_count"`
	DismissStaleReviews          bool `json:"dismiss_stale_reviews"`
	RequireCodeOwnerReviews      bool `json:"require_code_owner_reviews"`
}

// protectionBody mirrors the branch protection update payload; nil pointers render as JSON null.
type protectionBody struct {
	RequiredStatusChecks       *statusChecksBody       `json:"required_status_checks"`
	EnforceAdmins              bool                    `json:"enforce_admins"`
	RequiredPullRequestReviews *reviewRequirementsBody `json:"required_pull_request_reviews"`
	Restrictions               *struct{}               `json:"restrictions"`
	RequiredLinearHistory      *bool                   `json:"required_linear_history,omitempty"`
	AllowForcePushes           *bool                   `json:"allow_force_pushes,omitempty"`
	AllowDeletions             *bool                   `json:"allow_deletions,omitempty"`
}

func (commands githubCommands) protectionOperations() []Operation {
	return []Operation{
		newOperation(newRepositoryTool(getBranchProtectionOperationName, getBranchProtectionDescription,
			requiredString(branchParameterName, protectedBranchGetText),
		), commands.getBranchProtection),
		newOperation(newRepositoryTool(setBranchProtectionOperationName, setBranchProtectionDescription,
			requiredString(branchParameterName, protectedBranchSetText),
			mcp.WithObject(statusChecksParameterName,
				mcp.Description("Require status checks to pass before merging"),
				mcp.Properties(map[string]any{
					"strict":   map[string]any{"type": "boolean", "description": "Require branches to be up to date before merging"},
					"contexts": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "List of status check contexts that must pass"},
				}),
			),
			optionalBoolean(enforceAdminsParameterName, "Enforce all configured restrictions for administrators"),
			mcp.WithObject(reviewsParameterName,
				mcp.Description("Require pull request reviews before merging"),
				mcp.Properties(map[string]any{
					approvingReviewCountParameterName: map[string]any{"type": "number", "description": "Number of required approving reviews"},
					"dismiss_stale_reviews":           map[string]any{"type": "boolean", "description": "Dismiss stale reviews when new commits are pushed"},
					"require_code_owner_reviews":      map[string]any{"type": "boolean", "description": "Require review from code owners"},
				}),
			),
			optionalBoolean(linearHistoryParameterName, "Require linear history (no merge commits)"),
			optionalBoolean(forcePushesParameterName, "Allow force pushes"),
			optionalBoolean(deletionsParameterName, "Allow branch deletions"),
		), commands.setBranchProtection),
		newOperation(newRepositoryTool(deleteBranchProtectionOperationName, deleteBranchProtectionDescription,
			requiredString(branchParameterName, protectedBranchDeleteText),
		), commands.deleteBranchProtection),
	}
}

func (commands githubCommands) getBranchProtection(executionContext context.Context, parameters BranchParameters) (Result, error) {
	return commands.callAPIStructured(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: protectionEndpoint(parameters),
	})
}

// setBranchProtection reports gh failures as a successful note instead of an error.
func (commands githubCommands) setBranchProtection(executionContext context.Context, parameters setBranchProtectionParameters) (Result, error) {
	requestBody, encodeError := json.Marshal(buildProtectionBody(parameters))
	if encodeError != nil {
		return Result{}, encodeError
	}

	payload, updateError := commands.callAPI(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: protectionEndpoint(parameters.BranchParameters),
		Method:   httpMethodPut,
		Headers:  []string{protectionAcceptHeaderConstant},
		Body:     requestBody,
	})
	if updateError != nil {
		var toolError githubcli.ExternalToolError
		if errors.As(updateError, &toolError) {
			return TextResult(fmt.Sprintf(protectionDegradedTemplate, toolError.Error())), nil
		}
		return Result{}, updateError
	}
	return StructuredResult(payload), nil
}

func (commands githubCommands) deleteBranchProtection(executionContext context.Context, parameters BranchParameters) (Result, error) {
	return commands.callAPIConfirmed(executionContext, parameters.Account, githubcli.APIRequest{
		Endpoint: protectionEndpoint(parameters),
		Method:   httpMethodDelete,
	}, fmt.Sprintf(protectionRemovedTemplate, parameters.Branch))
}

func buildProtectionBody(parameters setBranchProtectionParameters) protectionBody {
	body := protectionBody{
		EnforceAdmins:         isEnabled(parameters.EnforceAdmins),
		RequiredLinearHistory: parameters.RequiredLinearHistory,
		AllowForcePushes:      parameters.AllowForcePushes,
		AllowDeletions:        parameters.AllowDeletions,
	}

	if statusChecks := parameters.RequiredStatusChecks; statusChecks != nil {
		contexts := append([]string{}, statusChecks.Contexts...)
		body.RequiredStatusChecks = &statusChecksBody{Strict: isEnabled(statusChecks.Strict), Contexts: contexts}
	}

	if reviews := parameters.RequiredPullRequestReviews; reviews != nil {
		approvingReviewCount := defaultApprovingReviewCount
		if reviews.RequiredApprovingReviewCount != nil {
			approvingReviewCount = *reviews.RequiredApprovingReviewCount
		}
		body.RequiredPullRequestReviews = &reviewRequirementsBody{
			RequiredApprovingReviewCount: approvingReviewCount,
			DismissStaleReviews:          isEnabled(reviews.DismissStaleReviews),
			RequireCodeOwnerReviews:      isEnabled(reviews.RequireCodeOwnerReviews),
		}
	}
	return body
}

func protectionEndpoint(parameters BranchParameters) string {
	return fmt.Sprintf(protectionEndpointTemplate, parameters.Owner, parameters.Repository, escapePathSegments(parameters.Branch))
}
