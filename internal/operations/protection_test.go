package operations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/multigh/internal/credentials"
	"github.com/temirov/multigh/internal/githubcli"
	"github.com/temirov/multigh/internal/operations"
)

func TestSetBranchProtectionSendsFullBody(testInstance *testing.T) {
	testCases := []struct {
		name         string
		arguments    map[string]any
		expectedBody string
	}{
		{
			name:         "minimal",
			arguments:    map[string]any{"owner": "octo", "repo": "demo", "branch": "main"},
			expectedBody: `{"required_status_checks":null,"enforce_admins":false,"required_pull_request_reviews":null,"restrictions":null}`,
		},
		{
			name: "full",
			arguments: map[string]any{
				"owner": "octo", "repo": "demo", "branch": "main",
				"required_status_checks":        map[string]any{"strict": true, "contexts": []any{"ci/build", "ci/test"}},
				"enforce_admins":                true,
				"required_pull_request_reviews": map[string]any{"required_approving_review_count": float64(2), "require_code_owner_reviews": true},
				"required_linear_history":       true,
				"allow_force_pushes":            false,
				"allow_deletions":               false,
			},
			expectedBody: `{
				"required_status_checks":{"strict":true,"contexts":["ci/build","ci/test"]},
				"enforce_admins":true,
				"required_pull_request_reviews":{"required_approving_review_count":2,"dismiss_stale_reviews":false,"require_code_owner_reviews":true},
				"restrictions":null,
				"required_linear_history":true,
				"allow_force_pushes":false,
				"allow_deletions":false
			}`,
		},
		{
			name: "defaults_inside_sections",
			arguments: map[string]any{
				"owner": "octo", "repo": "demo", "branch": "main",
				"required_status_checks":        map[string]any{},
				"required_pull_request_reviews": map[string]any{},
			},
			expectedBody: `{
				"required_status_checks":{"strict":false,"contexts":[]},
				"enforce_admins":false,
				"required_pull_request_reviews":{"required_approving_review_count":1,"dismiss_stale_reviews":false,"require_code_owner_reviews":false},
				"restrictions":null
			}`,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			gateway := &recordingGateway{responses: []gatewayResponse{structuredResponse(`{"url":"https://api.github.com/repos/octo/demo/branches/main/protection"}`)}}
			registry, catalogError := operations.NewCatalog(gateway)
			require.NoError(testInstance, catalogError)

			result, invokeError := registry.Invoke(context.Background(), "set_branch_protection", testCase.arguments)
			require.NoError(testInstance, invokeError)
			require.Equal(testInstance, operations.ResultKindStructured, result.Kind)

			require.Len(testInstance, gateway.specs, 1)
			spec := gateway.specs[0]
			require.Equal(testInstance, []string{
				"api", "-X", "PUT", "repos/octo/demo/branches/main/protection",
				"-H", "Accept: application/vnd.github+json", "--input", "-",
			}, spec.Arguments)
			require.JSONEq(testInstance, testCase.expectedBody, string(spec.StandardInput))
		})
	}
}

func TestSetBranchProtectionDegradesToolFailures(testInstance *testing.T) {
	gateway := &recordingGateway{responses: []gatewayResponse{
		failureResponse(githubcli.ExternalToolError{Message: "HTTP 403: Upgrade to GitHub Pro", ExitCode: 1}),
	}}
	registry, catalogError := operations.NewCatalog(gateway)
	require.NoError(testInstance, catalogError)

	result, invokeError := registry.Invoke(context.Background(), "set_branch_protection", map[string]any{"owner": "octo", "repo": "demo", "branch": "main"})
	require.NoError(testInstance, invokeError)
	require.Equal(testInstance, operations.ResultKindText, result.Kind)
	require.Equal(testInstance,
		"Branch protection update attempted. Note: Full protection settings may require direct API access. Error details: gh CLI error: HTTP 403: Upgrade to GitHub Pro",
		result.Text)
}

func TestSetBranchProtectionPropagatesCredentialFailures(testInstance *testing.T) {
	credentialFailure := credentials.TokenNotFoundError{Location: "/home/user/.config/github/tokens/work"}
	gateway := &recordingGateway{responses: []gatewayResponse{failureResponse(credentialFailure)}}
	registry, catalogError := operations.NewCatalog(gateway)
	require.NoError(testInstance, catalogError)

	_, invokeError := registry.Invoke(context.Background(), "set_branch_protection", map[string]any{"owner": "octo", "repo": "demo", "branch": "main"})
	require.Equal(testInstance, credentialFailure, invokeError)
}

func TestDeleteBranchDoesNotDegradeToolFailures(testInstance *testing.T) {
	toolFailure := githubcli.ExternalToolError{Message: "HTTP 422: Reference does not exist", ExitCode: 1}
	gateway := &recordingGateway{responses: []gatewayResponse{failureResponse(toolFailure)}}
	registry, catalogError := operations.NewCatalog(gateway)
	require.NoError(testInstance, catalogError)

	_, invokeError := registry.Invoke(context.Background(), "delete_branch", map[string]any{"owner": "octo", "repo": "demo", "branch": "gone"})
	require.Equal(testInstance, toolFailure, invokeError)
}
