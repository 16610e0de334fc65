package operations_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/temirov/multigh/internal/operations"
)

func echoHandler(text string) operations.Handler {
	return func(context.Context, map[string]any) (operations.Result, error) {
		return operations.TextResult(text), nil
	}
}

func TestRegistryRegistration(testInstance *testing.T) {
	testCases := []struct {
		name          string
		operations    []operations.Operation
		expectedError error
	}{
		{
			name: "duplicate_name",
			operations: []operations.Operation{
				{Tool: mcp.NewTool("get_me"), Handler: echoHandler("first")},
				{Tool: mcp.NewTool("get_me"), Handler: echoHandler("second")},
			},
			expectedError: operations.ErrDuplicateOperation,
		},
		{
			name:          "empty_name",
			operations:    []operations.Operation{{Tool: mcp.NewTool("  "), Handler: echoHandler("x")}},
			expectedError: operations.ErrEmptyOperationName,
		},
		{
			name:          "missing_handler",
			operations:    []operations.Operation{{Tool: mcp.NewTool("get_me")}},
			expectedError: operations.ErrMissingHandler,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			registry := operations.NewRegistry()
			var registrationError error
			for _, operation := range testCase.operations {
				registrationError = registry.Register(operation)
			}
			require.ErrorIs(testInstance, registrationError, testCase.expectedError)
		})
	}
}

func TestRegistryPreservesOrderAndInvokes(testInstance *testing.T) {
	registry := operations.NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(testInstance, registry.Register(operations.Operation{Tool: mcp.NewTool(name), Handler: echoHandler(name)}))
	}

	require.Equal(testInstance, []string{"zeta", "alpha", "mid"}, registry.Names())
	require.Len(testInstance, registry.Operations(), 3)

	result, invokeError := registry.Invoke(context.Background(), "alpha", nil)
	require.NoError(testInstance, invokeError)
	require.Equal(testInstance, operations.ResultKindText, result.Kind)
	require.Equal(testInstance, "alpha", result.Render())

	_, unknownError := registry.Invoke(context.Background(), "missing", map[string]any{})
	require.ErrorIs(testInstance, unknownError, operations.ErrUnknownOperation)
	require.ErrorContains(testInstance, unknownError, "missing")
}

func TestResultRender(testInstance *testing.T) {
	require.Equal(testInstance, `{"a":1}`, operations.StructuredResult([]byte(`{"a":1}`)).Render())
	require.Equal(testInstance, "plain", operations.TextResult("plain").Render())
}
