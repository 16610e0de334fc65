package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/temirov/multigh/internal/operations"
)

const (
	serverNameConstant                = "multigh"
	serverInstructionsConstant        = "GitHub MCP server with multi-account support. Use the 'account' parameter to specify which GitHub account to use (e.g., 'home' or 'work'). If not specified, the default account will be used."
	accountArgumentNameConstant       = "account"
	defaultAccountLabelConstant       = "default"
	toolCallStartedMessageConstant    = "tool call started"
	toolCallCompletedMessageConstant  = "tool call completed"
	toolCallFailedMessageConstant     = "tool call failed"
	serverStartedMessageConstant      = "MCP server listening on stdio"
	serverStoppedMessageConstant      = "MCP server stopped"
	toolFieldNameConstant             = "tool"
	accountFieldNameConstant          = "account"
	elapsedFieldNameConstant          = "elapsed"
	toolCountFieldNameConstant        = "tool_count"
	resultKindFieldNameConstant       = "result_kind"
	structuredResultKindLabelConstant = "structured"
	textResultKindLabelConstant       = "text"
)

// ErrRegistryNotConfigured indicates the server was constructed without an operations registry.
var ErrRegistryNotConfigured = errors.New("operations registry not configured")

// Server adapts an operations registry to an mcp-go server.
type Server struct {
	logger         *zap.Logger
	registry       *operations.Registry
	protocolServer *server.MCPServer
}

// NewServer registers one tool per operation in registry.
func NewServer(registry *operations.Registry, logger *zap.Logger, version string) (*Server, error) {
	if registry == nil {
		return nil, ErrRegistryNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	protocolServer := server.NewMCPServer(
		serverNameConstant,
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions(serverInstructionsConstant),
		server.WithRecovery(),
	)

	adapter := &Server{
		logger:         logger,
		registry:       registry,
		protocolServer: protocolServer,
	}
	for _, operation := range registry.Operations() {
		protocolServer.AddTool(operation.Tool, adapter.toolHandler(operation.Name()))
	}
	return adapter, nil
}

// Instructions returns the capability description advertised during initialization.
func (adapter *Server) Instructions() string {
	return serverInstructionsConstant
}

// Serve speaks the stdio transport on input and output until input closes or the context ends.
func (adapter *Server) Serve(serveContext context.Context, input io.Reader, output io.Writer) error {
	stdioServer := server.NewStdioServer(adapter.protocolServer)
	stdioServer.SetErrorLogger(zap.NewStdLog(adapter.logger))

	adapter.logger.Info(serverStartedMessageConstant, zap.Int(toolCountFieldNameConstant, len(adapter.registry.Names())))
	serveError := stdioServer.Listen(serveContext, input, output)
	adapter.logger.Info(serverStoppedMessageConstant)

	if errors.Is(serveError, context.Canceled) {
		return nil
	}
	return serveError
}

// HandleMessage processes a single JSON-RPC message without a transport.
func (adapter *Server) HandleMessage(messageContext context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return adapter.protocolServer.HandleMessage(messageContext, message)
}

// toolHandler reports invalid parameters as an error tool result the caller can correct.
// Credential and gh failures stay JSON-RPC errors.
func (adapter *Server) toolHandler(operationName string) server.ToolHandlerFunc {
	return func(callContext context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		arguments := request.GetArguments()
		callFields := []zap.Field{
			zap.String(toolFieldNameConstant, operationName),
			zap.String(accountFieldNameConstant, requestedAccount(arguments)),
		}
		adapter.logger.Debug(toolCallStartedMessageConstant, callFields...)

		startTime := time.Now()
		result, invokeError := adapter.registry.Invoke(callContext, operationName, arguments)
		callFields = append(callFields, zap.Duration(elapsedFieldNameConstant, time.Since(startTime)))
		if invokeError != nil {
			adapter.logger.Warn(toolCallFailedMessageConstant, append(callFields, zap.Error(invokeError))...)
			var validationError operations.ValidationError
			if errors.As(invokeError, &validationError) {
				return mcp.NewToolResultError(validationError.Error()), nil
			}
			return nil, invokeError
		}

		adapter.logger.Info(toolCallCompletedMessageConstant, append(callFields, zap.String(resultKindFieldNameConstant, resultKindLabel(result.Kind)))...)
		return mcp.NewToolResultText(result.Render()), nil
	}
}

func requestedAccount(arguments map[string]any) string {
	if accountName, isText := arguments[accountArgumentNameConstant].(string); isText && len(accountName) > 0 {
		return accountName
	}
	return defaultAccountLabelConstant
}

func resultKindLabel(kind operations.ResultKind) string {
	if kind == operations.ResultKindText {
		return textResultKindLabelConstant
	}
	return structuredResultKindLabelConstant
}
