package cli

import (
	"bufio"

	"github.com/spf13/cobra"

	"github.com/temirov/multigh/internal/mcpserver"
	"github.com/temirov/multigh/internal/operations"
	"github.com/temirov/multigh/internal/utils"
)

const (
	serveCommandUseConstant   = "serve"
	serveCommandShortConstant = "Run the MCP server on standard input and output"
	serveCommandLongConstant  = "serve speaks the Model Context Protocol over stdio. Standard output carries only protocol messages; logs go to standard error or the configured log file."
)

// ServeCommandBuilder assembles the serve command.
type ServeCommandBuilder struct {
	RuntimeProvider commandRuntimeProvider
}

// Build constructs the serve command.
func (builder ServeCommandBuilder) Build() (*cobra.Command, error) {
	if builder.RuntimeProvider == nil {
		return nil, ErrRuntimeNotConfigured
	}
	return &cobra.Command{
		Use:   serveCommandUseConstant,
		Short: serveCommandShortConstant,
		Long:  serveCommandLongConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder ServeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	runtime := builder.RuntimeProvider()

	gateway, gatewayError := runtime.gateway()
	if gatewayError != nil {
		return gatewayError
	}

	registry, catalogError := operations.NewCatalog(gateway)
	if catalogError != nil {
		return catalogError
	}

	server, serverError := mcpserver.NewServer(registry, runtime.logger, runtime.version(command.Context()))
	if serverError != nil {
		return serverError
	}

	return server.Serve(command.Context(), runtime.serverInput, utils.NewFlushingWriter(bufio.NewWriter(runtime.serverOutput)))
}
