package operations_test

import (
	"context"
	"encoding/json"

	"github.com/temirov/multigh/internal/githubcli"
)

type gatewayResponse struct {
	outcome githubcli.CommandOutcome
	err     error
}

type recordingGateway struct {
	responses []gatewayResponse
	specs     []githubcli.CommandSpec
}

func (gateway *recordingGateway) Execute(_ context.Context, spec githubcli.CommandSpec) (githubcli.CommandOutcome, error) {
	gateway.specs = append(gateway.specs, spec)
	if len(gateway.responses) == 0 {
		if spec.OutputMode == githubcli.OutputModeRawText {
			return githubcli.CommandOutcome{Mode: githubcli.OutputModeRawText}, nil
		}
		return githubcli.CommandOutcome{Mode: githubcli.OutputModeStructured, Structured: githubcli.NullStructuredResult}, nil
	}
	response := gateway.responses[0]
	gateway.responses = gateway.responses[1:]
	return response.outcome, response.err
}

func structuredResponse(payload string) gatewayResponse {
	return gatewayResponse{outcome: githubcli.CommandOutcome{Mode: githubcli.OutputModeStructured, Structured: json.RawMessage(payload)}}
}

func textResponse(text string) gatewayResponse {
	return gatewayResponse{outcome: githubcli.CommandOutcome{Mode: githubcli.OutputModeRawText, Text: text}}
}

func failureResponse(err error) gatewayResponse {
	return gatewayResponse{err: err}
}
