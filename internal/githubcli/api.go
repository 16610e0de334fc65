package githubcli

import "fmt"

const (
	apiSubcommandConstant          = "api"
	methodFlagConstant             = "-X"
	rawFieldFlagConstant           = "-f"
	typedFieldFlagConstant         = "-F"
	headerFlagConstant             = "-H"
	inputFlagConstant              = "--input"
	standardInputReferenceConstant = "-"
	fieldAssignmentTemplate        = "%s=%s"
)

// APIField is a single key/value parameter of a GitHub API request.
// Typed fields use gh's -F flag so booleans, numbers and null keep their JSON type.
type APIField struct {
	Key   string
	Value string
	Typed bool
}

// APIRequest describes a generic "gh api" call.
type APIRequest struct {
	Endpoint string
	// Method is omitted from the arguments when empty, letting gh pick GET or POST.
	Method  string
	Fields  []APIField
	Headers []string
	// Body, when non-nil, is sent as the JSON request body on standard input.
	Body []byte
}

// BuildAPIArguments renders the request as: api, optional method flag, endpoint, field flags, headers, body input.
func BuildAPIArguments(request APIRequest) []string {
	arguments := []string{apiSubcommandConstant}
	if len(request.Method) > 0 {
		arguments = append(arguments, methodFlagConstant, request.Method)
	}
	arguments = append(arguments, request.Endpoint)

	for _, field := range request.Fields {
		fieldFlag := rawFieldFlagConstant
		if field.Typed {
			fieldFlag = typedFieldFlagConstant
		}
		arguments = append(arguments, fieldFlag, fmt.Sprintf(fieldAssignmentTemplate, field.Key, field.Value))
	}
	for _, header := range request.Headers {
		arguments = append(arguments, headerFlagConstant, header)
	}
	if request.Body != nil {
		arguments = append(arguments, inputFlagConstant, standardInputReferenceConstant)
	}
	return arguments
}

// NewAPICommandSpec builds a structured CommandSpec for the request on behalf of account.
func NewAPICommandSpec(account string, request APIRequest) CommandSpec {
	return CommandSpec{
		Arguments:     BuildAPIArguments(request),
		Account:       account,
		OutputMode:    OutputModeStructured,
		StandardInput: request.Body,
	}
}
