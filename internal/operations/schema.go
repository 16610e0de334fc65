package operations

import "github.com/mark3labs/mcp-go/mcp"

const (
	accountParameterName        = "account"
	ownerParameterName          = "owner"
	repositoryParameterName     = "repo"
	limitParameterName          = "limit"
	accountParameterDescription = "The account to use (e.g., 'home', 'work'). Uses default if not specified."
	ownerParameterDescription   = "Repository owner (user or organization)"
	repositoryParameterDescrip  = "Repository name"
)

// AccountParameters carries the optional account selector shared by every operation.
type AccountParameters struct {
	Account *string `mapstructure:"account"`
}

// RepositoryParameters identifies the repository a repository-scoped operation acts on.
type RepositoryParameters struct {
	AccountParameters `mapstructure:",squash"`
	Owner             string `mapstructure:"owner"`
	Repository        string `mapstructure:"repo"`
}

func (parameters RepositoryParameters) slug() string {
	return repositorySlug(parameters.Owner, parameters.Repository)
}

func newAccountTool(name string, description string, options ...mcp.ToolOption) mcp.Tool {
	toolOptions := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString(accountParameterName, mcp.Description(accountParameterDescription)),
	}
	return mcp.NewTool(name, append(toolOptions, options...)...)
}

func newRepositoryTool(name string, description string, options ...mcp.ToolOption) mcp.Tool {
	repositoryOptions := []mcp.ToolOption{
		mcp.WithString(ownerParameterName, mcp.Required(), mcp.Description(ownerParameterDescription)),
		mcp.WithString(repositoryParameterName, mcp.Required(), mcp.Description(repositoryParameterDescrip)),
	}
	return newAccountTool(name, description, append(repositoryOptions, options...)...)
}

func requiredString(name string, description string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Required(), mcp.Description(description))
}

func optionalString(name string, description string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Description(description))
}

func optionalChoice(name string, description string, allowedValues []string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Description(description), mcp.Enum(allowedValues...))
}

func requiredNumber(name string, description string) mcp.ToolOption {
	return mcp.WithNumber(name, mcp.Required(), mcp.Description(description))
}

func optionalNumber(name string, description string) mcp.ToolOption {
	return mcp.WithNumber(name, mcp.Description(description))
}

func optionalBoolean(name string, description string) mcp.ToolOption {
	return mcp.WithBoolean(name, mcp.Description(description))
}
