package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/temirov/multigh/internal/utils"
)

const (
	applicationNameConstant                = "multigh"
	configurationTypeConstant              = "yaml"
	environmentPrefixConstant              = "MULTIGH"
	currentDirectorySearchPathConstant     = "."
	defaultAccountKeyConstant              = "default_account"
	logLevelKeyConstant                    = "log_level"
	logFormatKeyConstant                   = "log_format"
	logFileKeyConstant                     = "log_file"
	commandTimeoutKeyConstant              = "command_timeout"
	loadFailureMessageConstant             = "unable to load configuration"
	readFailureTemplateConstant            = "unable to read %s"
	accountsDecodeFailureTemplateConstant  = "unable to decode accounts in %s"
	embeddedAccountsDecodeMessageConstant  = "unable to decode embedded accounts"
	missingAccountsMessageConstant         = "no accounts configured"
	missingDefaultAccountMessageConstant   = "default_account is required"
	unknownDefaultAccountTemplateConstant  = "default account %q is not configured"
	emptyAccountNameMessageConstant        = "account names must not be empty"
	missingTokenPathTemplateConstant       = "account %q has no token_path"
	negativeCommandTimeoutTemplateConstant = "command_timeout must not be negative: %s"
	embeddedConfigurationSourceConstant    = "embedded defaults"
)

//go:embed default_configuration.yaml
var embeddedDefaultConfigurationContent []byte

// AccountConfiguration names the token locator of a single account.
type AccountConfiguration struct {
	TokenPath   string `yaml:"token_path"`
	AgeIdentity string `yaml:"age_identity"`
}

// Configuration is the validated application configuration. It is loaded once and passed by value.
type Configuration struct {
	DefaultAccount string        `mapstructure:"default_account"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	LogFile        string        `mapstructure:"log_file"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`

	accounts   map[string]AccountConfiguration
	sourcePath string
}

type accountsDocument struct {
	Accounts map[string]AccountConfiguration `yaml:"accounts"`
}

// EmbeddedDefaultConfiguration returns a copy of the built-in configuration document.
func EmbeddedDefaultConfiguration() []byte {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent
}

// DefaultSearchPaths lists the directories searched for multigh.yml when no explicit file is provided.
func DefaultSearchPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, applicationNameConstant),
		currentDirectorySearchPathConstant,
	}
}

// Loader reads the configuration document from an explicit path, the search paths, or the embedded defaults.
type Loader struct {
	configurationLoader *utils.ConfigurationLoader
}

// NewLoader constructs a Loader consulting searchPaths in order.
func NewLoader(searchPaths []string) *Loader {
	configurationLoader := utils.NewConfigurationLoader(applicationNameConstant, configurationTypeConstant, environmentPrefixConstant, searchPaths)
	configurationLoader.SetEmbeddedConfiguration(embeddedDefaultConfigurationContent, configurationTypeConstant)
	return &Loader{configurationLoader: configurationLoader}
}

// Load resolves, decodes, and validates the configuration.
func (loader *Loader) Load(explicitConfigurationPath string) (Configuration, error) {
	defaultValues := map[string]any{
		defaultAccountKeyConstant: "",
		logLevelKeyConstant:       string(utils.LogLevelInfo),
		logFormatKeyConstant:      string(utils.LogFormatStructured),
		logFileKeyConstant:        "",
		commandTimeoutKeyConstant: "0s",
	}

	var configuration Configuration
	loadedConfiguration, loadError := loader.configurationLoader.LoadConfiguration(explicitConfigurationPath, defaultValues, &configuration)
	if loadError != nil {
		return Configuration{}, ConfigurationError{Message: loadFailureMessageConstant, Cause: loadError}
	}

	accounts, accountsError := decodeAccounts(loadedConfiguration.ConfigFileUsed)
	if accountsError != nil {
		return Configuration{}, accountsError
	}

	configuration.accounts = accounts
	configuration.sourcePath = loadedConfiguration.ConfigFileUsed
	configuration.DefaultAccount = strings.TrimSpace(configuration.DefaultAccount)

	if validationError := configuration.validate(); validationError != nil {
		return Configuration{}, validationError
	}
	return configuration, nil
}

// Account returns the configuration of the named account. Names are case-sensitive.
func (configuration Configuration) Account(accountName string) (AccountConfiguration, bool) {
	accountConfiguration, accountExists := configuration.accounts[accountName]
	return accountConfiguration, accountExists
}

// AccountNames lists configured account names in lexical order.
func (configuration Configuration) AccountNames() []string {
	accountNames := make([]string, 0, len(configuration.accounts))
	for accountName := range configuration.accounts {
		accountNames = append(accountNames, accountName)
	}
	sort.Strings(accountNames)
	return accountNames
}

// Source describes where the configuration came from.
func (configuration Configuration) Source() string {
	if len(configuration.sourcePath) == 0 {
		return embeddedConfigurationSourceConstant
	}
	return configuration.sourcePath
}

// WithAccounts returns a copy of configuration using the provided accounts.
func (configuration Configuration) WithAccounts(accounts map[string]AccountConfiguration) Configuration {
	duplicatedAccounts := make(map[string]AccountConfiguration, len(accounts))
	for accountName, accountConfiguration := range accounts {
		duplicatedAccounts[accountName] = accountConfiguration
	}
	configuration.accounts = duplicatedAccounts
	return configuration
}

func (configuration Configuration) validate() error {
	if len(configuration.accounts) == 0 {
		return ConfigurationError{Message: missingAccountsMessageConstant}
	}
	if len(configuration.DefaultAccount) == 0 {
		return ConfigurationError{Message: missingDefaultAccountMessageConstant}
	}
	if _, defaultExists := configuration.accounts[configuration.DefaultAccount]; !defaultExists {
		return ConfigurationError{Message: fmt.Sprintf(unknownDefaultAccountTemplateConstant, configuration.DefaultAccount)}
	}
	for _, accountName := range configuration.AccountNames() {
		if len(strings.TrimSpace(accountName)) == 0 {
			return ConfigurationError{Message: emptyAccountNameMessageConstant}
		}
		if len(strings.TrimSpace(configuration.accounts[accountName].TokenPath)) == 0 {
			return ConfigurationError{Message: fmt.Sprintf(missingTokenPathTemplateConstant, accountName)}
		}
	}
	if configuration.CommandTimeout < 0 {
		return ConfigurationError{Message: fmt.Sprintf(negativeCommandTimeoutTemplateConstant, configuration.CommandTimeout)}
	}
	return nil
}

func decodeAccounts(configurationFilePath string) (map[string]AccountConfiguration, error) {
	if len(configurationFilePath) == 0 {
		var document accountsDocument
		if decodeError := yaml.Unmarshal(embeddedDefaultConfigurationContent, &document); decodeError != nil {
			return nil, ConfigurationError{Message: embeddedAccountsDecodeMessageConstant, Cause: decodeError}
		}
		return document.Accounts, nil
	}

	documentContent, readError := os.ReadFile(configurationFilePath)
	if readError != nil {
		return nil, ConfigurationError{Message: fmt.Sprintf(readFailureTemplateConstant, configurationFilePath), Cause: readError}
	}

	var document accountsDocument
	if decodeError := yaml.Unmarshal(documentContent, &document); decodeError != nil {
		return nil, ConfigurationError{Message: fmt.Sprintf(accountsDecodeFailureTemplateConstant, configurationFilePath), Cause: decodeError}
	}
	return document.Accounts, nil
}
