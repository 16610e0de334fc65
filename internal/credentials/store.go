package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/temirov/multigh/internal/config"
	pathutils "github.com/temirov/multigh/internal/utils/path"
)

const (
	ageIdentityReadTemplateConstant = "unable to read age identity %s: %w"
)

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// KeyringReader reads a secret stored under service and user in the OS keyring.
type KeyringReader func(service string, user string) (string, error)

// StoreDependencies overrides the system facilities used by Store. Nil fields fall back to the operating system.
type StoreDependencies struct {
	EnvironmentLookup EnvironmentLookup
	FileReader        FileReader
	KeyringReader     KeyringReader
	HomeExpander      *pathutils.HomeExpander
}

// Store maps account names to tokens using an immutable configuration snapshot.
type Store struct {
	configuration     config.Configuration
	environmentLookup EnvironmentLookup
	fileReader        FileReader
	keyringReader     KeyringReader
	homeExpander      *pathutils.HomeExpander
}

// NewStore constructs a Store for the provided configuration.
func NewStore(configuration config.Configuration, dependencies StoreDependencies) *Store {
	store := &Store{
		configuration:     configuration,
		environmentLookup: dependencies.EnvironmentLookup,
		fileReader:        dependencies.FileReader,
		keyringReader:     dependencies.KeyringReader,
		homeExpander:      dependencies.HomeExpander,
	}
	if store.environmentLookup == nil {
		store.environmentLookup = os.LookupEnv
	}
	if store.fileReader == nil {
		store.fileReader = os.ReadFile
	}
	if store.keyringReader == nil {
		store.keyringReader = keyring.Get
	}
	if store.homeExpander == nil {
		store.homeExpander = pathutils.NewHomeExpander()
	}
	return store
}

// DefaultAccountName returns the account used when a call names none.
func (store *Store) DefaultAccountName() string {
	return store.configuration.DefaultAccount
}

// AccountNames lists configured accounts in lexical order.
func (store *Store) AccountNames() []string {
	return store.configuration.AccountNames()
}

// TokenSource returns the parsed token locator of an account without reading the secret.
func (store *Store) TokenSource(accountName string) (TokenSource, error) {
	source, _, sourceError := store.lookupAccount(accountName)
	return source, sourceError
}

// Resolve reads the token of accountName, or of the default account when accountName is empty.
// Unknown names never fall back to the default account.
func (store *Store) Resolve(resolutionContext context.Context, accountName string) (Credential, error) {
	if resolutionContext != nil {
		if contextError := resolutionContext.Err(); contextError != nil {
			return Credential{}, contextError
		}
	}

	source, accountConfiguration, sourceError := store.lookupAccount(accountName)
	if sourceError != nil {
		return Credential{}, sourceError
	}

	var rawToken string
	var readError error
	switch source.Type {
	case TokenSourceTypeEnvironment:
		rawToken, readError = store.readEnvironmentToken(source)
	case TokenSourceTypeKeyring:
		rawToken, readError = store.readKeyringToken(source)
	default:
		rawToken, readError = store.readFileToken(source, accountConfiguration.AgeIdentity)
	}
	if readError != nil {
		return Credential{}, readError
	}

	trimmedToken := strings.TrimSpace(rawToken)
	if len(trimmedToken) == 0 {
		return Credential{}, TokenReadError{Location: source.Location(), Cause: ErrEmptyToken}
	}
	return NewCredential(trimmedToken), nil
}

func (store *Store) lookupAccount(accountName string) (TokenSource, config.AccountConfiguration, error) {
	effectiveAccountName := accountName
	if len(effectiveAccountName) == 0 {
		effectiveAccountName = store.configuration.DefaultAccount
	}

	accountConfiguration, accountExists := store.configuration.Account(effectiveAccountName)
	if !accountExists {
		return TokenSource{}, config.AccountConfiguration{}, AccountNotFoundError{AccountName: effectiveAccountName}
	}

	source, parseError := ParseTokenSource(accountConfiguration.TokenPath)
	if parseError != nil {
		return TokenSource{}, config.AccountConfiguration{}, TokenReadError{Location: accountConfiguration.TokenPath, Cause: parseError}
	}
	if source.Type == TokenSourceTypeFile {
		source.Reference = store.homeExpander.Expand(source.Reference)
	}
	return source, accountConfiguration, nil
}

func (store *Store) readFileToken(source TokenSource, ageIdentityPath string) (string, error) {
	contents, readError := store.fileReader(source.Reference)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return "", TokenNotFoundError{Location: source.Location()}
		}
		return "", TokenReadError{Location: source.Location(), Cause: readError}
	}

	trimmedIdentityPath := strings.TrimSpace(ageIdentityPath)
	if len(trimmedIdentityPath) == 0 {
		return string(contents), nil
	}

	expandedIdentityPath := store.homeExpander.Expand(trimmedIdentityPath)
	identityContents, identityError := store.fileReader(expandedIdentityPath)
	if identityError != nil {
		return "", TokenReadError{Location: source.Location(), Cause: fmt.Errorf(ageIdentityReadTemplateConstant, expandedIdentityPath, identityError)}
	}

	plaintext, decryptError := decryptAgeToken(contents, expandedIdentityPath, identityContents)
	if decryptError != nil {
		return "", TokenReadError{Location: source.Location(), Cause: decryptError}
	}
	return string(plaintext), nil
}

func (store *Store) readEnvironmentToken(source TokenSource) (string, error) {
	value, found := store.environmentLookup(source.Reference)
	if !found {
		return "", TokenNotFoundError{Location: source.Location()}
	}
	return value, nil
}

func (store *Store) readKeyringToken(source TokenSource) (string, error) {
	service, user := source.KeyringEntry()
	secret, keyringError := store.keyringReader(service, user)
	if keyringError != nil {
		if errors.Is(keyringError, keyring.ErrNotFound) {
			return "", TokenNotFoundError{Location: source.Location()}
		}
		return "", TokenReadError{Location: source.Location(), Cause: keyringError}
	}
	return secret, nil
}
