package credentials_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"filippo.io/age/armor"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/temirov/multigh/internal/config"
	"github.com/temirov/multigh/internal/credentials"
	pathutils "github.com/temirov/multigh/internal/utils/path"
)

const (
	testWorkAccountConstant      = "work"
	testHomeAccountConstant      = "home"
	testMissingAccountConstant   = "missing"
	testWorkTokenContentConstant = "ghp_abcdef\n"
	testWorkTokenConstant        = "ghp_abcdef"
	testRotatedTokenConstant     = "ghp_rotated"
	testSecretTokenConstant      = "ghp_age_secret"
	testEnvironmentNameConstant  = "MULTIGH_TEST_TOKEN"
	testKeyringServiceConstant   = "multigh"
	testTokenFileNameConstant    = "work.token"
	testIdentityFileNameConstant = "identity.txt"
)

func newStore(testInstance *testing.T, defaultAccount string, accounts map[string]config.AccountConfiguration, dependencies credentials.StoreDependencies) *credentials.Store {
	testInstance.Helper()
	configuration := config.Configuration{DefaultAccount: defaultAccount}.WithAccounts(accounts)
	return credentials.NewStore(configuration, dependencies)
}

func writeTokenFile(testInstance *testing.T, directoryPath string, fileName string, content string) string {
	testInstance.Helper()
	tokenPath := filepath.Join(directoryPath, fileName)
	require.NoError(testInstance, os.WriteFile(tokenPath, []byte(content), 0o600))
	return tokenPath
}

func TestStoreResolvesTrimmedFileToken(testInstance *testing.T) {
	tokenPath := writeTokenFile(testInstance, testInstance.TempDir(), testTokenFileNameConstant, testWorkTokenContentConstant)
	store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
		testWorkAccountConstant: {TokenPath: tokenPath},
	}, credentials.StoreDependencies{})

	credential, resolveError := store.Resolve(context.Background(), testWorkAccountConstant)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, testWorkTokenConstant, credential.Value())

	defaultCredential, defaultError := store.Resolve(context.Background(), "")
	require.NoError(testInstance, defaultError)
	require.Equal(testInstance, credential.Value(), defaultCredential.Value())
}

func TestStoreRereadsRotatedTokens(testInstance *testing.T) {
	tokenPath := writeTokenFile(testInstance, testInstance.TempDir(), testTokenFileNameConstant, testWorkTokenContentConstant)
	store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
		testWorkAccountConstant: {TokenPath: "file:" + tokenPath},
	}, credentials.StoreDependencies{})

	firstCredential, firstError := store.Resolve(context.Background(), testWorkAccountConstant)
	require.NoError(testInstance, firstError)
	require.Equal(testInstance, testWorkTokenConstant, firstCredential.Value())

	require.NoError(testInstance, os.WriteFile(tokenPath, []byte(testRotatedTokenConstant), 0o600))

	secondCredential, secondError := store.Resolve(context.Background(), testWorkAccountConstant)
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, testRotatedTokenConstant, secondCredential.Value())
}

func TestStoreExpandsHomeShorthand(testInstance *testing.T) {
	homeDirectoryPath := testInstance.TempDir()
	writeTokenFile(testInstance, homeDirectoryPath, testTokenFileNameConstant, testWorkTokenContentConstant)

	store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
		testWorkAccountConstant: {TokenPath: "~/" + testTokenFileNameConstant},
	}, credentials.StoreDependencies{
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) { return homeDirectoryPath, nil }),
	})

	credential, resolveError := store.Resolve(context.Background(), testWorkAccountConstant)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, testWorkTokenConstant, credential.Value())

	source, sourceError := store.TokenSource(testWorkAccountConstant)
	require.NoError(testInstance, sourceError)
	require.Equal(testInstance, filepath.Join(homeDirectoryPath, testTokenFileNameConstant), source.Reference)
}

func TestStoreFileFailures(testInstance *testing.T) {
	permissionError := fmt.Errorf("open token: %w", fs.ErrPermission)

	testCases := []struct {
		name           string
		fileReader     credentials.FileReader
		tokenPath      string
		assertionCheck func(testInstance *testing.T, resolveError error)
	}{
		{
			name:      "missing_file",
			tokenPath: "/nonexistent/token",
			fileReader: func(string) ([]byte, error) {
				return nil, fs.ErrNotExist
			},
			assertionCheck: func(testInstance *testing.T, resolveError error) {
				require.Equal(testInstance, credentials.TokenNotFoundError{Location: "/nonexistent/token"}, resolveError)
			},
		},
		{
			name:      "unreadable_file",
			tokenPath: "/restricted/token",
			fileReader: func(string) ([]byte, error) {
				return nil, permissionError
			},
			assertionCheck: func(testInstance *testing.T, resolveError error) {
				var readError credentials.TokenReadError
				require.ErrorAs(testInstance, resolveError, &readError)
				require.Equal(testInstance, "/restricted/token", readError.Location)
				require.ErrorIs(testInstance, resolveError, fs.ErrPermission)
			},
		},
		{
			name:      "whitespace_only_file",
			tokenPath: "/blank/token",
			fileReader: func(string) ([]byte, error) {
				return []byte(" \n\t\n"), nil
			},
			assertionCheck: func(testInstance *testing.T, resolveError error) {
				var readError credentials.TokenReadError
				require.ErrorAs(testInstance, resolveError, &readError)
				require.ErrorIs(testInstance, resolveError, credentials.ErrEmptyToken)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
				testWorkAccountConstant: {TokenPath: testCase.tokenPath},
			}, credentials.StoreDependencies{FileReader: testCase.fileReader})

			credential, resolveError := store.Resolve(context.Background(), testWorkAccountConstant)
			require.Error(testInstance, resolveError)
			require.True(testInstance, credential.IsZero())
			testCase.assertionCheck(testInstance, resolveError)
		})
	}
}

func TestStoreUnknownAccountNeverFallsBack(testInstance *testing.T) {
	fileReads := 0
	store := newStore(testInstance, testHomeAccountConstant, map[string]config.AccountConfiguration{
		testHomeAccountConstant: {TokenPath: "/tokens/home"},
	}, credentials.StoreDependencies{
		FileReader: func(string) ([]byte, error) {
			fileReads++
			return []byte(testWorkTokenConstant), nil
		},
	})

	_, resolveError := store.Resolve(context.Background(), testMissingAccountConstant)
	require.Equal(testInstance, credentials.AccountNotFoundError{AccountName: testMissingAccountConstant}, resolveError)
	require.Zero(testInstance, fileReads)

	_, caseError := store.Resolve(context.Background(), "Home")
	require.Equal(testInstance, credentials.AccountNotFoundError{AccountName: "Home"}, caseError)
}

func TestStoreEnvironmentTokens(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
		expectedError error
	}{
		{
			name:          "present",
			environment:   map[string]string{testEnvironmentNameConstant: "  ghp_env\n"},
			expectedToken: "ghp_env",
		},
		{
			name:          "absent",
			environment:   map[string]string{},
			expectedError: credentials.TokenNotFoundError{Location: "env:" + testEnvironmentNameConstant},
		},
		{
			name:          "empty",
			environment:   map[string]string{testEnvironmentNameConstant: "   "},
			expectedError: credentials.TokenReadError{Location: "env:" + testEnvironmentNameConstant, Cause: credentials.ErrEmptyToken},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
				testWorkAccountConstant: {TokenPath: "env:" + testEnvironmentNameConstant},
			}, credentials.StoreDependencies{
				EnvironmentLookup: func(key string) (string, bool) {
					value, found := testCase.environment[key]
					return value, found
				},
			})

			credential, resolveError := store.Resolve(context.Background(), testWorkAccountConstant)
			if testCase.expectedError != nil {
				require.Equal(testInstance, testCase.expectedError, resolveError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedToken, credential.Value())
		})
	}
}

func TestStoreKeyringTokens(testInstance *testing.T) {
	keyring.MockInit()
	require.NoError(testInstance, keyring.Set(testKeyringServiceConstant, testWorkAccountConstant, " ghp_keyring \n"))

	store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
		testWorkAccountConstant: {TokenPath: "keyring:multigh/work"},
		testHomeAccountConstant: {TokenPath: "keyring:multigh/home"},
	}, credentials.StoreDependencies{})

	credential, resolveError := store.Resolve(context.Background(), testWorkAccountConstant)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "ghp_keyring", credential.Value())

	_, missingError := store.Resolve(context.Background(), testHomeAccountConstant)
	require.Equal(testInstance, credentials.TokenNotFoundError{Location: "keyring:multigh/home"}, missingError)
}

func TestStoreKeyringFailureIsReadError(testInstance *testing.T) {
	backendError := errors.New("secret service unavailable")
	store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
		testWorkAccountConstant: {TokenPath: "keyring:multigh/work"},
	}, credentials.StoreDependencies{
		KeyringReader: func(string, string) (string, error) { return "", backendError },
	})

	_, resolveError := store.Resolve(context.Background(), testWorkAccountConstant)
	require.ErrorIs(testInstance, resolveError, backendError)
	require.IsType(testInstance, credentials.TokenReadError{}, resolveError)
}

func encryptToken(testInstance *testing.T, recipient age.Recipient, plaintext string, armored bool) []byte {
	testInstance.Helper()
	var ciphertextBuffer bytes.Buffer

	if armored {
		armorWriter := armor.NewWriter(&ciphertextBuffer)
		encryptWriter, encryptError := age.Encrypt(armorWriter, recipient)
		require.NoError(testInstance, encryptError)
		_, writeError := encryptWriter.Write([]byte(plaintext))
		require.NoError(testInstance, writeError)
		require.NoError(testInstance, encryptWriter.Close())
		require.NoError(testInstance, armorWriter.Close())
		return ciphertextBuffer.Bytes()
	}

	encryptWriter, encryptError := age.Encrypt(&ciphertextBuffer, recipient)
	require.NoError(testInstance, encryptError)
	_, writeError := encryptWriter.Write([]byte(plaintext))
	require.NoError(testInstance, writeError)
	require.NoError(testInstance, encryptWriter.Close())
	return ciphertextBuffer.Bytes()
}

func TestStoreDecryptsAgeTokens(testInstance *testing.T) {
	identity, identityError := age.GenerateX25519Identity()
	require.NoError(testInstance, identityError)

	for _, armored := range []bool{false, true} {
		testInstance.Run(fmt.Sprintf("armored_%t", armored), func(testInstance *testing.T) {
			directoryPath := testInstance.TempDir()
			tokenPath := filepath.Join(directoryPath, testTokenFileNameConstant)
			require.NoError(testInstance, os.WriteFile(tokenPath, encryptToken(testInstance, identity.Recipient(), testSecretTokenConstant+"\n", armored), 0o600))
			identityPath := writeTokenFile(testInstance, directoryPath, testIdentityFileNameConstant, identity.String()+"\n")

			store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
				testWorkAccountConstant: {TokenPath: tokenPath, AgeIdentity: identityPath},
			}, credentials.StoreDependencies{})

			credential, resolveError := store.Resolve(context.Background(), testWorkAccountConstant)
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testSecretTokenConstant, credential.Value())
		})
	}
}

func TestStoreAgeFailuresNeverRevealSecrets(testInstance *testing.T) {
	encryptingIdentity, encryptingError := age.GenerateX25519Identity()
	require.NoError(testInstance, encryptingError)
	unrelatedIdentity, unrelatedError := age.GenerateX25519Identity()
	require.NoError(testInstance, unrelatedError)

	directoryPath := testInstance.TempDir()
	tokenPath := filepath.Join(directoryPath, testTokenFileNameConstant)
	require.NoError(testInstance, os.WriteFile(tokenPath, encryptToken(testInstance, encryptingIdentity.Recipient(), testSecretTokenConstant, false), 0o600))
	identityPath := writeTokenFile(testInstance, directoryPath, testIdentityFileNameConstant, unrelatedIdentity.String())

	store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
		testWorkAccountConstant: {TokenPath: tokenPath, AgeIdentity: identityPath},
		testHomeAccountConstant: {TokenPath: tokenPath, AgeIdentity: filepath.Join(directoryPath, "absent.txt")},
	}, credentials.StoreDependencies{})

	for _, accountName := range []string{testWorkAccountConstant, testHomeAccountConstant} {
		_, resolveError := store.Resolve(context.Background(), accountName)
		require.Error(testInstance, resolveError)
		require.IsType(testInstance, credentials.TokenReadError{}, resolveError)
		require.NotContains(testInstance, resolveError.Error(), testSecretTokenConstant)
		require.NotContains(testInstance, resolveError.Error(), unrelatedIdentity.String())
	}
}

func TestStoreHonorsCancelledContext(testInstance *testing.T) {
	store := newStore(testInstance, testWorkAccountConstant, map[string]config.AccountConfiguration{
		testWorkAccountConstant: {TokenPath: "/tokens/work"},
	}, credentials.StoreDependencies{})

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, resolveError := store.Resolve(cancelledContext, testWorkAccountConstant)
	require.ErrorIs(testInstance, resolveError, context.Canceled)
}

func TestCredentialFormattingIsRedacted(testInstance *testing.T) {
	credential := credentials.NewCredential(testWorkTokenConstant)

	rendered := fmt.Sprintf("%v %s %#v %+v", credential, credential, credential, credential)
	require.NotContains(testInstance, rendered, testWorkTokenConstant)
	require.Equal(testInstance, testWorkTokenConstant, credential.Value())
}
