package credentials

import (
	"fmt"
	"strings"
)

const (
	tokenSourceSeparatorConstant            = ":"
	keyringReferenceSeparatorConstant       = "/"
	fileTokenSourceTypeValueConstant        = "file"
	environmentTokenSourceTypeValueConstant = "env"
	keyringTokenSourceTypeValueConstant     = "keyring"
	tokenSourceLocationTemplateConstant     = "%s:%s"
	tokenSourceMissingTemplateConstant      = "%w: token source must be provided"
	referenceMissingTemplateConstant        = "%w: %s token source requires a reference"
	keyringReferenceTemplateConstant        = "%w: keyring token source must look like keyring:<service>/<user>"
)

// TokenSourceType enumerates the supported token retrieval mechanisms.
type TokenSourceType string

// Token source type enumerations.
const (
	TokenSourceTypeFile        TokenSourceType = TokenSourceType(fileTokenSourceTypeValueConstant)
	TokenSourceTypeEnvironment TokenSourceType = TokenSourceType(environmentTokenSourceTypeValueConstant)
	TokenSourceTypeKeyring     TokenSourceType = TokenSourceType(keyringTokenSourceTypeValueConstant)
)

// TokenSource identifies where an account's token lives.
type TokenSource struct {
	Type      TokenSourceType
	Reference string
}

// Location renders the source for diagnostics. File sources render as their path.
func (source TokenSource) Location() string {
	if source.Type == TokenSourceTypeFile {
		return source.Reference
	}
	return fmt.Sprintf(tokenSourceLocationTemplateConstant, source.Type, source.Reference)
}

// KeyringEntry splits a keyring reference into its service and user.
func (source TokenSource) KeyringEntry() (string, string) {
	service, user, _ := strings.Cut(source.Reference, keyringReferenceSeparatorConstant)
	return service, user
}

// ParseTokenSource interprets a token locator.
// A value without a recognised "env:", "keyring:" or "file:" prefix is a file path,
// so Windows drive letters and paths containing colons keep working.
func ParseTokenSource(sourceValue string) (TokenSource, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return TokenSource{}, fmt.Errorf(tokenSourceMissingTemplateConstant, ErrInvalidTokenSource)
	}

	prefix, reference, hasSeparator := strings.Cut(trimmedValue, tokenSourceSeparatorConstant)
	if !hasSeparator {
		return TokenSource{Type: TokenSourceTypeFile, Reference: trimmedValue}, nil
	}

	sourceType := TokenSourceType(strings.ToLower(strings.TrimSpace(prefix)))
	reference = strings.TrimSpace(reference)

	switch sourceType {
	case TokenSourceTypeFile, TokenSourceTypeEnvironment:
		if len(reference) == 0 {
			return TokenSource{}, fmt.Errorf(referenceMissingTemplateConstant, ErrInvalidTokenSource, sourceType)
		}
		return TokenSource{Type: sourceType, Reference: reference}, nil
	case TokenSourceTypeKeyring:
		service, user, hasUser := strings.Cut(reference, keyringReferenceSeparatorConstant)
		if !hasUser || len(strings.TrimSpace(service)) == 0 || len(strings.TrimSpace(user)) == 0 {
			return TokenSource{}, fmt.Errorf(keyringReferenceTemplateConstant, ErrInvalidTokenSource)
		}
		return TokenSource{Type: TokenSourceTypeKeyring, Reference: reference}, nil
	default:
		return TokenSource{Type: TokenSourceTypeFile, Reference: trimmedValue}, nil
	}
}
