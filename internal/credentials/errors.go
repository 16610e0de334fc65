package credentials

import (
	"errors"
	"fmt"
)

const (
	accountNotFoundTemplateConstant = "account not found: %s"
	tokenNotFoundTemplateConstant   = "token not found: %s"
	tokenReadErrorTemplateConstant  = "token read error: %s: %v"
)

// ErrEmptyToken indicates a token source whose trimmed content is empty.
var ErrEmptyToken = errors.New("token is empty")

// ErrInvalidTokenSource indicates a token locator that cannot be interpreted.
var ErrInvalidTokenSource = errors.New("invalid token source")

// AccountNotFoundError reports a request for an account absent from configuration.
type AccountNotFoundError struct {
	AccountName string
}

// Error describes the missing account.
func (accountError AccountNotFoundError) Error() string {
	return fmt.Sprintf(accountNotFoundTemplateConstant, accountError.AccountName)
}

// TokenNotFoundError reports a token source that does not exist.
type TokenNotFoundError struct {
	Location string
}

// Error describes the missing token source.
func (tokenError TokenNotFoundError) Error() string {
	return fmt.Sprintf(tokenNotFoundTemplateConstant, tokenError.Location)
}

// TokenReadError reports a token source that exists but yields no usable token.
type TokenReadError struct {
	Location string
	Cause    error
}

// Error describes the read failure. The token value is never part of the message.
func (tokenError TokenReadError) Error() string {
	return fmt.Sprintf(tokenReadErrorTemplateConstant, tokenError.Location, tokenError.Cause)
}

// Unwrap exposes the underlying cause.
func (tokenError TokenReadError) Unwrap() error {
	return tokenError.Cause
}
