package credentials

const redactedCredentialConstant = "[redacted]"

// Credential holds a resolved, non-empty token.
// Formatting a Credential with fmt never reveals the secret.
type Credential struct {
	secret string
}

// NewCredential wraps an already trimmed token value.
func NewCredential(secret string) Credential {
	return Credential{secret: secret}
}

// Value returns the raw token for injection into a child process environment.
func (credential Credential) Value() string {
	return credential.secret
}

// IsZero reports whether the credential carries no token.
func (credential Credential) IsZero() bool {
	return len(credential.secret) == 0
}

// String implements fmt.Stringer.
func (credential Credential) String() string {
	return redactedCredentialConstant
}

// GoString implements fmt.GoStringer.
func (credential Credential) GoString() string {
	return redactedCredentialConstant
}
