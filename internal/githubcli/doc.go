// Package githubcli is the account-scoped gateway to the gh executable.
//
// Gateway resolves the credential of the requested account, injects it into
// the environment of a single gh invocation, and classifies the buffered
// output as structured JSON, raw text, or a typed failure.
package githubcli
