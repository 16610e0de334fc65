// Package credentials resolves the GitHub token of a named account.
//
// Tokens are read on every call so rotated secrets take effect without a
// restart. A token locator may name a file (optionally age-encrypted), an
// environment variable, or an OS keyring entry.
package credentials
