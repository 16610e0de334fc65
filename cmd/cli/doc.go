// Package cli constructs the multigh command-line interface, wiring the Cobra
// command hierarchy, configuration loading, and structured logging. The serve
// command runs the MCP server on standard input and output; the remaining
// commands inspect the configured accounts.
package cli
