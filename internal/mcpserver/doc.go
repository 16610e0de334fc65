// Package mcpserver exposes the GitHub operation catalog over the Model Context Protocol.
//
// Every registered operation becomes one MCP tool. Calls are forwarded to the
// operations registry and failures are returned to mcp-go, which reports them
// to the client as JSON-RPC errors carrying only the error message.
package mcpserver
