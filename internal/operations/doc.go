// Package operations holds the table of GitHub operations exposed to protocol clients.
//
// Each Operation pairs an mcp-go tool schema with a handler that decodes the raw call
// arguments into typed parameters, builds a gh invocation, runs it through a
// CommandGateway, and shapes the outcome into a Result. The Registry keeps operations
// in registration order so the surface stays enumerable.
package operations
