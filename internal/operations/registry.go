package operations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const operationErrorTemplateConstant = "%w: %s"

// ResultKind distinguishes structured payloads from plain text.
type ResultKind int

// Result kinds.
const (
	ResultKindStructured ResultKind = iota
	ResultKindText
)

// Result is the protocol-neutral outcome of an operation.
type Result struct {
	Kind       ResultKind
	Structured json.RawMessage
	Text       string
}

// StructuredResult wraps a JSON payload.
func StructuredResult(payload json.RawMessage) Result {
	return Result{Kind: ResultKindStructured, Structured: payload}
}

// TextResult wraps plain text.
func TextResult(text string) Result {
	return Result{Kind: ResultKindText, Text: text}
}

// Render returns the textual form delivered to protocol clients.
func (result Result) Render() string {
	if result.Kind == ResultKindText {
		return result.Text
	}
	return string(result.Structured)
}

// Handler executes an operation against raw call arguments.
type Handler func(executionContext context.Context, arguments map[string]any) (Result, error)

// Operation is a named capability with its parameter schema.
type Operation struct {
	Tool    mcp.Tool
	Handler Handler
}

// Name returns the operation name.
func (operation Operation) Name() string {
	return operation.Tool.Name
}

// Registry maps operation names to operations.
type Registry struct {
	operations    []Operation
	indexesByName map[string]int
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{indexesByName: map[string]int{}}
}

// Register adds the operation, rejecting empty or duplicate names.
func (registry *Registry) Register(operation Operation) error {
	operationName := strings.TrimSpace(operation.Name())
	if len(operationName) == 0 {
		return ErrEmptyOperationName
	}
	if operation.Handler == nil {
		return fmt.Errorf(operationErrorTemplateConstant, ErrMissingHandler, operationName)
	}
	if _, exists := registry.indexesByName[operationName]; exists {
		return fmt.Errorf(operationErrorTemplateConstant, ErrDuplicateOperation, operationName)
	}

	registry.indexesByName[operationName] = len(registry.operations)
	registry.operations = append(registry.operations, operation)
	return nil
}

// Operations returns the registered operations in registration order.
func (registry *Registry) Operations() []Operation {
	return append([]Operation(nil), registry.operations...)
}

// Names returns the registered operation names in registration order.
func (registry *Registry) Names() []string {
	names := make([]string, 0, len(registry.operations))
	for _, operation := range registry.operations {
		names = append(names, operation.Name())
	}
	return names
}

// Lookup returns the operation registered under name.
func (registry *Registry) Lookup(name string) (Operation, bool) {
	index, exists := registry.indexesByName[name]
	if !exists {
		return Operation{}, false
	}
	return registry.operations[index], true
}

// Invoke runs the named operation.
func (registry *Registry) Invoke(executionContext context.Context, name string, arguments map[string]any) (Result, error) {
	operation, exists := registry.Lookup(name)
	if !exists {
		return Result{}, fmt.Errorf(operationErrorTemplateConstant, ErrUnknownOperation, name)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return operation.Handler(executionContext, arguments)
}
