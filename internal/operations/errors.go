package operations

import (
	"errors"
	"fmt"
)

const (
	validationFieldTemplateConstant   = "invalid parameter %s: %s"
	validationGeneralTemplateConstant = "invalid parameters: %s"
	duplicateOperationMessageConstant = "operation already registered"
	unknownOperationMessageConstant   = "unknown operation"
	emptyOperationNameMessageConstant = "operation name is required"
	missingHandlerMessageConstant     = "operation handler is required"
	gatewayNotConfiguredMessage       = "command gateway not configured"
	missingTagObjectMessageConstant   = "annotated tag response did not include an object sha"
)

var (
	// ErrDuplicateOperation indicates that an operation name was registered twice.
	ErrDuplicateOperation = errors.New(duplicateOperationMessageConstant)
	// ErrUnknownOperation indicates that no operation is registered under the requested name.
	ErrUnknownOperation = errors.New(unknownOperationMessageConstant)
	// ErrEmptyOperationName indicates an operation without a tool name.
	ErrEmptyOperationName = errors.New(emptyOperationNameMessageConstant)
	// ErrMissingHandler indicates an operation without a handler.
	ErrMissingHandler = errors.New(missingHandlerMessageConstant)
	// ErrGatewayNotConfigured indicates that the catalog was built without a gateway.
	ErrGatewayNotConfigured = errors.New(gatewayNotConfiguredMessage)
	// ErrMissingTagObject indicates that an annotated tag could not be created.
	ErrMissingTagObject = errors.New(missingTagObjectMessageConstant)
)

// ValidationError reports call parameters that are missing or have the wrong shape.
type ValidationError struct {
	FieldName string
	Message   string
}

// Error describes the invalid parameter.
func (validationError ValidationError) Error() string {
	if len(validationError.FieldName) == 0 {
		return fmt.Sprintf(validationGeneralTemplateConstant, validationError.Message)
	}
	return fmt.Sprintf(validationFieldTemplateConstant, validationError.FieldName, validationError.Message)
}
