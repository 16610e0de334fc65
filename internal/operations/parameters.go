package operations

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	parameterTagNameConstant          = "mapstructure"
	requiredParameterMessageConstant  = "is required"
	emptyParameterMessageConstant     = "must not be empty"
	nonIntegralNumberTemplateConstant = "expected an integer, got %v"
	positiveNumberMessageConstant     = "must be a positive integer"
	numberOutOfRangeTemplateConstant  = "%v is out of range for %s"
	flagLikeValueMessageConstant      = "must not start with \"-\""
	flagPrefixConstant                = "-"
	unsupportedValueTemplateConstant  = "must be one of %s, got %q"
	allowedValuesSeparatorConstant    = ", "
	parameterDecoderFailureTemplate   = "unable to build parameter decoder: %v"
)

// parameterValidator is implemented by parameter structures with constraints beyond their shape.
type parameterValidator interface {
	validate() error
}

func newOperation[Parameters any](tool mcp.Tool, execute func(context.Context, Parameters) (Result, error)) Operation {
	requiredNames := append([]string(nil), tool.InputSchema.Required...)
	return Operation{
		Tool: tool,
		Handler: func(executionContext context.Context, arguments map[string]any) (Result, error) {
			parameters, decodeError := decodeParameters[Parameters](requiredNames, arguments)
			if decodeError != nil {
				return Result{}, decodeError
			}
			return execute(executionContext, parameters)
		},
	}
}

func decodeParameters[Parameters any](requiredNames []string, arguments map[string]any) (Parameters, error) {
	var parameters Parameters

	for _, requiredName := range requiredNames {
		value, present := arguments[requiredName]
		if !present || value == nil {
			return parameters, ValidationError{FieldName: requiredName, Message: requiredParameterMessageConstant}
		}
		if textValue, isText := value.(string); isText && len(strings.TrimSpace(textValue)) == 0 {
			return parameters, ValidationError{FieldName: requiredName, Message: emptyParameterMessageConstant}
		}
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(integralNumberHook),
		Result:     &parameters,
		TagName:    parameterTagNameConstant,
	})
	if decoderError != nil {
		return parameters, fmt.Errorf(parameterDecoderFailureTemplate, decoderError)
	}
	if decodeError := decoder.Decode(arguments); decodeError != nil {
		return parameters, ValidationError{Message: decodeError.Error()}
	}

	if validator, hasConstraints := any(parameters).(parameterValidator); hasConstraints {
		if validationError := validator.validate(); validationError != nil {
			return parameters, validationError
		}
	}
	return parameters, nil
}

// integralNumberHook rejects fractional or out-of-range JSON numbers bound to integer fields.
func integralNumberHook(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
	if sourceType.Kind() != reflect.Float64 && sourceType.Kind() != reflect.Float32 {
		return data, nil
	}
	switch targetType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}

	numericValue := reflect.ValueOf(data).Float()
	if math.IsInf(numericValue, 0) || math.IsNaN(numericValue) || numericValue != math.Trunc(numericValue) {
		return nil, fmt.Errorf(nonIntegralNumberTemplateConstant, data)
	}
	if !fitsIntegerKind(numericValue, targetType) {
		return nil, fmt.Errorf(numberOutOfRangeTemplateConstant, data, targetType.Kind())
	}
	return data, nil
}

// fitsIntegerKind reports whether an integral value is representable by the integer kind of targetType.
func fitsIntegerKind(numericValue float64, targetType reflect.Type) bool {
	bitSize := targetType.Bits()
	switch targetType.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return numericValue >= 0 && numericValue < math.Ldexp(1, bitSize)
	default:
		bound := math.Ldexp(1, bitSize-1)
		return numericValue >= -bound && numericValue < bound
	}
}

// validatePositional rejects values gh would parse as a flag when passed as a positional argument.
func validatePositional(fieldName string, value string) error {
	if strings.HasPrefix(strings.TrimSpace(value), flagPrefixConstant) {
		return ValidationError{FieldName: fieldName, Message: flagLikeValueMessageConstant}
	}
	return nil
}

func validatePositive(fieldName string, value int64) error {
	if value <= 0 {
		return ValidationError{FieldName: fieldName, Message: positiveNumberMessageConstant}
	}
	return nil
}

func validateOptionalPositive(fieldName string, value *int) error {
	if value == nil {
		return nil
	}
	return validatePositive(fieldName, int64(*value))
}

func validateOptionalChoice(fieldName string, value *string, allowedValues []string) error {
	if !isProvided(value) {
		return nil
	}
	for _, allowedValue := range allowedValues {
		if *value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		FieldName: fieldName,
		Message:   fmt.Sprintf(unsupportedValueTemplateConstant, strings.Join(allowedValues, allowedValuesSeparatorConstant), *value),
	}
}

// isProvided treats nil and whitespace-only strings as absent.
func isProvided(value *string) bool {
	return value != nil && len(strings.TrimSpace(*value)) > 0
}

func isEnabled(value *bool) bool {
	return value != nil && *value
}
