package githubapi

import (
	"errors"
	"fmt"
	"strings"
)

const (
	remoteRequestErrorTemplateConstant      = "%s failed: %s %s returned status %d: %s"
	operationErrorTemplateConstant          = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	payloadEncodingErrorTemplateConstant    = "%s payload encoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	unrecognizedEntryErrorTemplateConstant  = "listing entry %d has unrecognized shape: %s"
	tokenSourceMissingMessageConstant       = "token source not configured"
	requiredValueMessageConstant            = "value required"
)

var (
	// ErrTokenSourceNotConfigured indicates the client was constructed without a credential.
	ErrTokenSourceNotConfigured = errors.New(tokenSourceMissingMessageConstant)
)

// RemoteRequestError reports a response whose status code did not match the
// expected success code of the operation.
type RemoteRequestError struct {
	Operation  OperationName
	Method     string
	URL        string
	StatusCode int
	Payload    []byte
}

// Error describes the unexpected response.
func (requestError RemoteRequestError) Error() string {
	return fmt.Sprintf(
		remoteRequestErrorTemplateConstant,
		requestError.Operation,
		requestError.Method,
		requestError.URL,
		requestError.StatusCode,
		string(requestError.Payload),
	)
}

// OperationError wraps transport failures that happened before a response was received.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// PayloadEncodingError indicates JSON encoding issues.
type PayloadEncodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the encoding failure.
func (encodingError PayloadEncodingError) Error() string {
	return fmt.Sprintf(payloadEncodingErrorTemplateConstant, encodingError.Operation, encodingError.Cause)
}

// Unwrap exposes the underlying error.
func (encodingError PayloadEncodingError) Unwrap() error {
	return encodingError.Cause
}

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// RequireValue returns an InvalidInputError when value is blank.
func RequireValue(fieldName string, value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return InvalidInputError{FieldName: fieldName, Message: requiredValueMessageConstant}
	}
	return nil
}

// UnrecognizedEntryError reports a directory listing entry that is neither a file nor a directory record.
type UnrecognizedEntryError struct {
	Index int
	Raw   string
}

// Error describes the unrecognized entry.
func (entryError UnrecognizedEntryError) Error() string {
	return fmt.Sprintf(unrecognizedEntryErrorTemplateConstant, entryError.Index, entryError.Raw)
}
