package errs

import "errors"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type PermissionDeniedError struct {
	ErrorMessage
}

type ToolNotFoundError struct {
	ErrorMessage
}

// ProviderTimeoutError marks an LLM call that exceeded its wall-clock budget.
// It is recovered at the provider-selection boundary and never reaches users.
type ProviderTimeoutError struct {
	ErrorMessage
}

// ProviderError covers LLM transport and response-parse failures.
type ProviderError struct {
	ErrorMessage
}

// DeliveryFailureError marks an outbound message send that exhausted retries.
type DeliveryFailureError struct {
	ErrorMessage
}

type DatabaseError struct {
	ErrorMessage
	Operation string
}

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewPermissionDeniedError(message string) *PermissionDeniedError {
	return &PermissionDeniedError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewToolNotFoundError(message string) *ToolNotFoundError {
	return &ToolNotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewProviderTimeoutError(message string) *ProviderTimeoutError {
	return &ProviderTimeoutError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewProviderError(message string) *ProviderError {
	return &ProviderError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDeliveryFailureError(message string) *DeliveryFailureError {
	return &DeliveryFailureError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
	}
}

func NewExternalServiceError(service, message string, transient bool) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
	}
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsAlreadyExists reports whether err is an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var exists *AlreadyExistsError
	return errors.As(err, &exists)
}
