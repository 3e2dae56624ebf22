package embedding

import "fmt"

// EmbeddingError represents errors that can occur during embedding operations
type EmbeddingError struct {
	Op      string
	Err     error
	Code    string
	Message string
}

func (e *EmbeddingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding.%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("embedding.%s: %s", e.Op, e.Message)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// Common error codes for embedding operations
const (
	ErrCodeInvalidInput      = "InvalidInput"
	ErrCodeUnauthorized      = "Unauthorized"
	ErrCodeModelNotAvailable = "ModelNotAvailable"
	ErrCodeRateLimitExceeded = "RateLimitExceeded"
	ErrCodeEmptyInput        = "EmptyInput"
	ErrCodeAPIError          = "APIError"
	ErrCodeInternal          = "Internal"
)

func NewEmbeddingError(op string, err error, code, message string) *EmbeddingError {
	return &EmbeddingError{
		Op:      op,
		Err:     err,
		Code:    code,
		Message: message,
	}
}

func ErrEmptyInput(op string) error {
	return NewEmbeddingError(op, nil, ErrCodeEmptyInput, "input text or documents cannot be empty")
}
