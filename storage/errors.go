package storage

// StorageError represents errors that can occur during storage operations
type StorageError struct {
	Op      string
	Key     string
	Err     error
	Code    string
	Message string
}

// Error implements the error interface
func (e *StorageError) Error() string {
	msg := "storage." + e.Op
	if e.Key != "" {
		msg += " " + e.Key
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches any *StorageError with the same Code
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	return ok && t.Code != "" && t.Code == e.Code
}

// Common error codes
const (
	ErrCodeNotFound        = "NotFound"
	ErrCodeInvalidArgument = "InvalidArgument"
	ErrCodeInternal        = "Internal"
)

// ErrNotFound matches every not-found StorageError via errors.Is
var ErrNotFound = &StorageError{Code: ErrCodeNotFound, Message: "object not found"}

// NewStorageError creates a new StorageError
func NewStorageError(op, key string, err error, code, message string) *StorageError {
	return &StorageError{
		Op:      op,
		Key:     key,
		Err:     err,
		Code:    code,
		Message: message,
	}
}
