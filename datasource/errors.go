package datasource

import "fmt"

// DataSourceError represents errors that can occur during data source operations
type DataSourceError struct {
	Source  string
	Op      string
	Err     error
	Code    string
	Message string
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("datasource.%s [%s]: %s: %v", e.Op, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("datasource.%s [%s]: %s", e.Op, e.Source, e.Message)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches any *DataSourceError carrying the same Code, so sentinel
// values built with only a Code work with errors.Is.
func (e *DataSourceError) Is(target error) bool {
	t, ok := target.(*DataSourceError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// Common error codes
const (
	ErrCodeNotFound        = "NotFound"
	ErrCodeAccessDenied    = "AccessDenied"
	ErrCodeInvalidFormat   = "InvalidFormat"
	ErrCodeInvalidQuery    = "InvalidQuery"
	ErrCodeQueryEvaluation = "QueryEvaluation"
	ErrCodeContentType     = "ContentType"
	ErrCodeInternal        = "Internal"
)
