package jsonloader

import (
	"fmt"

	"github.com/Abraxas-365/jmloader/datasource"
)

const sourceName = "json"

// Sentinel errors for errors.Is. Every error returned by this package is a
// *datasource.DataSourceError whose Code matches exactly one of them.
var (
	ErrFileNotFound    = &datasource.DataSourceError{Source: sourceName, Code: datasource.ErrCodeNotFound, Message: "file not found"}
	ErrNotReadable     = &datasource.DataSourceError{Source: sourceName, Code: datasource.ErrCodeAccessDenied, Message: "file not readable"}
	ErrMalformedJSON   = &datasource.DataSourceError{Source: sourceName, Code: datasource.ErrCodeInvalidFormat, Message: "malformed json"}
	ErrQueryCompile    = &datasource.DataSourceError{Source: sourceName, Code: datasource.ErrCodeInvalidQuery, Message: "invalid jmespath expression"}
	ErrQueryEvaluation = &datasource.DataSourceError{Source: sourceName, Code: datasource.ErrCodeQueryEvaluation, Message: "query did not produce a list of records"}
	ErrContentType     = &datasource.DataSourceError{Source: sourceName, Code: datasource.ErrCodeContentType, Message: "page content is not a string"}
)

// ContentTypeError reports a record whose content is not a string while
// text content is required.
type ContentTypeError struct {
	SeqNum int
	Type   string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("record %d: expected page content to be a string, got %s instead; "+
		"use WithTextContent(false) if the desired page content is not a string", e.SeqNum, e.Type)
}

func newError(source, op, code, message string, err error) *datasource.DataSourceError {
	return &datasource.DataSourceError{
		Source:  source,
		Op:      op,
		Err:     err,
		Code:    code,
		Message: message,
	}
}
