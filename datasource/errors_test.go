package datasource

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataSourceError_Is(t *testing.T) {
	notFound := &DataSourceError{Code: ErrCodeNotFound}

	err := &DataSourceError{
		Source:  "json",
		Op:      "New",
		Code:    ErrCodeNotFound,
		Message: "file does not exist",
		Err:     errors.New("stat: no such file"),
	}

	assert.True(t, errors.Is(err, notFound))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), notFound))
	assert.False(t, errors.Is(err, &DataSourceError{Code: ErrCodeInvalidFormat}))
	assert.False(t, errors.Is(err, &DataSourceError{}))
}

func TestDataSourceError_Error(t *testing.T) {
	err := &DataSourceError{Source: "data.json", Op: "Load", Code: ErrCodeQueryEvaluation, Message: "not an array"}
	assert.Equal(t, "datasource.Load [data.json]: not an array", err.Error())

	err.Err = errors.New("boom")
	assert.Equal(t, "datasource.Load [data.json]: not an array: boom", err.Error())
	assert.Equal(t, err.Err, errors.Unwrap(err))
}

func TestLoadOptions(t *testing.T) {
	opts := NewLoadOptions()
	assert.False(t, opts.Full(100))
	assert.True(t, opts.Keep(nil))

	opts = NewLoadOptions(
		WithMaxItems(2),
		WithFilter(func(m map[string]interface{}) bool { return m["keep"] == true }),
	)
	assert.False(t, opts.Full(1))
	assert.True(t, opts.Full(2))
	assert.True(t, opts.Keep(map[string]interface{}{"keep": true}))
	assert.False(t, opts.Keep(map[string]interface{}{"keep": false}))
}
