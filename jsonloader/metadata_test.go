package jsonloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListToString(t *testing.T) {
	metadata := map[string]interface{}{
		"source":  "data.json",
		"seq_num": 1,
		"tags":    []interface{}{float64(1), float64(2), "a"},
		"mixed":   []interface{}{true, nil, 1.5, map[string]interface{}{"k": "v"}, []interface{}{"x"}},
		"empty":   []interface{}{},
		"names":   []string{"x", "y"},
	}

	got := ListToString(nil, metadata)

	assert.Equal(t, map[string]interface{}{
		"source":  "data.json",
		"seq_num": 1,
		"tags":    "1, 2, a",
		"mixed":   `true, null, 1.5, {"k":"v"}, ["x"]`,
		"empty":   "",
		"names":   "x, y",
	}, got)
	// same map, mutated in place
	assert.Equal(t, "1, 2, a", metadata["tags"])
}

func TestRecordFields(t *testing.T) {
	fn := RecordFields("title", "missing")

	got := fn(map[string]interface{}{"title": "T", "body": "B"}, map[string]interface{}{"seq_num": 1})
	assert.Equal(t, map[string]interface{}{"seq_num": 1, "title": "T"}, got)

	got = fn("not an object", map[string]interface{}{"seq_num": 2})
	assert.Equal(t, map[string]interface{}{"seq_num": 2}, got)
}

func TestChain(t *testing.T) {
	drop := func(interface{}, map[string]interface{}) map[string]interface{} { return nil }
	fn := Chain(RecordFields("tags"), nil, ListToString)

	got := fn(map[string]interface{}{"tags": []interface{}{"a", "b"}}, map[string]interface{}{})
	assert.Equal(t, map[string]interface{}{"tags": "a, b"}, got)

	got = Chain(drop, RecordFields("tags"))(map[string]interface{}{"tags": "x"}, map[string]interface{}{"seq_num": 1})
	assert.Equal(t, map[string]interface{}{"tags": "x"}, got)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, "null"},
		{"s", "s"},
		{true, "true"},
		{float64(42), "42"},
		{-0.25, "-0.25"},
		{[]interface{}{float64(1), "a"}, `[1,"a"]`},
		{map[string]interface{}{"b": 1, "a": "&"}, `{"a":"&","b":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stringify(tt.in))
	}
}
