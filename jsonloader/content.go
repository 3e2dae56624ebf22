package jsonloader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// jsonType names the JSON type of a decoded value the way JMESPath's
// type() function does.
func jsonType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// contentString derives page content from a content value:
//
//	string        unchanged
//	object        compact JSON, "" when empty
//	null/absent   ""
//	anything else stringify
func contentString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		if len(val) == 0 {
			return ""
		}
		return marshalCompact(val)
	case nil:
		return ""
	default:
		return stringify(val)
	}
}

// stringify renders a JSON value as plain text. Numbers use the shortest
// decimal form without exponent, or their source text when float64 cannot
// hold them. Booleans and null give their JSON literals, strings are
// unquoted and arrays/objects are compact JSON.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return marshalCompact(val)
	}
}

// marshalCompact encodes v without HTML escaping; map keys come out sorted.
func marshalCompact(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// normalizeNumbers turns every json.Number that float64 holds without loss
// into a float64 so JMESPath can compare and compute with it. The rest keep
// their exact source text and render unchanged.
func normalizeNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, e := range val {
			val[k] = normalizeNumbers(e)
		}
		return val
	case []interface{}:
		for i, e := range val {
			val[i] = normalizeNumbers(e)
		}
		return val
	case json.Number:
		if f, ok := exactFloat(val); ok {
			return f
		}
		return val
	default:
		return v
	}
}

// exactFloat reports whether the shortest rendering of n as a float64
// denotes the same decimal value as n itself.
func exactFloat(n json.Number) (float64, bool) {
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	if f == 0 {
		// underflow: exact only if every mantissa digit is zero
		mantissa := strings.FieldsFunc(n.String(), func(r rune) bool { return r == 'e' || r == 'E' })[0]
		return f, strings.Trim(mantissa, "-+0.") == ""
	}
	want, ok := new(big.Rat).SetString(n.String())
	if !ok {
		return 0, false
	}
	got, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok {
		return 0, false
	}
	return f, want.Cmp(got) == 0
}
