package jsonloader

import "strings"

// ListToString replaces every array value in metadata with its elements
// joined by ", " (e.g. [1, 2, "a"] becomes "1, 2, a"). Other values are left
// alone. It mutates and returns metadata.
func ListToString(_ interface{}, metadata map[string]interface{}) map[string]interface{} {
	for key, value := range metadata {
		switch list := value.(type) {
		case []interface{}:
			metadata[key] = joinValues(list)
		case []string:
			metadata[key] = strings.Join(list, ", ")
		}
	}
	return metadata
}

func joinValues(list []interface{}) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = stringify(v)
	}
	return strings.Join(parts, ", ")
}

// RecordFields copies the named fields of an object record into metadata.
// Arrays and objects are deep-copied, so changing the returned metadata
// never changes what later loads see. Missing fields and non-object records
// are skipped.
func RecordFields(keys ...string) MetadataFunc {
	return func(record interface{}, metadata map[string]interface{}) map[string]interface{} {
		obj, ok := record.(map[string]interface{})
		if !ok {
			return metadata
		}
		for _, key := range keys {
			if v, found := obj[key]; found {
				metadata[key] = cloneValue(v)
			}
		}
		return metadata
	}
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Chain applies fns in order, feeding each the previous result.
func Chain(fns ...MetadataFunc) MetadataFunc {
	return func(record interface{}, metadata map[string]interface{}) map[string]interface{} {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			metadata = fn(record, metadata)
			if metadata == nil {
				metadata = map[string]interface{}{}
			}
		}
		return metadata
	}
}
