package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Canonicalize renders a capability result as the string the remote protocol
// expects: strings pass through, structured values (maps, slices, arrays,
// structs) are JSON-encoded, nil becomes "" and everything else uses its fmt
// form.
func Canonicalize(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.RawMessage:
		return string(val)
	case []byte:
		return string(val)
	case fmt.Stringer:
		if !isStructured(v) {
			return val.String()
		}
	}

	if isStructured(v) {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err == nil {
			return strings.TrimSuffix(buf.String(), "\n")
		}
	}
	return fmt.Sprint(v)
}

func isStructured(v any) bool {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}
