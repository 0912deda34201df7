package api

import (
	"fmt"
	"reflect"
	"strings"
)

// Encoding selects how a parameter value is rendered into the query string.
type Encoding uint8

const (
	// EncodeString renders the value's natural string form.
	EncodeString Encoding = iota
	// EncodeRaw passes a string-like value through unchanged.
	EncodeRaw
	// EncodeBool renders true as "1" and false as "0".
	EncodeBool
	// EncodeList comma-joins the string forms of a slice's elements.
	EncodeList
	// EncodeOptional renders the pointed-to value, or "" for a nil pointer.
	EncodeOptional
)

// String returns the strategy name.
func (e Encoding) String() string {
	switch e {
	case EncodeString:
		return "string"
	case EncodeRaw:
		return "raw"
	case EncodeBool:
		return "bool"
	case EncodeList:
		return "list"
	case EncodeOptional:
		return "optional"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// Encode renders v with this strategy. An empty result means the parameter
// is left out of the query string.
func (e Encoding) Encode(v any) string {
	if v == nil {
		return ""
	}
	switch e {
	case EncodeRaw:
		return encodeRaw(v)
	case EncodeBool:
		return encodeBool(v)
	case EncodeList:
		return encodeList(v)
	case EncodeOptional:
		return encodeOptional(v)
	default:
		return stringify(v)
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func encodeRaw(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return stringify(v)
}

func encodeBool(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Bool {
		return stringify(rv.Interface())
	}
	if rv.Bool() {
		return "1"
	}
	return "0"
}

func encodeList(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return stringify(v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = stringify(rv.Index(i).Interface())
	}
	return strings.Join(parts, ",")
}

func encodeOptional(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return stringify(v)
	}
	if rv.IsNil() {
		return ""
	}
	return stringify(rv.Elem().Interface())
}
