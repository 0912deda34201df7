// Package jsonpayload decodes JSON response bodies into driven.Payload.
package jsonpayload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/vkauth/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.PayloadDecoder = Decoder{}

// Decoder decodes JSON objects. Numbers keep their literal form so large
// ids are never rounded through float64.
type Decoder struct{}

// NewDecoder creates a JSON payload decoder.
func NewDecoder() Decoder {
	return Decoder{}
}

// Decode parses data, which must hold a single JSON object.
func (Decoder) Decode(data []byte) (driven.Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("decode payload: not a JSON object")
	}
	return Object(fields), nil
}

// Object is a JSON object whose members are decoded lazily.
type Object map[string]json.RawMessage

// String returns a string member.
func (o Object) String(name string) (string, bool) {
	raw, ok := o[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Uint returns an integral, non-negative number member.
func (o Object) Uint(name string) (uint64, bool) {
	lit, ok := o.number(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Int returns an integral number member.
func (o Object) Int(name string) (int64, bool) {
	lit, ok := o.number(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Object returns a nested object member.
func (o Object) Object(name string) (driven.Payload, bool) {
	raw, ok := o[name]
	if !ok {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return Object(fields), true
}

// Decode unmarshals a member into dst.
func (o Object) Decode(name string, dst any) (bool, error) {
	raw, ok := o[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %q: %w", name, err)
	}
	return true, nil
}

// number returns the literal of a number member. Strings holding digits
// are not numbers.
func (o Object) number(name string) (string, bool) {
	raw, ok := o[name]
	if !ok {
		return "", false
	}
	lit := strings.TrimSpace(string(raw))
	if lit == "" || lit == "null" || lit[0] == '"' || lit[0] == '{' || lit[0] == '[' ||
		lit == "true" || lit == "false" {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}
