package api

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParseText converts the textual form of a value, as typed on a command
// line, into the field's declared type. Lists are comma-separated and an
// empty string yields the zero value of pointer and list fields.
func (f Field) ParseText(text string) (any, error) {
	if f.typ == nil {
		return text, nil
	}
	v, err := parseText(f.typ, text)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func parseText(t reflect.Type, text string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Pointer:
		if text == "" {
			return reflect.Zero(t), nil
		}
		elem, err := parseText(t.Elem(), text)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil

	case reflect.Slice:
		if text == "" {
			return reflect.Zero(t), nil
		}
		parts := strings.Split(text, ",")
		out := reflect.MakeSlice(t, 0, len(parts))
		for _, part := range parts {
			elem, err := parseText(t.Elem(), strings.TrimSpace(part))
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, elem)
		}
		return out, nil

	case reflect.String:
		return reflect.ValueOf(text).Convert(t), nil

	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid boolean %q", text)
		}
		return reflect.ValueOf(b).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid integer %q", text)
		}
		return reflect.ValueOf(n).Convert(t), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid unsigned integer %q", text)
		}
		return reflect.ValueOf(n).Convert(t), nil

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(text, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid number %q", text)
		}
		return reflect.ValueOf(n).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot parse text into %s", t)
}

// SetText parses text with the field's ParseText and assigns it.
func (r *Request) SetText(name, text string) *Request {
	f, ok := r.spec.Field(name)
	if !ok {
		r.fail(&ArgumentError{Method: r.spec.Method, Field: name, Reason: "unknown parameter"})
		return r
	}
	v, err := f.ParseText(text)
	if err != nil {
		r.fail(&ArgumentError{Method: r.spec.Method, Field: name, Reason: err.Error()})
		return r
	}
	return r.Set(name, v)
}

// NewFromText builds a request from textual name/value pairs. Required
// fields are taken from params by name; every other pair is applied with
// SetText in order.
func (s *Spec) NewFromText(params []Param) *Request {
	byName := make(map[string]string, len(params))
	for _, p := range params {
		byName[p.Name] = p.Value
	}

	var required []any
	var parseErr *ArgumentError
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		text, ok := byName[f.Name]
		if !ok {
			break
		}
		v, err := f.ParseText(text)
		if err != nil {
			parseErr = &ArgumentError{Method: s.Method, Field: f.Name, Reason: err.Error()}
			v = zeroOf(f.typ)
		}
		required = append(required, v)
	}

	r := s.New(required...)
	if parseErr != nil {
		r.fail(parseErr)
	}
	for _, p := range params {
		if f, ok := s.Field(p.Name); ok && f.Required {
			continue
		}
		r.SetText(p.Name, p.Value)
	}
	return r
}
