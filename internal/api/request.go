package api

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/custodia-labs/vkauth/internal/core/domain"
)

// Request is one call of an API method: a Spec plus a value for each field.
// Setters mutate the request in place and return it for chaining; Clone
// gives an independent copy. A Request must not be mutated from two
// goroutines at once.
type Request struct {
	spec   *Spec
	values []any
	err    error
}

// Param is an encoded name/value pair.
type Param struct {
	Name  string
	Value string
}

// ArgumentError reports a value that does not fit the method's declaration.
type ArgumentError struct {
	Method string
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("api: %s: %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("api: %s: %s: %s", e.Method, e.Field, e.Reason)
}

// Set assigns an optional or required field. The value may be of any type
// convertible to the field's declared type; for pointer-typed fields a
// plain value is accepted and stored behind a new pointer.
func (r *Request) Set(name string, value any) *Request {
	i := r.spec.index(name)
	if i < 0 {
		r.fail(&ArgumentError{Method: r.spec.Method, Field: name, Reason: "unknown parameter"})
		return r
	}
	r.assign(i, value)
	return r
}

// Get returns the current value of a field.
func (r *Request) Get(name string) (any, bool) {
	i := r.spec.index(name)
	if i < 0 {
		return nil, false
	}
	return r.values[i], true
}

// Err returns the first argument error recorded while building the request.
func (r *Request) Err() error {
	return r.err
}

// Spec returns the declaration the request was built from.
func (r *Request) Spec() *Spec {
	return r.spec
}

// Method returns the API method name.
func (r *Request) Method() string {
	return r.spec.Method
}

// HTTPMethod returns the HTTP verb used to send the request.
func (r *Request) HTTPMethod() string {
	return r.spec.httpMethod()
}

// Permissions returns the permissions the method requires.
func (r *Request) Permissions() domain.Permissions {
	return r.spec.Permissions
}

// NewResponse allocates a value of the method's response type.
func (r *Request) NewResponse() any {
	if r.spec.Response == nil {
		var raw map[string]any
		return &raw
	}
	return r.spec.Response()
}

// Params returns the encoded parameters in wire order: fields in
// declaration order, then constants. Pairs whose value encodes to ""
// are left out.
func (r *Request) Params() []Param {
	out := make([]Param, 0, len(r.values)+len(r.spec.Constants))
	for i, f := range r.spec.Fields {
		if v := f.Encoding.Encode(r.values[i]); v != "" {
			out = append(out, Param{Name: f.Name, Value: v})
		}
	}
	for _, c := range r.spec.Constants {
		if c.Value != "" {
			out = append(out, Param{Name: c.Name, Value: c.Value})
		}
	}
	return out
}

// Values returns the encoded parameters as url.Values, for form bodies.
func (r *Request) Values() url.Values {
	v := url.Values{}
	for _, p := range r.Params() {
		v.Add(p.Name, p.Value)
	}
	return v
}

// Query serialises the request as name1=value1&name2=value2, preserving
// wire order. url.Values.Encode is not used because it sorts keys.
func (r *Request) Query() string {
	var b strings.Builder
	for i, p := range r.Params() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Clone returns a deep copy that can be modified independently.
func (r *Request) Clone() *Request {
	c := &Request{spec: r.spec, values: make([]any, len(r.values)), err: r.err}
	for i, v := range r.values {
		c.values[i] = cloneValue(v)
	}
	return c
}

// Equal reports whether both requests share a Spec, hold equal values and
// are either both valid or both failed.
func (r *Request) Equal(other *Request) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.spec == other.spec &&
		(r.err == nil) == (other.err == nil) &&
		reflect.DeepEqual(r.values, other.values)
}

// String renders the request for logs.
func (r *Request) String() string {
	return r.spec.Method + "?" + r.Query()
}

func (r *Request) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Request) assign(i int, value any) {
	f := r.spec.Fields[i]
	v, ok := convert(value, f.typ)
	if !ok {
		r.fail(&ArgumentError{
			Method: r.spec.Method,
			Field:  f.Name,
			Reason: fmt.Sprintf("cannot use %T as %s", value, f.typ),
		})
		if r.values[i] == nil {
			r.values[i] = zeroOf(f.typ)
		}
		return
	}
	r.values[i] = v
}

// convert adapts value to typ. It accepts assignable values, numeric and
// string-kind conversions, slices whose elements convert, and plain values
// for pointer types. Numeric to string conversion is refused: Go would
// read the number as a rune.
func convert(value any, typ reflect.Type) (any, bool) {
	if typ == nil {
		return value, true
	}
	if value == nil {
		switch typ.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			return reflect.Zero(typ).Interface(), true
		default:
			return nil, false
		}
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(typ) {
		out := reflect.New(typ).Elem()
		out.Set(rv)
		return out.Interface(), true
	}

	switch {
	case typ.Kind() == reflect.Pointer:
		elem, ok := convert(value, typ.Elem())
		if !ok {
			return nil, false
		}
		p := reflect.New(typ.Elem())
		p.Elem().Set(reflect.ValueOf(elem))
		return p.Interface(), true

	case typ.Kind() == reflect.Slice && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array):
		out := reflect.MakeSlice(typ, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, ok := convert(rv.Index(i).Interface(), typ.Elem())
			if !ok {
				return nil, false
			}
			out.Index(i).Set(reflect.ValueOf(elem))
		}
		return out.Interface(), true

	case typ.Kind() == reflect.Slice && rv.Kind() != reflect.Slice:
		// A single element stands for a one-element list.
		elem, ok := convert(value, typ.Elem())
		if !ok {
			return nil, false
		}
		out := reflect.MakeSlice(typ, 1, 1)
		out.Index(0).Set(reflect.ValueOf(elem))
		return out.Interface(), true

	case typ.Kind() == reflect.String && rv.Kind() != reflect.String:
		return nil, false

	case isNumeric(typ.Kind()) && isNumeric(rv.Kind()):
		if !numericFits(rv, typ) {
			return nil, false
		}
		return rv.Convert(typ).Interface(), true

	case typ.Kind() == reflect.String, typ.Kind() == rv.Kind():
		if rv.Type().ConvertibleTo(typ) {
			return rv.Convert(typ).Interface(), true
		}
	}
	return nil, false
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// numericFits refuses lossy conversions: floats into integers, negative
// values into unsigned types and values that overflow the target.
func numericFits(rv reflect.Value, typ reflect.Type) bool {
	src := rv.Kind()
	dst := typ.Kind()
	switch {
	case src == reflect.Float32 || src == reflect.Float64:
		return dst == reflect.Float32 || dst == reflect.Float64
	case isInt(src):
		n := rv.Int()
		switch {
		case isInt(dst):
			return !reflect.Zero(typ).OverflowInt(n)
		case isUint(dst):
			return n >= 0 && !reflect.Zero(typ).OverflowUint(uint64(n))
		}
		return true
	case isUint(src):
		n := rv.Uint()
		switch {
		case isInt(dst):
			return n <= 1<<63-1 && !reflect.Zero(typ).OverflowInt(int64(n))
		case isUint(dst):
			return !reflect.Zero(typ).OverflowUint(n)
		}
		return true
	}
	return false
}

func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Pointer:
		if rv.IsNil() {
			return v
		}
		p := reflect.New(rv.Type().Elem())
		p.Elem().Set(rv.Elem())
		return p.Interface()
	default:
		return v
	}
}
