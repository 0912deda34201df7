package api

import (
	"net/http"
	"reflect"

	"github.com/custodia-labs/vkauth/internal/core/domain"
)

// Field describes one parameter of an API method.
type Field struct {
	// Name is the query parameter name.
	Name string
	// Required fields are supplied to Spec.New and have no default.
	Required bool
	// Default is the initial value of an optional field.
	Default any
	// Encoding selects how the value is rendered.
	Encoding Encoding

	typ reflect.Type
}

// Type returns the declared Go type of the field.
func (f Field) Type() reflect.Type {
	return f.typ
}

// Required declares a required field of type T.
func Required[T any](name string, enc Encoding) Field {
	return Field{Name: name, Required: true, Encoding: enc, typ: typeOf[T]()}
}

// Optional declares an optional field of type T with an explicit default.
func Optional[T any](name string, def T, enc Encoding) Field {
	return Field{Name: name, Default: def, Encoding: enc, typ: typeOf[T]()}
}

// OptionalZero declares an optional field defaulting to T's zero value.
func OptionalZero[T any](name string, enc Encoding) Field {
	var zero T
	return Optional(name, zero, enc)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Constant is a parameter whose value is fixed for the method.
type Constant struct {
	Name  string
	Value string
}

// Spec declares an API method: its name, the permissions it needs, its
// parameters and the shape of its response. A Spec is immutable once
// declared and is shared by every Request built from it.
type Spec struct {
	// Method is the API method name, e.g. "users.get".
	Method string
	// HTTPMethod is GET when empty.
	HTTPMethod string
	// Permissions are required on the token that calls the method.
	Permissions domain.Permissions
	// Fields are the parameters, in the order they appear on the wire.
	Fields []Field
	// Constants are appended after Fields.
	Constants []Constant
	// Response allocates the value the "response" member decodes into.
	Response func() any
}

// New builds a request. Required arguments are matched, in order, to the
// required fields and converted to their declared types; optional fields
// take their defaults. A mismatch is recorded on the request and reported
// by Err.
func (s *Spec) New(required ...any) *Request {
	r := &Request{spec: s, values: make([]any, len(s.Fields))}

	next := 0
	for i, f := range s.Fields {
		if !f.Required {
			r.values[i] = f.Default
			continue
		}
		if next >= len(required) {
			r.fail(&ArgumentError{Method: s.Method, Field: f.Name, Reason: "missing required argument"})
			r.values[i] = zeroOf(f.typ)
			continue
		}
		r.assign(i, required[next])
		next++
	}
	if next < len(required) {
		r.fail(&ArgumentError{Method: s.Method, Reason: "too many required arguments"})
	}
	return r
}

// Field looks up a field by name.
func (s *Spec) Field(name string) (Field, bool) {
	if i := s.index(name); i >= 0 {
		return s.Fields[i], true
	}
	return Field{}, false
}

func (s *Spec) index(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (s *Spec) httpMethod() string {
	if s.HTTPMethod == "" {
		return http.MethodGet
	}
	return s.HTTPMethod
}

// PermissionsFor unions the permissions declared by several specs.
func PermissionsFor(specs ...*Spec) domain.Permissions {
	var out domain.Permissions
	for _, s := range specs {
		out = domain.Union(out, s.Permissions)
	}
	return out
}

func zeroOf(t reflect.Type) any {
	if t == nil {
		return nil
	}
	return reflect.Zero(t).Interface()
}
