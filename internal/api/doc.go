// Package api defines how VK API methods are declared and how their calls
// are encoded.
//
// A method is declared once as a [Spec]: its name, the permissions it
// needs, an ordered list of [Field] descriptors and any fixed [Constant]
// parameters, plus a constructor for its response type. Each call is a
// [Request] built from the Spec:
//
//	var statusSet = &api.Spec{
//	    Method:      "status.set",
//	    Permissions: domain.PermissionsFrom(domain.PermissionStatus),
//	    Fields: []api.Field{
//	        api.Required[string]("text", api.EncodeRaw),
//	        api.OptionalZero[*int64]("group_id", api.EncodeOptional),
//	    },
//	}
//
//	req := statusSet.New("hello").Set("group_id", 1)
//	req.Query() // "text=hello&group_id=1"
//
// # Encoding
//
// Every field picks one [Encoding]: the value's natural string form, a
// string passed through as-is, a boolean as "1"/"0", a comma-joined list,
// or an optional pointer that encodes to "" when nil. Any parameter that
// encodes to the empty string is left out of the query entirely.
//
// Typed wrappers for individual methods live in package methods.
package api
