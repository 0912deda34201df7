package driven

// Payload is a decoded JSON object with typed field accessors. Each
// accessor reports false when the field is absent or of another type.
type Payload interface {
	// String returns a string field.
	String(name string) (string, bool)

	// Uint returns a non-negative integral number field.
	Uint(name string) (uint64, bool)

	// Int returns an integral number field.
	Int(name string) (int64, bool)

	// Object returns a nested object field.
	Object(name string) (Payload, bool)

	// Decode unmarshals a field into dst. It reports false, with a nil
	// error, when the field is absent.
	Decode(name string, dst any) (bool, error)
}

// PayloadDecoder decodes a response body into a Payload. Bodies that are
// not a JSON object are an error.
type PayloadDecoder interface {
	Decode(data []byte) (Payload, error)
}
