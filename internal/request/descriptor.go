package request

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Descriptor is one administrative operation against the cluster.
// Order inside a request list is execution order.
type Descriptor struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Body   Body   `json:"body,omitzero"`

	// SecurityTenant selects the multi-tenancy namespace for saved objects.
	SecurityTenant *string `json:"securitytenant,omitempty"`

	// Filename switches the body to a multipart file upload. The body must
	// then be a string.
	Filename *string `json:"filename,omitempty"`
}

// String returns "METHOD path" for log and error messages.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s %s", d.Method, d.Path)
}

// BodyKind classifies the shape of a descriptor body.
type BodyKind int

const (
	// BodyNone is an absent or null body.
	BodyNone BodyKind = iota
	// BodyString is a pre-formatted string sent verbatim.
	BodyString
	// BodyStructured is any other JSON value, serialized before sending.
	BodyStructured
)

func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyString:
		return "string"
	case BodyStructured:
		return "structured"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// Body holds a descriptor body as raw JSON so that strings and structured
// values survive decoding from the orchestrator's properties unchanged.
type Body struct {
	raw json.RawMessage
}

// StringBody returns a body that is sent verbatim.
func StringBody(s string) Body {
	raw, _ := json.Marshal(s)
	return Body{raw: raw}
}

// JSONBody returns a structured body serialized from v. Values that
// serialize to a JSON string are rejected; use StringBody for those.
func JSONBody(v any) (Body, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Body{}, &EncodingError{Reason: "marshal body", Err: err}
	}
	if len(raw) > 0 && raw[0] == '"' {
		return Body{}, &EncodingError{Reason: "string value passed as structured body, use StringBody"}
	}
	return Body{raw: raw}, nil
}

// MustJSONBody is like JSONBody but panics on error. Intended for literals.
func MustJSONBody(v any) Body {
	b, err := JSONBody(v)
	if err != nil {
		panic(err)
	}
	return b
}

// Kind reports the body shape.
func (b Body) Kind() BodyKind {
	trimmed := bytes.TrimSpace(b.raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return BodyNone
	case trimmed[0] == '"':
		return BodyString
	default:
		return BodyStructured
	}
}

// Text returns the string content of a BodyString body.
func (b Body) Text() (string, bool) {
	if b.Kind() != BodyString {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Raw returns the body as raw JSON.
func (b Body) Raw() json.RawMessage {
	return b.raw
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Body) UnmarshalJSON(data []byte) error {
	b.raw = append(b.raw[:0], data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b Body) MarshalJSON() ([]byte, error) {
	if len(b.raw) == 0 {
		return []byte("null"), nil
	}
	return b.raw, nil
}
