package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON PATCH bodies (RFC 7396):
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is JSON null
//   - Present=true, Value=&s: field has a string value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only called when the field is present
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// IsSet reports whether the field carried a non-null value
func (o OptionalString) IsSet() bool {
	return o.Present && o.Value != nil
}
