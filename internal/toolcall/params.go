package toolcall

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// StringList is a tool parameter that accepts either a single string or a
// sequence of strings and normalizes both to a sequence at the boundary.
// Declaring the union once here keeps every tool's collection parameters
// uniform.
type StringList []string

// UnmarshalJSON accepts "x", ["x","y"] or null.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var null any
	if err := json.Unmarshal(data, &null); err == nil && null == nil {
		*s = nil
		return nil
	}
	return fmt.Errorf("expected string or array of strings, got %s", data)
}

// JSONSchema advertises the scalar-or-sequence union to the model.
func (StringList) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}
