package toolcall

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects the JSON schema of a tool argument struct into the plain
// map shape expected by function-calling APIs. Schemas are inlined with no
// external references so every declaration is self-contained.
func SchemaFor(v any) map[string]any {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(v)

	b, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]any{"type": "object"}
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out
}
